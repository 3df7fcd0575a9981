package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Catalog     CatalogConfig
	Scanner     ScannerConfig
	Printer     PrinterConfig
	Store       StoreConfig
	JWT         JWTConfig
	Attendant   AttendantConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Debug    bool
}

// CatalogConfig selects where barcodes and discount codes are looked up.
type CatalogConfig struct {
	Backend string // "memory" or "postgres"
	Seed    bool
}

// ScannerConfig controls the barcode acquisition source and the scan worker pacing.
type ScannerConfig struct {
	Source       string // "simulated", "device" or "none"
	DevicePath   string
	MinInterval  time.Duration
	MaxInterval  time.Duration
	BatchSize    int
	BaggingPause time.Duration
	IdlePoll     time.Duration
	RetryDelay   time.Duration
	StopGrace    time.Duration
}

type PrinterConfig struct {
	Type    string // "usb", "network", "console" or "none"
	USBPath string
	Address string
	Width   int
}

type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type AttendantConfig struct {
	PIN     string
	PINHash string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type IdempotencyConfig struct {
	TTL time.Duration
}

func millis(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Millisecond
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Debug:    viper.GetBool("APP_DEBUG"),
		},
		Catalog: CatalogConfig{
			Backend: viper.GetString("CATALOG_BACKEND"),
			Seed:    viper.GetBool("CATALOG_SEED"),
		},
		Scanner: ScannerConfig{
			Source:       viper.GetString("SCANNER_SOURCE"),
			DevicePath:   viper.GetString("SCANNER_DEVICE_PATH"),
			MinInterval:  millis("SCANNER_MIN_INTERVAL_MS"),
			MaxInterval:  millis("SCANNER_MAX_INTERVAL_MS"),
			BatchSize:    viper.GetInt("SCANNER_BATCH_SIZE"),
			BaggingPause: millis("SCANNER_BAGGING_PAUSE_MS"),
			IdlePoll:     millis("SCANNER_IDLE_POLL_MS"),
			RetryDelay:   millis("SCANNER_RETRY_DELAY_MS"),
			StopGrace:    millis("SCANNER_STOP_GRACE_MS"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Address: viper.GetString("STORE_ADDRESS"),
			Phone:   viper.GetString("STORE_PHONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Attendant: AttendantConfig{
			PIN:     viper.GetString("ATTENDANT_PIN"),
			PINHash: viper.GetString("ATTENDANT_PIN_HASH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(viper.GetInt("IDEMPOTENCY_TTL_MINUTES")) * time.Minute,
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "selfcheckout-kiosk")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "kiosk")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("CATALOG_BACKEND", "memory")
	viper.SetDefault("CATALOG_SEED", true)
	viper.SetDefault("SCANNER_SOURCE", "simulated")
	viper.SetDefault("SCANNER_DEVICE_PATH", "/dev/ttyACM0")
	viper.SetDefault("SCANNER_MIN_INTERVAL_MS", 1500)
	viper.SetDefault("SCANNER_MAX_INTERVAL_MS", 3000)
	viper.SetDefault("SCANNER_BATCH_SIZE", 5)
	viper.SetDefault("SCANNER_BAGGING_PAUSE_MS", 2000)
	viper.SetDefault("SCANNER_IDLE_POLL_MS", 500)
	viper.SetDefault("SCANNER_RETRY_DELAY_MS", 1000)
	viper.SetDefault("SCANNER_STOP_GRACE_MS", 1000)
	viper.SetDefault("PRINTER_TYPE", "console")
	viper.SetDefault("PRINTER_WIDTH", 40)
	viper.SetDefault("STORE_NAME", "Self-Checkout")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 8)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("IDEMPOTENCY_TTL_MINUTES", 60)
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
