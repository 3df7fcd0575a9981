package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
	"github.com/sangkips/selfcheckout-kiosk/pkg/utils"
)

// AttendantService authenticates store staff by PIN
type AttendantService struct {
	pinHash     string
	attendantID uuid.UUID
	jwtManager  *utils.JWTManager
	log         *zap.Logger
}

// NewAttendantService creates an attendant service. When pinHash is empty
// the plain pin is hashed at startup; with neither, attendant login is disabled.
func NewAttendantService(pin, pinHash string, jwtManager *utils.JWTManager, log *zap.Logger) (*AttendantService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if pinHash == "" && pin != "" {
		hashed, err := utils.HashPassword(pin)
		if err != nil {
			return nil, err
		}
		pinHash = hashed
	}
	return &AttendantService{
		pinHash:     pinHash,
		attendantID: uuid.New(),
		jwtManager:  jwtManager,
		log:         log.Named("attendant"),
	}, nil
}

// AttendantLoginOutput represents the login output
type AttendantLoginOutput struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login verifies the PIN and issues an attendant access token
func (s *AttendantService) Login(pin string) (*AttendantLoginOutput, error) {
	if s.pinHash == "" {
		s.log.Warn("attendant login attempted but no PIN is configured")
		return nil, apperror.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(pin, s.pinHash) {
		s.log.Warn("attendant login failed")
		return nil, apperror.ErrInvalidPIN
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(s.attendantID)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	s.log.Info("attendant logged in", zap.Stringer("attendant_id", s.attendantID))
	return &AttendantLoginOutput{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken returns the attendant claims of a bearer token
func (s *AttendantService) ValidateToken(token string) (*utils.AttendantClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	return claims, nil
}
