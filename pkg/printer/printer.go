package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// Printer is the interface for sending a rendered receipt to a printer.
type Printer interface {
	// Print sends the rendered bytes to the printer.
	Print(data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected returns true if the printer can currently accept a job.
	IsConnected() bool
	// Kind names the backend ("usb", "network", "console" or "none").
	Kind() string
	// PlainText reports whether the printer expects plain text instead of ESC/POS.
	PlainText() bool
}

// --- USB Printer (writes to device file, e.g. /dev/usb/lp0) ---

type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error { return nil } // opened per job

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string    { return "usb" }
func (p *usbPrinter) PlainText() bool { return false }

// --- Network Printer (dials TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))

	if _, err = conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error { return nil } // dialled per job

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string    { return "network" }
func (p *networkPrinter) PlainText() bool { return false }

// --- Writer Printer (plain text to stdout or any io.Writer) ---

type writerPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterPrinter creates a printer that writes plain-text receipts to w.
func NewWriterPrinter(w io.Writer) Printer {
	return &writerPrinter{w: w}
}

// NewConsolePrinter prints receipts to standard output.
func NewConsolePrinter() Printer {
	return NewWriterPrinter(os.Stdout)
}

func (p *writerPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.w.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write receipt: %w", err)
	}
	return nil
}

func (p *writerPrinter) Close() error {
	if c, ok := p.w.(io.Closer); ok && p.w != os.Stdout {
		return c.Close()
	}
	return nil
}

func (p *writerPrinter) IsConnected() bool { return true }
func (p *writerPrinter) Kind() string      { return "console" }
func (p *writerPrinter) PlainText() bool   { return true }

// --- Null Printer (no-op, used when no printer is configured) ---

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for environments without hardware.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print([]byte) error { return nil }
func (p *nullPrinter) Close() error       { return nil }
func (p *nullPrinter) IsConnected() bool  { return false }
func (p *nullPrinter) Kind() string       { return "none" }
func (p *nullPrinter) PlainText() bool    { return true }

// NewPrinterFromConfig creates the appropriate Printer based on type.
//
//	printerType: "usb", "network", "console", or "none"
//	usbPath: device path for USB printers (e.g. "/dev/usb/lp0")
//	address: TCP address for network printers (e.g. "192.168.1.100:9100")
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "console":
		return NewConsolePrinter(), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, console, or none)", printerType)
	}
}
