package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// --- Device Source (keyboard-wedge or serial scanner) ---

// DeviceSource reads newline-terminated barcodes from a scanner device.
// A background reader feeds a channel so Next can honour ctx cancellation.
type DeviceSource struct {
	rc    io.ReadCloser
	lines  chan string
	errCh  chan error
	closed chan struct{}
	once   sync.Once
}

// NewDeviceSource opens the scanner device at path.
func NewDeviceSource(path string) (*DeviceSource, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open scanner device %s: %w", path, err)
	}
	return NewReaderSource(f), nil
}

// NewReaderSource wraps any reader producing one barcode per line.
func NewReaderSource(r io.Reader) *DeviceSource {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	d := &DeviceSource{
		rc:    rc,
		lines:  make(chan string, 16),
		errCh:  make(chan error, 1),
		closed: make(chan struct{}),
	}
	go d.readLoop()
	return d
}

func (d *DeviceSource) readLoop() {
	defer close(d.lines)

	sc := bufio.NewScanner(d.rc)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case d.lines <- line:
		case <-d.closed:
			return
		}
	}
	if err := sc.Err(); err != nil {
		d.errCh <- err
	}
}

// Next blocks until a barcode is read or ctx is done. It reports io.EOF once
// the device stream has ended.
func (d *DeviceSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-d.lines:
		if !ok {
			select {
			case err := <-d.errCh:
				return "", err
			default:
				return "", io.EOF
			}
		}
		return line, nil
	}
}

// Close releases the underlying device and stops the background reader,
// dropping any barcodes nobody consumed.
func (d *DeviceSource) Close() error {
	var err error
	d.once.Do(func() {
		close(d.closed)
		err = d.rc.Close()
	})
	return err
}
