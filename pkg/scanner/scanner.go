package scanner

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrNoBarcode is returned by Next when no barcode is available right now.
var ErrNoBarcode = errors.New("scanner: no barcode available")

// Source is the interface for acquiring barcodes from scanner hardware or a simulation.
type Source interface {
	// Next returns the next barcode read. It returns ErrNoBarcode when nothing
	// is available and ctx.Err() when ctx is cancelled while waiting.
	Next(ctx context.Context) (string, error)
}

// --- Simulated Source (picks a random known barcode) ---

// BarcodeLister supplies the barcodes a simulated scanner may produce.
type BarcodeLister interface {
	Barcodes(ctx context.Context) ([]string, error)
}

type simulatedSource struct {
	catalog BarcodeLister
	pick    func(n int) int
}

// NewSimulatedSource creates a source that reads a random barcode from the catalog on every call.
func NewSimulatedSource(catalog BarcodeLister) Source {
	return &simulatedSource{catalog: catalog, pick: rand.IntN}
}

func (s *simulatedSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	barcodes, err := s.catalog.Barcodes(ctx)
	if err != nil {
		return "", err
	}
	if len(barcodes) == 0 {
		return "", ErrNoBarcode
	}
	return barcodes[s.pick(len(barcodes))], nil
}

// --- Scripted Source (deterministic sequence) ---

// ScriptedSource replays a fixed list of barcodes, then reports ErrNoBarcode.
type ScriptedSource struct {
	mu       sync.Mutex
	barcodes []string
	reads    int
}

// NewScriptedSource creates a source that yields the barcodes in order.
func NewScriptedSource(barcodes ...string) *ScriptedSource {
	return &ScriptedSource{barcodes: barcodes}
}

func (s *ScriptedSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.barcodes) == 0 {
		return "", ErrNoBarcode
	}
	barcode := s.barcodes[0]
	s.barcodes = s.barcodes[1:]
	s.reads++
	return barcode, nil
}

// Push appends barcodes to the end of the script.
func (s *ScriptedSource) Push(barcodes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes = append(s.barcodes, barcodes...)
}

// Reads returns how many barcodes have been handed out.
func (s *ScriptedSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Remaining returns how many scripted barcodes are still queued.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.barcodes)
}
