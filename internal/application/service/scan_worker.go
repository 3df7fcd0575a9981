package service

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/scanner"
)

// ItemLookup resolves a barcode to a priced item, nil when unknown.
type ItemLookup interface {
	Lookup(ctx context.Context, barcode string) (*entity.Item, error)
}

// ScanSink receives items read by the worker. It reports false when the
// session is not accepting scans right now; the worker then holds the item
// and offers it again later.
type ScanSink interface {
	AcceptScanned(item entity.Item) (bool, error)
}

// ScanWorkerConfig controls the pacing of the continuous scan loop
type ScanWorkerConfig struct {
	MinInterval  time.Duration
	MaxInterval  time.Duration
	BatchSize    int
	BaggingPause time.Duration
	IdlePoll     time.Duration
	RetryDelay   time.Duration
	StopGrace    time.Duration
}

// DefaultScanWorkerConfig returns the pacing used by the demo kiosk
func DefaultScanWorkerConfig() ScanWorkerConfig {
	return ScanWorkerConfig{
		MinInterval:  1500 * time.Millisecond,
		MaxInterval:  3000 * time.Millisecond,
		BatchSize:    5,
		BaggingPause: 2 * time.Second,
		IdlePoll:     500 * time.Millisecond,
		RetryDelay:   time.Second,
		StopGrace:    time.Second,
	}
}

// ScanWorker continuously acquires barcodes in the background and hands the
// resolved items to its sink while the session is on the scanning screen.
type ScanWorker struct {
	source  scanner.Source
	catalog ItemLookup
	screens *ScreenController
	sink    ScanSink
	cfg     ScanWorkerConfig
	log     *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScanWorker creates a stopped worker
func NewScanWorker(
	source scanner.Source,
	catalog ItemLookup,
	screens *ScreenController,
	sink ScanSink,
	cfg ScanWorkerConfig,
	log *zap.Logger,
	m *metrics.Metrics,
) *ScanWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanWorker{
		source:  source,
		catalog: catalog,
		screens: screens,
		sink:    sink,
		cfg:     cfg,
		log:     log.Named("scanner"),
		metrics: m,
	}
}

// IsActive reports whether the worker has been started and not stopped.
func (w *ScanWorker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Start launches the scan loop. It returns false without doing anything when
// the worker is already running.
func (w *ScanWorker) Start() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active {
		w.log.Warn("scanner already active")
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.active = true
	w.cancel = cancel
	w.done = done
	w.metrics.SetScannerActive(true)

	go w.run(ctx, done)

	w.log.Info("continuous scanning activated")
	return true
}

// Stop cancels the scan loop and waits up to StopGrace for it to exit.
// The worker is inactive when Stop returns, whether or not the loop has
// finished its last cycle.
func (w *ScanWorker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.active = false
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	cancel()
	w.metrics.SetScannerActive(false)

	select {
	case <-done:
		w.log.Info("scanning completed")
	case <-time.After(w.cfg.StopGrace):
		w.log.Warn("scan loop did not exit within grace period", zap.Duration("grace", w.cfg.StopGrace))
	}
}

func (w *ScanWorker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer w.exited(done)

	var pending *entity.Item
	scanned := 0

	for {
		if ctx.Err() != nil {
			return
		}

		if w.screens.Current() != enum.ScreenScanning {
			if !sleep(ctx, w.cfg.IdlePoll) {
				return
			}
			continue
		}

		if pending == nil {
			if !sleep(ctx, w.interval()) {
				return
			}
			item, err := w.acquire(ctx)
			switch {
			case err == nil:
			case ctx.Err() != nil:
				return
			case errors.Is(err, scanner.ErrNoBarcode):
				if !sleep(ctx, w.cfg.IdlePoll) {
					return
				}
				continue
			case errors.Is(err, io.EOF):
				w.log.Warn("barcode source closed, scan loop exiting")
				return
			default:
				w.log.Error("failed to read barcode", zap.Error(err))
				if !sleep(ctx, w.cfg.RetryDelay) {
					return
				}
				continue
			}
			if item == nil {
				if !sleep(ctx, w.cfg.RetryDelay) {
					return
				}
				continue
			}
			pending = item
		}

		if ctx.Err() != nil {
			return
		}
		accepted, err := w.sink.AcceptScanned(*pending)
		if err != nil {
			w.log.Error("scanned item rejected", zap.String("barcode", pending.Barcode), zap.Error(err))
			pending = nil
			continue
		}
		if !accepted {
			if !sleep(ctx, w.cfg.IdlePoll) {
				return
			}
			continue
		}

		w.metrics.ItemAdded("scanner")
		pending = nil
		scanned++

		if w.cfg.BatchSize > 0 && scanned%w.cfg.BatchSize == 0 {
			w.log.Info("Please place scanned items in bagging area", zap.Int("scanned", scanned))
			if !sleep(ctx, w.cfg.BaggingPause) {
				return
			}
		}
	}
}

// exited clears the active flag when the loop ends on its own.
func (w *ScanWorker) exited(done chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == done {
		w.active = false
		w.cancel = nil
		w.done = nil
		w.metrics.SetScannerActive(false)
	}
}

func (w *ScanWorker) acquire(ctx context.Context) (*entity.Item, error) {
	barcode, err := w.source.Next(ctx)
	if err != nil {
		return nil, err
	}
	item, err := w.catalog.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		w.metrics.UnknownBarcode()
		w.log.Warn("Unrecognized barcode, please try again", zap.String("barcode", barcode))
		return nil, nil
	}
	return item, nil
}

func (w *ScanWorker) interval() time.Duration {
	spread := w.cfg.MaxInterval - w.cfg.MinInterval
	if spread <= 0 {
		return w.cfg.MinInterval
	}
	return w.cfg.MinInterval + rand.N(spread)
}

// sleep waits for d or until ctx is done, reporting whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
