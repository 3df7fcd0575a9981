package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/internal/infrastructure/repository"
	"github.com/sangkips/selfcheckout-kiosk/pkg/metrics"
	"github.com/sangkips/selfcheckout-kiosk/pkg/scanner"
)

func fastWorkerConfig() ScanWorkerConfig {
	return ScanWorkerConfig{
		MinInterval:  time.Millisecond,
		MaxInterval:  2 * time.Millisecond,
		BatchSize:    5,
		BaggingPause: time.Millisecond,
		IdlePoll:     time.Millisecond,
		RetryDelay:   time.Millisecond,
		StopGrace:    500 * time.Millisecond,
	}
}

// recordingSink appends while the screen is scanning and remembers the
// screen seen at every append.
type recordingSink struct {
	mu          sync.Mutex
	screens     *ScreenController
	items       []entity.Item
	seen        []enum.Screen
	rejectFirst int
	offers      int
}

func (s *recordingSink) AcceptScanned(item entity.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers++
	if s.offers <= s.rejectFirst {
		return false, nil
	}
	screen := s.screens.Current()
	if screen != enum.ScreenScanning {
		return false, nil
	}
	s.items = append(s.items, item)
	s.seen = append(s.seen, screen)
	return true, nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func newTestWorker(t *testing.T, source scanner.Source, sink *recordingSink, cfg ScanWorkerConfig, log *zap.Logger, m *metrics.Metrics) *ScanWorker {
	t.Helper()
	w := NewScanWorker(source, repository.NewDefaultMemoryCatalogRepository(), sink.screens, sink, cfg, log, m)
	t.Cleanup(w.Stop)
	return w
}

func Test_ScanWorker_StartIsIdempotent(t *testing.T) {
	screens := NewScreenController()
	w := newTestWorker(t, scanner.NewScriptedSource(), &recordingSink{screens: screens}, fastWorkerConfig(), nil, nil)

	assert.True(t, w.Start())
	assert.False(t, w.Start())
	assert.True(t, w.IsActive())

	w.Stop()
	assert.False(t, w.IsActive())

	// stopping an idle worker is a no-op
	w.Stop()
	assert.False(t, w.IsActive())
}

func Test_ScanWorker_AppendsScannedItems(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	sink := &recordingSink{screens: screens}
	w := newTestWorker(t, scanner.NewScriptedSource("987654321", "123456789"), sink, fastWorkerConfig(), nil, nil)

	w.Start()

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, time.Millisecond)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "Milk", sink.items[0].Name)
	assert.Equal(t, "Bread", sink.items[1].Name)
}

func Test_ScanWorker_IdlesOffScanningScreen(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenDiscounts)
	source := scanner.NewScriptedSource("987654321")
	sink := &recordingSink{screens: screens}
	w := newTestWorker(t, source, sink, fastWorkerConfig(), nil, nil)

	w.Start()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 0, sink.count())
	assert.Equal(t, 0, source.Reads(), "nothing is acquired while idling")

	_, _ = screens.NavigateTo(enum.ScreenScanning)
	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, time.Millisecond)
}

func Test_ScanWorker_NeverAppendsOffScanningScreen(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	barcodes := make([]string, 200)
	for i := range barcodes {
		barcodes[i] = "789123456"
	}
	sink := &recordingSink{screens: screens}
	cfg := fastWorkerConfig()
	cfg.MinInterval, cfg.MaxInterval = 0, 0
	w := newTestWorker(t, scanner.NewScriptedSource(barcodes...), sink, cfg, nil, nil)

	w.Start()
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			_, _ = screens.NavigateTo(enum.ScreenDiscounts)
		} else {
			_, _ = screens.NavigateTo(enum.ScreenScanning)
		}
		time.Sleep(time.Millisecond)
	}
	w.Stop()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, screen := range sink.seen {
		assert.Equal(t, enum.ScreenScanning, screen)
	}
}

func Test_ScanWorker_KeepsItemRefusedBySink(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	source := scanner.NewScriptedSource("456789123")
	sink := &recordingSink{screens: screens, rejectFirst: 3}
	w := newTestWorker(t, source, sink, fastWorkerConfig(), nil, nil)

	w.Start()

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, source.Reads(), "the refused item is offered again, not re-read")
	sink.mu.Lock()
	assert.Equal(t, "Eggs", sink.items[0].Name)
	sink.mu.Unlock()
}

func Test_ScanWorker_BaggingCheckpointAfterBatch(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	sink := &recordingSink{screens: screens}
	source := scanner.NewScriptedSource("123456789", "987654321", "456789123", "789123456", "321654987", "654987321")
	w := newTestWorker(t, source, sink, fastWorkerConfig(), zap.New(core), nil)

	w.Start()

	require.Eventually(t, func() bool { return sink.count() == 6 }, time.Second, time.Millisecond)
	bagging := logs.FilterMessage("Please place scanned items in bagging area").All()
	require.Len(t, bagging, 1)
	assert.Equal(t, int64(5), bagging[0].ContextMap()["scanned"])
}

func Test_ScanWorker_UnknownBarcodeIsSkipped(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	sink := &recordingSink{screens: screens}
	w := newTestWorker(t, scanner.NewScriptedSource("000000000", "987654321"), sink, fastWorkerConfig(), nil, m)

	w.Start()

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnknownBarcodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsAdded.WithLabelValues("scanner")))
}

func Test_ScanWorker_ExitsWhenSourceCloses(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	sink := &recordingSink{screens: screens}
	w := newTestWorker(t, scanner.NewReaderSource(strings.NewReader("987654321\n")), sink, fastWorkerConfig(), nil, nil)

	w.Start()

	require.Eventually(t, func() bool { return sink.count() == 1 && !w.IsActive() }, time.Second, time.Millisecond)
}

// stubbornSource ignores cancellation, like hardware stuck mid-read.
type stubbornSource struct{ delay time.Duration }

func (s stubbornSource) Next(context.Context) (string, error) {
	time.Sleep(s.delay)
	return "", scanner.ErrNoBarcode
}

func Test_ScanWorker_StopWaitIsBounded(t *testing.T) {
	screens := NewScreenController()
	_, _ = screens.NavigateTo(enum.ScreenScanning)
	cfg := fastWorkerConfig()
	cfg.StopGrace = 10 * time.Millisecond
	w := newTestWorker(t, stubbornSource{delay: 300 * time.Millisecond}, &recordingSink{screens: screens}, cfg, nil, nil)

	w.Start()
	time.Sleep(10 * time.Millisecond)

	started := time.Now()
	w.Stop()

	assert.Less(t, time.Since(started), 200*time.Millisecond)
	assert.False(t, w.IsActive())
}
