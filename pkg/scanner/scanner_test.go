package scanner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBarcodes []string

func (s staticBarcodes) Barcodes(context.Context) ([]string, error) { return s, nil }

func Test_SimulatedSource_PicksKnownBarcode(t *testing.T) {
	src := &simulatedSource{catalog: staticBarcodes{"111", "222", "333"}, pick: func(int) int { return 1 }}

	barcode, err := src.Next(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "222", barcode)
}

func Test_SimulatedSource_EmptyCatalog(t *testing.T) {
	src := NewSimulatedSource(staticBarcodes{})

	_, err := src.Next(context.Background())

	assert.ErrorIs(t, err, ErrNoBarcode)
}

func Test_SimulatedSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedSource(staticBarcodes{"111"}).Next(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_ScriptedSource_ReplaysInOrder(t *testing.T) {
	ctx := context.Background()
	src := NewScriptedSource("a", "b")

	first, err := src.Next(ctx)
	require.NoError(t, err)
	second, err := src.Next(ctx)
	require.NoError(t, err)
	_, err = src.Next(ctx)

	assert.Equal(t, "a", first)
	assert.Equal(t, "b", second)
	assert.ErrorIs(t, err, ErrNoBarcode)
	assert.Equal(t, 2, src.Reads())

	src.Push("c")
	assert.Equal(t, 1, src.Remaining())
}

func Test_ReaderSource_SkipsBlankLinesAndEnds(t *testing.T) {
	ctx := context.Background()
	src := NewReaderSource(strings.NewReader("123456789\n\n  987654321 \r\n"))
	defer src.Close()

	first, err := src.Next(ctx)
	require.NoError(t, err)
	second, err := src.Next(ctx)
	require.NoError(t, err)
	_, err = src.Next(ctx)

	assert.Equal(t, "123456789", first)
	assert.Equal(t, "987654321", second)
	assert.True(t, errors.Is(err, io.EOF))
}

func Test_ReaderSource_NextHonoursCancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	src := NewReaderSource(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.Next(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// endlessScans yields the same barcode line forever.
type endlessScans struct{ off int }

func (r *endlessScans) Read(p []byte) (int, error) {
	const line = "123456789\n"
	for i := range p {
		p[i] = line[r.off%len(line)]
		r.off++
	}
	return len(p), nil
}

func Test_ReaderSource_CloseStopsBlockedReader(t *testing.T) {
	src := NewReaderSource(&endlessScans{})
	require.Eventually(t, func() bool { return len(src.lines) == cap(src.lines) }, time.Second, time.Millisecond)

	require.NoError(t, src.Close())

	stopped := make(chan struct{})
	go func() {
		for range src.lines {
		}
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("reader still running after Close")
	}
}
