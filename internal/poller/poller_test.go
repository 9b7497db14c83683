package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/platform/coinranking"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns queued responses in order, repeating the last one.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []fetchResult
	calls     int
	block     chan struct{} // when non-nil, FetchCoins waits until closed
}

type fetchResult struct {
	coins []coinranking.APICoin
	err   error
}

func (f *scriptedFetcher) FetchCoins(ctx context.Context) ([]coinranking.APICoin, error) {
	f.mu.Lock()
	f.calls++
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	res := f.responses[idx]
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res.coins, res.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// snapshotRecorder records handled snapshots.
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []domain.PriceSnapshot
}

func (r *snapshotRecorder) HandleSnapshot(_ context.Context, snap domain.PriceSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

func (r *snapshotRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func coins(pairs ...string) []coinranking.APICoin {
	out := make([]coinranking.APICoin, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, coinranking.APICoin{Symbol: pairs[i], Price: pairs[i+1]})
	}
	return out
}

func TestPoll_BuildsSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{coins: coins("BTC", "64000.5", "ETH", "3100", "DOGE", "0.1")},
	}}
	rec := &snapshotRecorder{}
	p := New(fetcher, rec, nil, []string{"BTC", "ETH", "XRP"}, time.Minute, testLogger())

	p.Poll(context.Background())

	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.Empty(t, p.LastError())

	btc, ok := snap.Price("BTC")
	require.True(t, ok)
	require.Equal(t, 64000.5, btc)

	eth, ok := snap.Price("ETH")
	require.True(t, ok)
	require.Equal(t, 3100.0, eth)

	// XRP absent from the response: nil entry, whole update not aborted.
	_, ok = snap.Price("XRP")
	require.False(t, ok)
	require.Contains(t, snap.Prices, "XRP")

	// DOGE is not tracked and must not leak into the snapshot.
	require.NotContains(t, snap.Prices, "DOGE")

	require.Equal(t, 1, rec.count())
}

func TestPoll_UnparsablePriceIsNil(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{coins: coins("BTC", "not-a-number", "ETH", "3100")},
	}}
	p := New(fetcher, &snapshotRecorder{}, nil, []string{"BTC", "ETH"}, time.Minute, testLogger())

	p.Poll(context.Background())

	snap, ok := p.Snapshot()
	require.True(t, ok)
	_, ok = snap.Price("BTC")
	require.False(t, ok)
	_, ok = snap.Price("ETH")
	require.True(t, ok)
}

func TestPoll_FailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{coins: coins("BTC", "100")},
		{err: errors.New("http 500")},
		{coins: coins("BTC", "200")},
	}}
	rec := &snapshotRecorder{}
	p := New(fetcher, rec, nil, []string{"BTC"}, time.Minute, testLogger())
	ctx := context.Background()

	p.Poll(ctx)
	require.Empty(t, p.LastError())
	snap, _ := p.Snapshot()
	btc, _ := snap.Price("BTC")
	require.Equal(t, 100.0, btc)

	// Failed fetch: error flag set, snapshot unchanged, handler not invoked.
	p.Poll(ctx)
	require.Equal(t, "http 500", p.LastError())
	snap, _ = p.Snapshot()
	btc, _ = snap.Price("BTC")
	require.Equal(t, 100.0, btc)
	require.Equal(t, 1, rec.count())

	// Next success clears the error and updates fully.
	p.Poll(ctx)
	require.Empty(t, p.LastError())
	snap, _ = p.Snapshot()
	btc, _ = snap.Price("BTC")
	require.Equal(t, 200.0, btc)
	require.Equal(t, 2, rec.count())
}

func TestPoll_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	fetcher := &scriptedFetcher{
		responses: []fetchResult{{coins: coins("BTC", "100")}},
		block:     block,
	}
	p := New(fetcher, &snapshotRecorder{}, nil, []string{"BTC"}, time.Minute, testLogger())

	done := make(chan struct{})
	go func() {
		p.Poll(context.Background())
		close(done)
	}()

	// Wait for the first fetch to be underway, then attempt an overlapping
	// poll; it must be skipped.
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)
	p.Poll(context.Background())
	require.Equal(t, 1, fetcher.callCount())

	close(block)
	<-done
	require.Equal(t, 1, fetcher.callCount())
}

func TestPoll_DiscardsResultAfterCancel(t *testing.T) {
	block := make(chan struct{})
	fetcher := &scriptedFetcher{
		responses: []fetchResult{{coins: coins("BTC", "100")}},
		block:     block,
	}
	rec := &snapshotRecorder{}
	p := New(fetcher, rec, nil, []string{"BTC"}, time.Minute, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Poll(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)
	cancel()
	close(block)
	<-done

	_, ok := p.Snapshot()
	require.False(t, ok, "result completed after cancellation must be discarded")
	require.Zero(t, rec.count())
}

func TestRun_PollsImmediately(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchResult{
		{coins: coins("BTC", "100")},
	}}
	rec := &snapshotRecorder{}
	p := New(fetcher, rec, nil, []string{"BTC"}, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestTriggerRefresh_Coalesces(t *testing.T) {
	p := New(&scriptedFetcher{responses: []fetchResult{{}}}, nil, nil, nil, time.Hour, testLogger())

	// Repeated triggers before the loop drains them collapse into one.
	p.TriggerRefresh()
	p.TriggerRefresh()
	p.TriggerRefresh()
	require.Len(t, p.refreshCh, 1)
}
