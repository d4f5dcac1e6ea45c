package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/source"
)

// countingClient counts fetches and optionally blocks until released, so
// tests can hold a refresh cycle open.
type countingClient struct {
	fetches atomic.Int32
	started chan struct{}
	release chan struct{}
}

var _ source.Client = (*countingClient)(nil)

func (c *countingClient) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	return "UU1", nil
}

func (c *countingClient) FetchPage(ctx context.Context, uploadsID string, pageToken string) (*source.Page, error) {
	c.fetches.Add(1)

	if c.started != nil {
		select {
		case c.started <- struct{}{}:
		default:
		}
	}
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &source.Page{Videos: []source.Video{{Title: "official trailer", URL: "https://x/1"}}}, nil
}

func newTestChannels(t *testing.T) *source.ChannelCache {
	t.Helper()

	cache := source.NewChannelCache("UC1", "")
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}
	return cache
}

func newTestScheduler(store catalog.Store, client source.Client, channels *source.ChannelCache, startupCheck bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:           store,
		client:          client,
		channels:        channels,
		refreshInterval: time.Hour,
		pollInterval:    10 * time.Millisecond,
		startupCheck:    startupCheck,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

func TestSchedulerStartupRefreshWhenNeverPopulated(t *testing.T) {
	store := catalog.NewMemoryStore()
	client := &countingClient{}

	scheduler := newTestScheduler(store, client, newTestChannels(t), true)
	scheduler.Start()
	defer scheduler.Stop()

	waitFor(t, time.Second, func() bool {
		_, ok := store.Freshness()
		return ok
	})

	if _, ok := store.Lookup("official trailer"); !ok {
		t.Error("Expected catalog populated by startup refresh")
	}
}

func TestSchedulerSkipsFreshCatalog(t *testing.T) {
	store := catalog.NewMemoryStore()
	if err := store.ReplaceAll([]catalog.Entry{{Title: "a", URL: "u"}}, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}
	client := &countingClient{}

	scheduler := newTestScheduler(store, client, newTestChannels(t), true)
	scheduler.Start()

	// Several poll ticks pass; the catalog is well within the refresh
	// interval, so no cycle should run.
	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()

	if n := client.fetches.Load(); n != 0 {
		t.Errorf("Expected no fetches for a fresh catalog, got %d", n)
	}
}

func TestSchedulerRefreshesStaleCatalog(t *testing.T) {
	store := catalog.NewMemoryStore()
	stale := time.Now().UTC().Add(-2 * time.Hour)
	if err := store.ReplaceAll([]catalog.Entry{{Title: "old", URL: "u"}}, stale); err != nil {
		t.Fatal(err)
	}
	client := &countingClient{}

	scheduler := newTestScheduler(store, client, newTestChannels(t), false)
	scheduler.Start()
	defer scheduler.Stop()

	waitFor(t, time.Second, func() bool {
		_, ok := store.Lookup("official trailer")
		return ok
	})
}

func TestTriggerRefreshSingleFlight(t *testing.T) {
	store := catalog.NewMemoryStore()
	client := &countingClient{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	scheduler := newTestScheduler(store, client, newTestChannels(t), false)

	if !scheduler.TriggerRefresh() {
		t.Fatal("Expected first trigger to start a cycle")
	}

	<-client.started

	if scheduler.TriggerRefresh() {
		t.Error("Expected overlapping trigger to be dropped")
	}
	if !scheduler.IsRefreshing() {
		t.Error("Expected scheduler to report an in-flight cycle")
	}

	close(client.release)

	waitFor(t, time.Second, func() bool { return !scheduler.IsRefreshing() })

	if !scheduler.TriggerRefresh() {
		t.Error("Expected trigger to start a cycle once the previous one finished")
	}
	waitFor(t, time.Second, func() bool { return !scheduler.IsRefreshing() })

	scheduler.Stop()
}

func TestSchedulerStopWaitsForWorkers(t *testing.T) {
	store := catalog.NewMemoryStore()
	client := &countingClient{}

	scheduler := newTestScheduler(store, client, newTestChannels(t), true)
	scheduler.Start()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
