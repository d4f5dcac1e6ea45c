package tasks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/cfg"
	"github.com/okhotin/cliplink/app/source"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler drives periodic catalog refreshes. The policy is gated: a
// short poll tick re-evaluates freshness, and a cycle only runs once the
// catalog is older than the refresh interval. Exactly one cycle may be in
// flight; triggers arriving while a cycle runs are dropped, not queued. A
// failed cycle is retried at the next tick that still finds the catalog
// stale.
type Scheduler struct {
	store           catalog.Store
	client          source.Client
	channels        *source.ChannelCache
	refreshInterval time.Duration
	pollInterval    time.Duration
	startupCheck    bool
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	refreshing      atomic.Bool
}

func NewScheduler(store catalog.Store, client source.Client, channels *source.ChannelCache) SchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		store:           store,
		client:          client,
		channels:        channels,
		refreshInterval: time.Duration(cfg.RefreshInterval) * time.Second,
		pollInterval:    time.Duration(cfg.PollInterval) * time.Second,
		startupCheck:    !cfg.SkipStartupCheck,
		ctx:             ctx,
		cancel:          cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.startupCheck {
			s.refreshIfStale()
		}

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.refreshIfStale()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// TriggerRefresh starts a refresh cycle unless one is already in flight.
// It reports whether a cycle was started.
func (s *Scheduler) TriggerRefresh() bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		slog.Debug("Refresh already in flight, dropping trigger")
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.refreshing.Store(false)

		task := NewRefreshTask(s.client, s.store, s.channels.GetEnabled())
		task.Start()

		if err := task.Execute(s.ctx); err != nil {
			slog.Error("Refresh cycle failed", "type", string(task.GetType()), "id", task.GetID(), "duration", task.GetDuration(), "error", err)
		}
	}()

	return true
}

func (s *Scheduler) IsRefreshing() bool {
	return s.refreshing.Load()
}

func (s *Scheduler) refreshIfStale() {
	if !s.isStale() {
		slog.Debug("Catalog still fresh, skipping refresh")
		return
	}
	s.TriggerRefresh()
}

func (s *Scheduler) isStale() bool {
	lastUpdate, ok := s.store.Freshness()
	if !ok {
		return true
	}
	return time.Since(lastUpdate) >= s.refreshInterval
}
