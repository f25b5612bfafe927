// Package worker schedules ingestion cycles: once at startup, then on a
// fixed interval, plus manual triggers from the API. Overlapping triggers
// coalesce — a refresh requested while a cycle is in flight is a no-op.
package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"news-trust/internal/ingest"
	"news-trust/internal/store"
)

const defaultInterval = time.Hour

// Runner executes one ingestion cycle.
type Runner interface {
	Run(ctx context.Context) ingest.Result
}

// Notifier is told about each newly installed snapshot. The websocket hub
// implements it; nil disables notifications.
type Notifier interface {
	NotifySnapshot(snap *store.Snapshot)
}

// RefreshService manages the background refresh loop.
type RefreshService struct {
	pipeline Runner
	store    *store.Store
	notifier Notifier
	interval time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
	stopped  bool
	mu       sync.RWMutex
	inFlight atomic.Bool
}

// NewRefreshService creates a refresh service. A zero interval gets the
// default one hour.
func NewRefreshService(pipeline Runner, st *store.Store, notifier Notifier, interval time.Duration) *RefreshService {
	if interval <= 0 {
		interval = defaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RefreshService{
		pipeline: pipeline,
		store:    st,
		notifier: notifier,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the refresh loop: one immediate cycle, then one per
// interval. Calling Start on a running service is a no-op.
func (ws *RefreshService) Start() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running || ws.stopped {
		return
	}
	ws.running = true

	log.Printf("🔄 Starting refresh worker (interval %v)", ws.interval)

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()

		ws.refreshOnce()

		ticker := time.NewTicker(ws.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ws.ctx.Done():
				log.Printf("🛑 Refresh worker stopping")
				return
			case <-ticker.C:
				ws.refreshOnce()
			}
		}
	}()
}

// Stop cancels the loop and waits for any in-flight cycle to finish. A
// stopped service accepts no further triggers.
func (ws *RefreshService) Stop() {
	ws.mu.Lock()
	if ws.stopped {
		ws.mu.Unlock()
		return
	}
	ws.stopped = true
	ws.running = false
	ws.mu.Unlock()

	ws.cancel()
	ws.wg.Wait()
	log.Printf("✅ Refresh worker stopped")
}

// TriggerRefresh starts a manual cycle in the background. It reports false
// when a cycle is already in flight, in which case the trigger coalesces
// into that cycle instead of racing it, or when the service has been
// stopped.
func (ws *RefreshService) TriggerRefresh() bool {
	// wg.Add must not race Stop's wg.Wait; both the stopped check and the
	// Add happen under the same lock Stop holds while marking stopped.
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.stopped {
		return false
	}
	if !ws.inFlight.CompareAndSwap(false, true) {
		return false
	}

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		defer ws.inFlight.Store(false)
		ws.runCycle()
	}()
	return true
}

// InFlight reports whether a cycle is currently running.
func (ws *RefreshService) InFlight() bool {
	return ws.inFlight.Load()
}

// refreshOnce runs a scheduled cycle unless one is already in flight.
func (ws *RefreshService) refreshOnce() {
	if !ws.inFlight.CompareAndSwap(false, true) {
		log.Printf("⏭️  Refresh skipped: previous cycle still running")
		return
	}
	defer ws.inFlight.Store(false)
	ws.runCycle()
}

// runCycle executes the pipeline and installs the resulting snapshot. A
// totally failed cycle gets exactly one immediate fallback attempt before
// its result is accepted as-is.
func (ws *RefreshService) runCycle() {
	result := ws.pipeline.Run(ws.ctx)

	if result.Failed() && ws.ctx.Err() == nil {
		log.Printf("⚠️  All feeds failed, running one fallback attempt")
		result = ws.pipeline.Run(ws.ctx)
	}

	snap := store.Build(result)
	ws.store.Swap(snap)

	if ws.notifier != nil {
		ws.notifier.NotifySnapshot(snap)
	}

	log.Printf("📊 Snapshot installed: %d articles (failed=%v)", len(snap.Articles), result.Failed())
}
