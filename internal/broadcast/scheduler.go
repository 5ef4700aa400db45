package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/stock-stream/internal/cache"
	"github.com/rickgao/stock-stream/internal/connection"
	"github.com/rickgao/stock-stream/internal/metrics"
	"github.com/rickgao/stock-stream/internal/model"
)

// ErrStopping is returned by Start while a stop is still in progress.
var ErrStopping = errors.New("scheduler is stopping")

// Fetcher retrieves one fresh snapshot for a symbol.
type Fetcher interface {
	LastTrade(ctx context.Context, symbol string) (model.Snapshot, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc func(ctx context.Context, symbol string) (model.Snapshot, error)

func (f FetcherFunc) LastTrade(ctx context.Context, symbol string) (model.Snapshot, error) {
	return f(ctx, symbol)
}

// SubscriberSource provides the subscription view for one cycle.
type SubscriberSource interface {
	Symbols() []string
	Subscribers(symbol string) []*connection.Client
}

// State is the scheduler lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds scheduler configuration.
type Config struct {
	Interval     time.Duration // Time between cycle starts (default: 5s)
	FetchTimeout time.Duration // Per-symbol fetch deadline (default: 2s)
	Concurrency  int           // Max concurrent fetches per cycle (default: 16)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     5 * time.Second,
		FetchTimeout: 2 * time.Second,
		Concurrency:  16,
	}
}

// Stats contains runtime statistics.
type Stats struct {
	State       string
	Cycles      int64
	Fetches     int64
	FetchErrors int64
	Pushes      int64
}

// Scheduler periodically fetches subscribed symbols and pushes fresh
// snapshots to their subscribers.
type Scheduler struct {
	cfg     Config
	fetcher Fetcher
	source  SubscriberSource
	store   *cache.Store
	logger  *slog.Logger

	mu     sync.Mutex
	state  State
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cycles      atomic.Int64
	fetches     atomic.Int64
	fetchErrors atomic.Int64
	pushes      atomic.Int64
}

// New creates a new Scheduler.
func New(cfg Config, fetcher Fetcher, source SubscriberSource, store *cache.Store, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		source:  source,
		store:   store,
		logger:  logger,
	}
}

// Start begins the broadcast loop. Calling Start while already running
// is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		s.logger.Info("broadcast scheduler already running")
		return nil
	case StateStopping:
		return ErrStopping
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.state = StateRunning

	s.wg.Add(1)
	go s.run()

	s.logger.Info("broadcast scheduler started",
		"interval", s.cfg.Interval,
		"fetch_timeout", s.cfg.FetchTimeout,
		"concurrency", s.cfg.Concurrency,
	)

	return nil
}

// Stop cancels the inter-cycle sleep and any in-flight fetches, waits
// for the current cycle's pushes to complete, then transitions to
// Stopped. Safe to call when not running.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopping
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		err = ctx.Err()
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	s.logger.Info("broadcast scheduler stopped")
	return err
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns current statistics.
func (s *Scheduler) Stats() Stats {
	return Stats{
		State:       s.State().String(),
		Cycles:      s.cycles.Load(),
		Fetches:     s.fetches.Load(),
		FetchErrors: s.fetchErrors.Load(),
		Pushes:      s.pushes.Load(),
	}
}

// run is the main broadcast loop. The ticker measures the interval from
// cycle start; a cycle that overruns the interval is followed
// immediately, but never overlapped, by the next one.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// First cycle fires immediately so startup subscribers are not left
	// waiting out a full interval.
	s.runCycle()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

// runCycle executes one fetch-then-push cycle.
func (s *Scheduler) runCycle() {
	start := time.Now()

	symbols := s.source.Symbols()
	if len(symbols) == 0 {
		s.logger.Debug("no subscriptions, skipping cycle")
		return
	}

	// Fetch phase: all symbols concurrently, each with its own deadline.
	// A failed symbol is skipped this cycle and retried on the next one.
	var snapMu sync.Mutex
	snaps := make([]model.Snapshot, 0, len(symbols))

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(s.ctx, s.cfg.FetchTimeout)
			defer cancel()

			s.fetches.Add(1)
			metrics.FetchesTotal.Inc()

			snap, err := s.fetcher.LastTrade(ctx, symbol)
			if err != nil {
				s.fetchErrors.Add(1)
				metrics.FetchErrorsTotal.Inc()
				s.logger.Warn("fetch failed", "symbol", symbol, "err", err)
				return nil
			}

			snapMu.Lock()
			snaps = append(snaps, snap)
			snapMu.Unlock()
			return nil
		})
	}
	g.Wait()

	// Push phase begins only after every fetch has settled. Cache update
	// and push happen back to back per symbol, so subscribers see
	// snapshots in fetch order.
	var pushed int64
	for _, snap := range snaps {
		s.store.Put(snap)

		msg := connection.StockUpdate(snap)
		for _, c := range s.source.Subscribers(snap.Symbol) {
			if err := c.Push(msg); err != nil {
				// Closed connection: its own handler reconciles the
				// registry, nothing to escalate here.
				continue
			}
			pushed++
		}
	}

	s.pushes.Add(pushed)
	s.cycles.Add(1)
	metrics.PushesTotal.Add(float64(pushed))
	metrics.CycleDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("cycle complete",
		"symbols", len(symbols),
		"fetched", len(snaps),
		"pushed", pushed,
		"duration", time.Since(start),
	)
}
