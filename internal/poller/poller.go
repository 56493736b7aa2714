package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/share-dashboard/internal/api"
	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/metrics"
	"github.com/rickgao/share-dashboard/internal/render"
)

// State is the Poll Loop state.
type State int32

const (
	StateIdle State = iota
	StatePolling
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	default:
		return "idle"
	}
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 60s)
	Timeout  time.Duration // Per-cycle timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
	}
}

// Stats counts cycles since start.
type Stats struct {
	Cycles   int64
	Failures int64
}

// Poller periodically fetches shares and anomalies and redraws the table.
type Poller struct {
	cfg     Config
	source  Source
	surface *display.Surface
	logger  *slog.Logger

	state    atomic.Int32
	cycles   atomic.Int64
	failures atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source Source, surface *display.Surface, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		surface: surface,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("share poller started",
		"interval", p.cfg.Interval,
		"timeout", p.cfg.Timeout,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("share poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports whether a cycle is in flight.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Stats returns cycle counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:   p.cycles.Load(),
		Failures: p.failures.Load(),
	}
}

// run is the main polling loop. Cycles run on this goroutine only, so they
// never overlap; ticks that fire during a slow cycle coalesce.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollCycle()
		}
	}
}

// pollCycle runs one fetch-both-then-render attempt. Errors stop here.
func (p *Poller) pollCycle() error {
	p.state.Store(int32(StatePolling))
	defer p.state.Store(int32(StateIdle))

	start := time.Now()
	cycleID := uuid.New()
	logger := p.logger.With("cycle_id", cycleID)
	p.cycles.Add(1)

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	snap, err := FetchSnapshot(ctx, p.source)
	metrics.ObserveCycle(start, err)
	if err != nil {
		if errors.Is(err, context.Canceled) && p.ctx.Err() != nil {
			logger.Debug("poll cycle canceled")
			return err
		}

		p.failures.Add(1)
		p.surface.RecordFailure(err, time.Now())

		attrs := []any{
			"path", api.Path(err),
			"kind", api.Kind(err),
			"err", err,
			"duration", time.Since(start),
		}
		var fetchErr *api.FetchError
		if errors.As(err, &fetchErr) {
			attrs = append(attrs, "status", fetchErr.StatusCode)
		}
		logger.Warn("poll cycle failed", attrs...)
		return err
	}

	snap.CycleID = cycleID
	tbl := render.Build(snap.Shares, snap.Anomalies)
	p.surface.Replace(snap.CycleID, tbl, snap.FetchedAt)
	metrics.SetRendered(len(tbl.Rows), tbl.Alerts(), snap.FetchedAt)

	logger.Info("poll cycle complete",
		"shares", len(snap.Shares),
		"alerts", tbl.Alerts(),
		"duration", time.Since(start),
	)

	return nil
}
