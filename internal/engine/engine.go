package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/duel"
	"github.com/duelbot/dexduels/internal/execution"
)

// Engine drives the scan loop: scanner -> selector -> coordinator, one
// cycle per interval, never overlapping. Pending hedges are replayed
// before the first cycle.
type Engine struct {
	scanner     *duel.Scanner
	coordinator *execution.Coordinator
	recovery    *execution.Recovery
	interval    time.Duration
	logger      *zap.Logger
	errCh       chan error
	wg          sync.WaitGroup
}

// Config holds engine configuration.
type Config struct {
	Scanner     *duel.Scanner
	Coordinator *execution.Coordinator
	Recovery    *execution.Recovery
	Interval    time.Duration
	Logger      *zap.Logger
}

// New creates the engine.
func New(cfg *Config) *Engine {
	return &Engine{
		scanner:     cfg.Scanner,
		coordinator: cfg.Coordinator,
		recovery:    cfg.Recovery,
		interval:    cfg.Interval,
		logger:      cfg.Logger,
		errCh:       make(chan error, 1),
	}
}

// Start runs recovery to completion, then launches the scan loop. A
// recovery failure is fatal: scanning must not begin with unresolved
// hedges in an unknown state.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("duel-engine-starting", zap.Duration("interval", e.interval))

	err := e.recovery.Run(ctx)
	if err != nil {
		return fmt.Errorf("recover pending hedges: %w", err)
	}

	e.wg.Add(1)
	go e.loop(ctx)

	return nil
}

// Err reports a fatal engine error. The process should shut down when it
// fires: the failure was a persistence problem, and continuing to trade
// without durable bookkeeping is unsafe.
func (e *Engine) Err() <-chan error {
	return e.errCh
}

func (e *Engine) loop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		err := e.cycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Error("scan-cycle-failed", zap.Error(err))
			select {
			case e.errCh <- err:
			default:
			}
			return
		}

		select {
		case <-ctx.Done():
			e.logger.Info("duel-engine-stopping")
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one scan: collect candidates, pick the single best, execute
// its two legs. At most one opportunity is executed per cycle.
func (e *Engine) cycle(ctx context.Context) error {
	CyclesTotal.Inc()

	opps := e.scanner.Scan(ctx)

	best := duel.Best(opps)
	if best == nil {
		e.logger.Debug("no-opportunity-this-cycle")
		return nil
	}

	e.logger.Info("opportunity-selected",
		zap.String("opportunity", best.String()),
		zap.Int("candidates", len(opps)))

	return e.coordinator.Execute(ctx, best)
}

// Close waits for the loop to drain.
func (e *Engine) Close() error {
	e.logger.Info("closing-duel-engine")
	e.wg.Wait()
	e.logger.Info("duel-engine-closed")
	return nil
}
