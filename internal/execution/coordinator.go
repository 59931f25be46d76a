package execution

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/duel"
	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/types"
)

// Coordinator runs the two legs of a selected opportunity in strict order.
// The arb leg's boolean outcome decides everything downstream: a rejected
// arb is terminal with no hedge, a filled arb is always followed by exactly
// one hedge attempt. Swap outcomes become statuses, never errors; the only
// errors this returns are persistence failures, which must propagate
// because an unrecorded outcome is a correctness hazard.
type Coordinator struct {
	registry   *venue.Registry
	store      storage.Store
	hedgeDelay time.Duration
	logger     *zap.Logger
}

// Config holds coordinator configuration.
type Config struct {
	Registry   *venue.Registry
	Store      storage.Store
	HedgeDelay time.Duration // settlement wait between arb fill and hedge dispatch
	Logger     *zap.Logger
}

// New creates a coordinator.
func New(cfg *Config) *Coordinator {
	return &Coordinator{
		registry:   cfg.Registry,
		store:      cfg.Store,
		hedgeDelay: cfg.HedgeDelay,
		logger:     cfg.Logger,
	}
}

// Execute runs the opportunity to a terminal state. Each leg is persisted
// with status New before its swap is dispatched, then updated exactly once
// with the terminal status, so a crash at any point leaves a recoverable
// record.
func (c *Coordinator) Execute(ctx context.Context, opp *duel.Opportunity) error {
	start := time.Now()
	defer func() {
		ExecutionDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	arbFilled, err := c.runLeg(ctx, opp.Arb)
	if err != nil {
		return err
	}

	if !arbFilled {
		// Nothing was bought, so there is nothing to offset.
		c.logger.Info("arb-rejected-no-hedge",
			zap.String("order-id", opp.Arb.OrderID),
			zap.String("venue", opp.Arb.Venue))
		return nil
	}

	// Persist the hedge before waiting: if we crash during the settlement
	// delay, the pending row is what startup recovery replays.
	hedgeOrder := opp.Hedge.Order()
	err = c.store.Insert(ctx, hedgeOrder)
	if err != nil {
		return fmt.Errorf("persist hedge order: %w", err)
	}

	err = c.waitSettlement(ctx)
	if err != nil {
		return err
	}

	return c.settleLeg(ctx, hedgeOrder)
}

// runLeg persists and dispatches the arb leg, returning whether it filled.
func (c *Coordinator) runLeg(ctx context.Context, leg duel.Leg) (bool, error) {
	order := leg.Order()
	err := c.store.Insert(ctx, order)
	if err != nil {
		return false, fmt.Errorf("persist arb order: %w", err)
	}

	res, err := c.dispatch(ctx, order)
	if err != nil {
		return false, err
	}

	return res.Filled, nil
}

// settleLeg dispatches an already-persisted hedge order.
func (c *Coordinator) settleLeg(ctx context.Context, order *types.Order) error {
	_, err := c.dispatch(ctx, order)
	return err
}

// dispatch calls the venue's swap for a persisted order and records the
// terminal status. New -> Filled or New -> Cancelled are the only
// transitions written here.
func (c *Coordinator) dispatch(ctx context.Context, order *types.Order) (types.SwapResult, error) {
	v, ok := c.registry.Get(order.Venue)
	if !ok {
		return types.SwapResult{}, fmt.Errorf("unknown venue %q for order %s", order.Venue, order.ID)
	}

	res := v.Swap(ctx, types.SwapRequest{
		SymIn:     order.SymIn,
		SymOut:    order.SymOut,
		AmountIn:  order.AmountIn,
		AmountOut: order.AmountOut,
	})

	status := types.StatusCancelled
	if res.Filled {
		status = types.StatusFilled
	}

	err := c.store.UpdateStatus(ctx, order.ID, status, res.Ref())
	if err != nil {
		return res, fmt.Errorf("record %s outcome: %w", order.Action, err)
	}

	LegsExecutedTotal.WithLabelValues(string(order.Action), string(status)).Inc()
	c.logger.Info("leg-settled",
		zap.String("order-id", order.ID),
		zap.String("action", string(order.Action)),
		zap.String("venue", order.Venue),
		zap.String("status", string(status)),
		zap.String("tx", res.Ref()))

	return res, nil
}

// waitSettlement sleeps the configured delay between the arb fill and the
// hedge dispatch, giving the venue time to settle the arb proceeds.
func (c *Coordinator) waitSettlement(ctx context.Context) error {
	if c.hedgeDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(c.hedgeDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		// The pending hedge row stays behind for startup recovery.
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
