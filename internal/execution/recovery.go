package execution

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/types"
)

// Recovery replays hedge legs a previous run left pending. It runs to
// completion before the first scan cycle, bounding unresolved risk to at
// most one cycle's worth of new opportunities. Only hedges are replayed:
// an un-hedged arb fill left by a crash needs operator attention.
type Recovery struct {
	registry *venue.Registry
	store    storage.Store
	logger   *zap.Logger
}

// NewRecovery creates a recovery runner.
func NewRecovery(registry *venue.Registry, store storage.Store, logger *zap.Logger) *Recovery {
	return &Recovery{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// Run resolves every pending hedge order, oldest first. With nothing
// pending it performs no writes, so re-running is harmless.
func (r *Recovery) Run(ctx context.Context) error {
	pending, err := r.store.FindByStatusAction(ctx, types.StatusNew, types.ActionHedge)
	if err != nil {
		return fmt.Errorf("load pending hedges: %w", err)
	}

	if len(pending) == 0 {
		r.logger.Info("no-pending-hedges")
		return nil
	}

	r.logger.Info("replaying-pending-hedges", zap.Int("count", len(pending)))

	for _, order := range pending {
		v, ok := r.registry.Get(order.Venue)
		if !ok {
			return fmt.Errorf("unknown venue %q for pending hedge %s", order.Venue, order.ID)
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

		err = r.store.UpdateStatus(ctx, order.ID, status, res.Ref())
		if err != nil {
			return fmt.Errorf("record recovered hedge %s: %w", order.ID, err)
		}

		HedgesRecoveredTotal.WithLabelValues(string(status)).Inc()
		r.logger.Info("pending-hedge-resolved",
			zap.String("order-id", order.ID),
			zap.String("hedge-to", order.HedgeTo),
			zap.String("venue", order.Venue),
			zap.String("status", string(status)))
	}

	return nil
}
