package duel

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/duelbot/dexduels/internal/venue"
	"github.com/duelbot/dexduels/pkg/types"
)

// Scanner probes every (duel, pair) combination once per cycle and turns
// mispricings above the trigger into opportunities.
type Scanner struct {
	registry *venue.Registry
	config   Config
	logger   *zap.Logger
}

// Config holds scanner configuration.
type Config struct {
	Pairs     []types.Pair
	Numeraire string  // reference symbol profit is expressed in
	BaseQty   float64 // probed trade size in base units
	Threshold float64 // profit trigger in numeraire units, strictly exceeded
	Logger    *zap.Logger
}

// NewScanner creates a scanner over the registered venues.
func NewScanner(cfg Config, registry *venue.Registry) *Scanner {
	return &Scanner{
		registry: registry,
		config:   cfg,
		logger:   cfg.Logger,
	}
}

// Scan evaluates every duel and pair concurrently and returns all
// opportunities whose profit estimate strictly exceeds the trigger, in a
// deterministic (duel, pair) order so the selector's first-seen tie-break
// is stable. A probe that cannot be quoted is skipped, never fatal.
func (s *Scanner) Scan(ctx context.Context) []*Opportunity {
	start := time.Now()
	duels := s.registry.Duels()

	// One result slot per (duel, pair) keeps the flattened order stable
	// regardless of goroutine completion order.
	results := make([][]*Opportunity, len(duels)*len(s.config.Pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range duels {
		for j, pair := range s.config.Pairs {
			slot := i*len(s.config.Pairs) + j
			d, pair := d, pair
			g.Go(func() error {
				results[slot] = s.probe(ctx, d, pair)
				return nil
			})
		}
	}
	_ = g.Wait()

	var opps []*Opportunity
	for _, r := range results {
		opps = append(opps, r...)
	}

	ScanDurationSeconds.Observe(time.Since(start).Seconds())
	s.logger.Debug("scan-cycle-complete",
		zap.Int("duels", len(duels)),
		zap.Int("pairs", len(s.config.Pairs)),
		zap.Int("opportunities", len(opps)))

	return opps
}

// probe compares one pair across one duel in both directions.
func (s *Scanner) probe(ctx context.Context, d venue.Duel, pair types.Pair) []*Opportunity {
	quotePx, ok := s.numerairePrice(ctx, d.A, pair)
	if !ok {
		return nil
	}

	// Both venues are quoted concurrently; the slower one bounds the probe.
	var quoteA, quoteB types.Quote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quoteA, err = d.A.GetQuotes(gctx, pair, s.config.BaseQty)
		return err
	})
	g.Go(func() error {
		var err error
		quoteB, err = d.B.GetQuotes(gctx, pair, s.config.BaseQty)
		return err
	})
	err := g.Wait()
	if err != nil {
		s.skipProbe(d, pair, err)
		return nil
	}

	var opps []*Opportunity

	// Sell base where the bid is higher, buy it back where the ask is
	// lower. The arb leg always goes to the higher-bid venue.
	profitA2B := (quoteA.Bid - quoteB.Ask) * quotePx
	if profitA2B > s.config.Threshold {
		opps = append(opps, s.found(pair, d.A.Name(), d.B.Name(), profitA2B))
	}

	profitB2A := (quoteB.Bid - quoteA.Ask) * quotePx
	if profitB2A > s.config.Threshold {
		opps = append(opps, s.found(pair, d.B.Name(), d.A.Name(), profitB2A))
	}

	return opps
}

// numerairePrice fetches the reference price converting quote-asset profit
// into numeraire units, from the duel's first venue. When the quote asset
// is the numeraire itself the price is 1 without a venue round trip.
func (s *Scanner) numerairePrice(ctx context.Context, v venue.Venue, pair types.Pair) (float64, bool) {
	if pair.Quote == s.config.Numeraire {
		return 1, true
	}

	refPair := types.Pair{Base: pair.Quote, Quote: s.config.Numeraire}
	ref, err := v.GetQuotes(ctx, refPair, 1)
	if err != nil {
		s.logger.Debug("numeraire-quote-unavailable",
			zap.String("venue", v.Name()),
			zap.String("pair", refPair.String()),
			zap.Error(err))
		QuoteFailuresTotal.WithLabelValues(v.Name()).Inc()
		return 0, false
	}

	return ref.Bid, true
}

func (s *Scanner) found(pair types.Pair, arbVenue, hedgeVenue string, profit float64) *Opportunity {
	opp := NewOpportunity(pair, arbVenue, hedgeVenue, s.config.BaseQty, profit)

	OpportunitiesDetectedTotal.Inc()
	OpportunityProfitUSD.Observe(profit)

	s.logger.Info("opportunity-detected",
		zap.String("pair", pair.String()),
		zap.String("arb-venue", arbVenue),
		zap.String("hedge-venue", hedgeVenue),
		zap.Float64("estimated-profit", profit))

	return opp
}

func (s *Scanner) skipProbe(d venue.Duel, pair types.Pair, err error) {
	s.logger.Debug("quote-unavailable",
		zap.String("duel", d.A.Name()+"/"+d.B.Name()),
		zap.String("pair", pair.String()),
		zap.Error(err))

	var qe *types.QuoteError
	if errors.As(err, &qe) {
		QuoteFailuresTotal.WithLabelValues(qe.Venue).Inc()
	} else {
		QuoteFailuresTotal.WithLabelValues("unknown").Inc()
	}
}
