package venue

import (
	"context"
	"testing"

	"github.com/duelbot/dexduels/pkg/types"
)

type namedVenue string

func (v namedVenue) Name() string { return string(v) }

func (v namedVenue) GetQuotes(_ context.Context, _ types.Pair, _ float64) (types.Quote, error) {
	return types.Quote{}, nil
}

func (v namedVenue) Swap(_ context.Context, _ types.SwapRequest) types.SwapResult {
	return types.SwapResult{Filled: true}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(namedVenue("a"), namedVenue("b"), namedVenue("a"))
	if err == nil {
		t.Fatal("expected duplicate venue name to be rejected")
	}
}

func TestRegistryGet(t *testing.T) {
	r, err := NewRegistry(namedVenue("a"), namedVenue("b"))
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	v, ok := r.Get("b")
	if !ok || v.Name() != "b" {
		t.Errorf("expected to resolve b, got %v %v", v, ok)
	}

	_, ok = r.Get("missing")
	if ok {
		t.Error("expected miss for an unregistered name")
	}
}

func TestRegistryDuels(t *testing.T) {
	tests := []struct {
		name   string
		venues []Venue
		expect [][2]string
	}{
		{
			name:   "two-venues-one-duel",
			venues: []Venue{namedVenue("a"), namedVenue("b")},
			expect: [][2]string{{"a", "b"}},
		},
		{
			name:   "three-venues-three-duels",
			venues: []Venue{namedVenue("a"), namedVenue("b"), namedVenue("c")},
			expect: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}},
		},
		{
			name:   "single-venue-no-duels",
			venues: []Venue{namedVenue("a")},
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.venues...)
			if err != nil {
				t.Fatalf("build registry: %v", err)
			}

			duels := r.Duels()
			if len(duels) != len(tt.expect) {
				t.Fatalf("expected %d duels, got %d", len(tt.expect), len(duels))
			}
			for i, d := range duels {
				if d.A.Name() != tt.expect[i][0] || d.B.Name() != tt.expect[i][1] {
					t.Errorf("duel %d: expected %v, got %s/%s", i, tt.expect[i], d.A.Name(), d.B.Name())
				}
			}
		})
	}
}
