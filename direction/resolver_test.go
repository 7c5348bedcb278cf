package direction

import (
	"math"
	"testing"
)

func twoVariantLookup() *Lookup {
	return BuildLookup([]RouteSequence{
		{
			VariantID: "30-out",
			Stops: []Stop{
				{NodeID: "WJB101", Order: 1, DirectionCode: Up},
				{NodeID: "WJB102", Order: 2, DirectionCode: Up},
				{NodeID: "WJB103", Order: 3, DirectionCode: Up},
			},
		},
		{
			VariantID: "30-in",
			Stops: []Stop{
				{NodeID: "WJB103", Order: 1, DirectionCode: Down},
				{NodeID: "WJB102", Order: 2, DirectionCode: Down},
				{NodeID: "WJB101", Order: 3, DirectionCode: Down},
			},
		},
	})
}

func TestResolveExactOrderMatch(t *testing.T) {
	l := twoVariantLookup()
	r := NewResolver(nil)

	// WJB102 appears in both variants; order 2 matches both, so the first
	// candidate wins and gets the outbound variant's up fallback.
	code, ok := r.Resolve(l, "WJB102", 2, "")
	if !ok {
		t.Fatal("expected resolution")
	}
	if code != Up {
		t.Errorf("expected up, got %d", code)
	}

	// Pinning to the inbound variant flips the answer.
	code, ok = r.Resolve(l, "WJB102", 2, "30-in")
	if !ok || code != Down {
		t.Errorf("expected down for inbound variant, got %d ok=%v", code, ok)
	}
}

func TestResolveNearestOrder(t *testing.T) {
	l := BuildLookup([]RouteSequence{
		{
			VariantID: "v1",
			Stops: []Stop{
				{NodeID: "n", Order: 5, DirectionCode: Up},
				{NodeID: "n", Order: 20, DirectionCode: Down},
			},
		},
	})
	r := NewResolver(nil)

	tests := []struct {
		name  string
		order float64
		want  int
	}{
		{"closer to first occurrence", 8, Up},
		{"closer to second occurrence", 17, Down},
		{"tie breaks toward smaller order", 12.5, Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := r.Resolve(l, "n", tt.order, "")
			if !ok {
				t.Fatal("expected resolution")
			}
			if code != tt.want {
				t.Errorf("order %v: expected %d, got %d", tt.order, tt.want, code)
			}
		})
	}
}

func TestResolveAllowList(t *testing.T) {
	l := twoVariantLookup()
	r := NewResolver([]string{"WJB103"})

	// WJB103 at order 1 would otherwise resolve through the inbound variant.
	code, ok := r.Resolve(l, "WJB103", 1, "")
	if !ok || code != Up {
		t.Errorf("allow-listed node should resolve up, got %d ok=%v", code, ok)
	}
}

func TestResolveTwoVariantFallback(t *testing.T) {
	// Variants whose stop data carries a single bogus direction code still
	// resolve by position in the pair.
	l := BuildLookup([]RouteSequence{
		{VariantID: "a", Stops: []Stop{{NodeID: "n1", Order: 1, DirectionCode: Down}}},
		{VariantID: "b", Stops: []Stop{{NodeID: "n2", Order: 1, DirectionCode: Down}}},
	})
	r := NewResolver(nil)

	if code, _ := r.Resolve(l, "n1", 1, ""); code != Up {
		t.Errorf("first variant should fall back to up, got %d", code)
	}
	if code, _ := r.Resolve(l, "n2", 1, ""); code != Down {
		t.Errorf("second variant should fall back to down, got %d", code)
	}
}

func TestResolveMixedVariantKeepsStopCode(t *testing.T) {
	// A mixed-direction variant must answer from the matched stop itself,
	// never from the pair fallback.
	l := BuildLookup([]RouteSequence{
		{
			VariantID: "loop",
			Stops: []Stop{
				{NodeID: "n1", Order: 1, DirectionCode: Up},
				{NodeID: "n2", Order: 2, DirectionCode: Down},
			},
		},
		{VariantID: "other", Stops: []Stop{{NodeID: "x", Order: 1, DirectionCode: Up}}},
	})
	r := NewResolver(nil)

	if code, _ := r.Resolve(l, "n2", 2, ""); code != Down {
		t.Errorf("mixed variant should keep the stop's own code, got %d", code)
	}
}

func TestResolveActiveVariants(t *testing.T) {
	l := twoVariantLookup()
	r := NewResolver(nil)

	l.SetActiveVariants([]string{"30-in"})
	if code, ok := r.Resolve(l, "WJB102", 2, ""); !ok || code != Down {
		t.Errorf("active restriction should pick inbound, got %d ok=%v", code, ok)
	}

	// A node only present outside the active set still resolves: the
	// restriction is a preference, not a hard filter.
	l2 := BuildLookup([]RouteSequence{
		{VariantID: "a", Stops: []Stop{{NodeID: "only-a", Order: 1, DirectionCode: Up}}},
		{VariantID: "b", Stops: []Stop{{NodeID: "only-b", Order: 1, DirectionCode: Down}}},
	})
	l2.SetActiveVariants([]string{"b"})
	if _, ok := r.Resolve(l2, "only-a", 1, ""); !ok {
		t.Error("node outside active variants should still resolve")
	}

	// Empty list reactivates everything.
	l.SetActiveVariants(nil)
	if code, ok := r.Resolve(l, "WJB102", 2, ""); !ok || code != Up {
		t.Errorf("after reset expected up, got %d ok=%v", code, ok)
	}
}

func TestResolveRejectsUnusableInput(t *testing.T) {
	l := twoVariantLookup()
	r := NewResolver(nil)

	tests := []struct {
		name    string
		lookup  *Lookup
		nodeID  string
		order   float64
		variant string
	}{
		{"nil lookup", nil, "WJB101", 1, ""},
		{"empty node id", l, "", 1, ""},
		{"NaN order", l, "WJB101", math.NaN(), ""},
		{"infinite order", l, "WJB101", math.Inf(1), ""},
		{"unknown node", l, "nope", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := r.Resolve(tt.lookup, tt.nodeID, tt.order, tt.variant); ok {
				t.Error("expected resolution to fail")
			}
		})
	}
}
