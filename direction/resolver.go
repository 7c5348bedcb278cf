package direction

import "math"

// Direction codes as used by the upstream route data.
const (
	Down = 0
	Up   = 1
)

// Stop is one entry of a variant's ordered stop sequence.
type Stop struct {
	NodeID        string
	Order         float64
	DirectionCode int
}

// RouteSequence is the stop sequence of a single route variant. Fetched once
// per route and immutable after load.
type RouteSequence struct {
	VariantID string
	Stops     []Stop
}

type candidate struct {
	variantID     string
	order         float64
	directionCode int
}

// Lookup is the derived index over a route's sequences. Rebuild it whenever
// the underlying route changes; it is otherwise immutable apart from the
// active-variant set.
type Lookup struct {
	byNode   map[string][]candidate
	mixed    map[string]bool // variant has stops with both direction codes
	fallback map[string]int  // populated only when exactly two variants exist
	active   map[string]struct{}
}

// BuildLookup indexes the given sequences by stop node. When a route is
// defined as exactly two variants, one is assigned an up fallback and the
// other a down fallback: such routes are usually one "there" and one "back"
// variant with uniform direction.
func BuildLookup(sequences []RouteSequence) *Lookup {
	l := &Lookup{
		byNode:   map[string][]candidate{},
		mixed:    map[string]bool{},
		fallback: map[string]int{},
		active:   map[string]struct{}{},
	}
	for _, seq := range sequences {
		l.active[seq.VariantID] = struct{}{}
		sawUp, sawDown := false, false
		for _, s := range seq.Stops {
			l.byNode[s.NodeID] = append(l.byNode[s.NodeID], candidate{
				variantID:     seq.VariantID,
				order:         s.Order,
				directionCode: s.DirectionCode,
			})
			switch s.DirectionCode {
			case Up:
				sawUp = true
			case Down:
				sawDown = true
			}
		}
		l.mixed[seq.VariantID] = sawUp && sawDown
	}
	if len(sequences) == 2 {
		l.fallback[sequences[0].VariantID] = Up
		l.fallback[sequences[1].VariantID] = Down
	}
	return l
}

// SetActiveVariants restricts resolution to the given variant ids. An empty
// list reactivates every variant.
func (l *Lookup) SetActiveVariants(variantIDs []string) {
	l.active = map[string]struct{}{}
	if len(variantIDs) == 0 {
		for v := range l.mixed {
			l.active[v] = struct{}{}
		}
		return
	}
	for _, v := range variantIDs {
		l.active[v] = struct{}{}
	}
}

// Resolver answers direction queries, honoring a configured allow-list of
// nodes that always resolve upward (terminal loops where the data lies).
type Resolver struct {
	alwaysUp map[string]struct{}
}

// NewResolver creates a resolver. upwardNodeIDs may be empty.
func NewResolver(upwardNodeIDs []string) *Resolver {
	r := &Resolver{alwaysUp: map[string]struct{}{}}
	for _, id := range upwardNodeIDs {
		r.alwaysUp[id] = struct{}{}
	}
	return r
}

// Resolve returns the direction code for a vehicle observed at nodeID with
// the given stop order, optionally pinned to variantID. ok is false when the
// observation carries no usable node or order, or the node is unknown.
func (r *Resolver) Resolve(l *Lookup, nodeID string, order float64, variantID string) (int, bool) {
	if l == nil || nodeID == "" || math.IsNaN(order) || math.IsInf(order, 0) {
		return 0, false
	}
	if _, ok := r.alwaysUp[nodeID]; ok {
		return Up, true
	}

	candidates := l.byNode[nodeID]
	if len(candidates) == 0 {
		return 0, false
	}

	restricted := candidates[:0:0]
	if variantID != "" {
		for _, c := range candidates {
			if c.variantID == variantID {
				restricted = append(restricted, c)
			}
		}
	} else if len(l.active) > 0 {
		for _, c := range candidates {
			if _, ok := l.active[c.variantID]; ok {
				restricted = append(restricted, c)
			}
		}
	}
	if len(restricted) > 0 {
		candidates = restricted
	}

	winner := candidates[0]
	exact := false
	bestDelta := math.Abs(winner.order - order)
	if winner.order == order {
		exact = true
	}
	for _, c := range candidates[1:] {
		if exact {
			break
		}
		if c.order == order {
			winner = c
			exact = true
			continue
		}
		delta := math.Abs(c.order - order)
		if delta < bestDelta || (delta == bestDelta && c.order < winner.order) {
			bestDelta = delta
			winner = c
		}
	}

	if !l.mixed[winner.variantID] {
		if fb, ok := l.fallback[winner.variantID]; ok {
			return fb, true
		}
	}
	return winner.directionCode, true
}
