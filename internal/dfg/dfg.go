package dfg

import (
	"sort"

	"procmine/pkg/models"
)

// Edge is a directed activity pair.
type Edge struct {
	From string
	To   string
}

// WeightedEdge is an edge with its aggregated follow count.
type WeightedEdge struct {
	From   string
	To     string
	Weight int
}

// DFG is a weighted directly-follows graph derived from an event log.
// It is always rebuilt from the enclosing log and never mutated, so it
// reflects exactly one log value.
type DFG struct {
	nodes         map[string]struct{}
	edges         map[Edge]int
	starts        map[string]struct{}
	ends          map[string]struct{}
	hasEmptyTrace bool
}

// Build derives the directly-follows graph of a log. For every trace
// with frequency f, each consecutive activity pair contributes f to its
// edge weight. The first activity of every non-empty trace is a start
// activity and the last an end activity; an empty trace contributes to
// neither but is recorded on the graph.
func Build(log *models.EventLog) *DFG {
	g := &DFG{
		nodes:  make(map[string]struct{}, 16),
		edges:  make(map[Edge]int, 32),
		starts: make(map[string]struct{}, 4),
		ends:   make(map[string]struct{}, 4),
	}
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			g.hasEmptyTrace = true
			continue
		}
		for _, act := range wt.Activities {
			g.nodes[act] = struct{}{}
		}
		g.starts[wt.Activities[0]] = struct{}{}
		g.ends[wt.Activities[len(wt.Activities)-1]] = struct{}{}
		for i := 0; i+1 < len(wt.Activities); i++ {
			g.edges[Edge{From: wt.Activities[i], To: wt.Activities[i+1]}] += wt.Frequency
		}
	}
	return g
}

// Nodes returns the sorted activity set.
func (g *DFG) Nodes() []string {
	return sortedKeys(g.nodes)
}

// NodeCount returns the number of activities.
func (g *DFG) NodeCount() int {
	return len(g.nodes)
}

// HasEdge reports whether from directly precedes to anywhere in the log.
func (g *DFG) HasEdge(from, to string) bool {
	_, ok := g.edges[Edge{From: from, To: to}]
	return ok
}

// Weight returns the aggregated follow count of an edge, 0 if absent.
func (g *DFG) Weight(from, to string) int {
	return g.edges[Edge{From: from, To: to}]
}

// EdgeCount returns the number of distinct edges.
func (g *DFG) EdgeCount() int {
	return len(g.edges)
}

// Edges returns all weighted edges sorted by source then target.
func (g *DFG) Edges() []WeightedEdge {
	out := make([]WeightedEdge, 0, len(g.edges))
	for e, w := range g.edges {
		out = append(out, WeightedEdge{From: e.From, To: e.To, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// MaxEdgeWeight returns the largest edge weight, 0 for an edge-less
// graph.
func (g *DFG) MaxEdgeWeight() int {
	max := 0
	for _, w := range g.edges {
		if w > max {
			max = w
		}
	}
	return max
}

// Successors returns the sorted direct successors of an activity.
func (g *DFG) Successors(act string) []string {
	var out []string
	for e := range g.edges {
		if e.From == act {
			out = append(out, e.To)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the sorted direct predecessors of an activity.
func (g *DFG) Predecessors(act string) []string {
	var out []string
	for e := range g.edges {
		if e.To == act {
			out = append(out, e.From)
		}
	}
	sort.Strings(out)
	return out
}

// Starts returns the sorted start activities.
func (g *DFG) Starts() []string {
	return sortedKeys(g.starts)
}

// Ends returns the sorted end activities.
func (g *DFG) Ends() []string {
	return sortedKeys(g.ends)
}

// IsStart reports whether the activity begins some trace.
func (g *DFG) IsStart(act string) bool {
	_, ok := g.starts[act]
	return ok
}

// IsEnd reports whether the activity ends some trace.
func (g *DFG) IsEnd(act string) bool {
	_, ok := g.ends[act]
	return ok
}

// HasEmptyTrace reports whether the source log contained the
// zero-length trace, which signals that the silent path is viable.
func (g *DFG) HasEmptyTrace() bool {
	return g.hasEmptyTrace
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
