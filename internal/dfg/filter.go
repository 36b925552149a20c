package dfg

// FilterInfrequent returns a copy of the graph without edges whose
// weight is below maxWeight*threshold. Nodes and start/end sets are
// kept unchanged, so filtering may leave isolated nodes. A threshold of
// 0 is a no-op; a threshold of 1 keeps only maximum-weight edges.
func FilterInfrequent(g *DFG, threshold float64) *DFG {
	return dropEdgesBelow(g, threshold)
}

// Simplify applies the same removal rule as FilterInfrequent. It exists
// for the progressive-simplification policy, which invokes it
// repeatedly at increasing strictness; start/end membership survives
// even for nodes left edge-less so later cut attempts still see the
// full alphabet.
func Simplify(g *DFG, threshold float64) *DFG {
	return dropEdgesBelow(g, threshold)
}

func dropEdgesBelow(g *DFG, threshold float64) *DFG {
	out := &DFG{
		nodes:         make(map[string]struct{}, len(g.nodes)),
		edges:         make(map[Edge]int, len(g.edges)),
		starts:        make(map[string]struct{}, len(g.starts)),
		ends:          make(map[string]struct{}, len(g.ends)),
		hasEmptyTrace: g.hasEmptyTrace,
	}
	for n := range g.nodes {
		out.nodes[n] = struct{}{}
	}
	for n := range g.starts {
		out.starts[n] = struct{}{}
	}
	for n := range g.ends {
		out.ends[n] = struct{}{}
	}

	cutoff := float64(g.MaxEdgeWeight()) * threshold
	for e, w := range g.edges {
		if float64(w) >= cutoff {
			out.edges[e] = w
		}
	}
	return out
}
