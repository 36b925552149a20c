package mining

import (
	"sort"

	"procmine/internal/dfg"
)

// CutKind tags a discovered partition with its operator.
type CutKind string

const (
	CutExclusive CutKind = "xor"
	CutSequence  CutKind = "seq"
	CutParallel  CutKind = "par"
	CutLoop      CutKind = "loop"
)

// Cut is a partition of a graph's activities into disjoint, non-empty
// parts covering the full activity set. Partition order is meaningful
// for sequence and loop cuts (loop: do part first) and stable for
// exclusive and parallel cuts.
type Cut struct {
	Kind       CutKind
	Partitions [][]string
}

// FindCut tries the cut types in fixed priority order and returns the
// first partition of size >= 2, or nil when no cut applies. A partition
// that collapses into a single part counts as no cut.
func FindCut(g *dfg.DFG) *Cut {
	if g.NodeCount() < 2 {
		return nil
	}
	if parts := exclusiveCut(g); parts != nil {
		return &Cut{Kind: CutExclusive, Partitions: parts}
	}
	if parts := sequenceCut(g); parts != nil {
		return &Cut{Kind: CutSequence, Partitions: parts}
	}
	if parts := parallelCut(g); parts != nil {
		return &Cut{Kind: CutParallel, Partitions: parts}
	}
	if parts := loopCut(g); parts != nil {
		return &Cut{Kind: CutLoop, Partitions: parts}
	}
	return nil
}

// exclusiveCut partitions by connected components of the undirected
// closure of the edge relation.
func exclusiveCut(g *dfg.DFG) [][]string {
	parts := undirectedComponents(g, g.Nodes(), nil)
	if len(parts) < 2 {
		return nil
	}
	return parts
}

// sequenceCut merges mutually reachable activities (cycles) and
// activities with no reachability either way (no sequential order
// exists between them) into groups, then orders the groups by
// reachability. Two or more strictly ordered groups form a cut.
func sequenceCut(g *dfg.DFG) [][]string {
	nodes := g.Nodes()
	reach := reachability(g, nodes)

	uf := newUnionFind(nodes)
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			ab := reach[a][b]
			ba := reach[b][a]
			// Same group when mutually reachable or incomparable.
			if ab == ba {
				uf.union(a, b)
			}
		}
	}

	// Merging incomparable pairs can pull strictly ordered activities
	// into overlapping groups, so repeat until every group pair is
	// ordered exactly one way.
	for {
		groups := uf.groups()
		merged := false
		for i := 0; i < len(groups) && !merged; i++ {
			for j := i + 1; j < len(groups) && !merged; j++ {
				ab := groupReaches(reach, groups[i], groups[j])
				ba := groupReaches(reach, groups[j], groups[i])
				if ab == ba {
					uf.union(groups[i][0], groups[j][0])
					merged = true
				}
			}
		}
		if !merged {
			break
		}
	}

	groups := uf.groups()
	if len(groups) < 2 {
		return nil
	}
	sort.Slice(groups, func(i, j int) bool {
		return groupReaches(reach, groups[i], groups[j])
	})
	return groups
}

// parallelCut links two activities when they are not mutually directly
// connected; components of that complement relation are the candidate
// parts, so every cross-part pair has edges in both directions. Each
// part must carry at least one start and one end activity.
func parallelCut(g *dfg.DFG) [][]string {
	nodes := g.Nodes()
	adj := make(map[string]map[string]struct{}, len(nodes))
	for _, a := range nodes {
		adj[a] = make(map[string]struct{})
	}
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if !g.HasEdge(a, b) || !g.HasEdge(b, a) {
				adj[a][b] = struct{}{}
				adj[b][a] = struct{}{}
			}
		}
	}

	parts := components(nodes, adj)
	if len(parts) < 2 {
		return nil
	}
	for _, part := range parts {
		hasStart, hasEnd := false, false
		for _, act := range part {
			if g.IsStart(act) {
				hasStart = true
			}
			if g.IsEnd(act) {
				hasEnd = true
			}
		}
		if !hasStart || !hasEnd {
			return nil
		}
	}
	return parts
}

// loopCut builds a do part from all start and end activities and treats
// the remaining connected components as redo candidates. A candidate is
// folded back into the do part when it has a forbidden connection: an
// edge from a non-end body activity, an edge to a non-start body
// activity, an edge from one end activity but not from all of them, or
// an edge to one start activity but not to all of them. The cut stands
// if at least one redo part survives.
func loopCut(g *dfg.DFG) [][]string {
	body := make(map[string]struct{})
	for _, s := range g.Starts() {
		body[s] = struct{}{}
	}
	for _, e := range g.Ends() {
		body[e] = struct{}{}
	}
	if len(body) == g.NodeCount() {
		return nil
	}

	var rest []string
	for _, n := range g.Nodes() {
		if _, ok := body[n]; !ok {
			rest = append(rest, n)
		}
	}
	candidates := undirectedComponents(g, rest, body)

	starts := g.Starts()
	ends := g.Ends()
	var redos [][]string
	for _, cand := range candidates {
		if validRedoPart(g, cand, starts, ends) {
			redos = append(redos, cand)
		} else {
			for _, act := range cand {
				body[act] = struct{}{}
			}
		}
	}
	if len(redos) == 0 {
		return nil
	}

	parts := make([][]string, 0, len(redos)+1)
	parts = append(parts, sortedSet(body))
	parts = append(parts, redos...)
	return parts
}

func validRedoPart(g *dfg.DFG, part []string, starts, ends []string) bool {
	inPart := make(map[string]struct{}, len(part))
	for _, act := range part {
		inPart[act] = struct{}{}
	}

	for _, act := range part {
		for _, pred := range g.Predecessors(act) {
			if _, ok := inPart[pred]; ok {
				continue
			}
			if !g.IsEnd(pred) {
				return false
			}
			// Entered from one end activity: every end activity must
			// offer the same loop-back edge.
			for _, end := range ends {
				if !g.HasEdge(end, act) {
					return false
				}
			}
		}
		for _, succ := range g.Successors(act) {
			if _, ok := inPart[succ]; ok {
				continue
			}
			if !g.IsStart(succ) {
				return false
			}
			for _, start := range starts {
				if !g.HasEdge(act, start) {
					return false
				}
			}
		}
	}
	return true
}

// undirectedComponents returns the connected components of the graph's
// undirected edge closure restricted to the given nodes, excluding any
// node present in skip. Components are sorted internally and by their
// smallest member.
func undirectedComponents(g *dfg.DFG, nodes []string, skip map[string]struct{}) [][]string {
	adj := make(map[string]map[string]struct{}, len(nodes))
	allowed := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if skip != nil {
			if _, ok := skip[n]; ok {
				continue
			}
		}
		allowed[n] = struct{}{}
		adj[n] = make(map[string]struct{})
	}
	for _, e := range g.Edges() {
		_, okFrom := allowed[e.From]
		_, okTo := allowed[e.To]
		if !okFrom || !okTo {
			continue
		}
		adj[e.From][e.To] = struct{}{}
		adj[e.To][e.From] = struct{}{}
	}
	return components(sortedSet(allowed), adj)
}

// components runs BFS over a prebuilt undirected adjacency, visiting
// nodes in sorted order for deterministic output.
func components(nodes []string, adj map[string]map[string]struct{}) [][]string {
	visited := make(map[string]struct{}, len(nodes))
	var out [][]string
	for _, start := range nodes {
		if _, ok := visited[start]; ok {
			continue
		}
		comp := []string{start}
		visited[start] = struct{}{}
		queue := []string{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := range adj[cur] {
				if _, ok := visited[next]; ok {
					continue
				}
				visited[next] = struct{}{}
				comp = append(comp, next)
				queue = append(queue, next)
			}
		}
		sort.Strings(comp)
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// reachability computes the transitive closure of the edge relation via
// BFS from every node.
func reachability(g *dfg.DFG, nodes []string) map[string]map[string]bool {
	reach := make(map[string]map[string]bool, len(nodes))
	for _, start := range nodes {
		seen := make(map[string]bool, len(nodes))
		queue := []string{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.Successors(cur) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		reach[start] = seen
	}
	return reach
}

func groupReaches(reach map[string]map[string]bool, from, to []string) bool {
	for _, a := range from {
		for _, b := range to {
			if reach[a][b] {
				return true
			}
		}
	}
	return false
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// unionFind groups activities for the sequence cut. Deterministic: the
// representative of a group is its smallest member.
type unionFind struct {
	parent map[string]string
}

func newUnionFind(nodes []string) *unionFind {
	uf := &unionFind{parent: make(map[string]string, len(nodes))}
	for _, n := range nodes {
		uf.parent[n] = n
	}
	return uf
}

func (uf *unionFind) find(x string) string {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b string) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		uf.parent[rb] = ra
	} else {
		uf.parent[ra] = rb
	}
}

func (uf *unionFind) groups() [][]string {
	byRoot := make(map[string][]string)
	members := make([]string, 0, len(uf.parent))
	for n := range uf.parent {
		members = append(members, n)
	}
	sort.Strings(members)
	for _, n := range members {
		root := uf.find(n)
		byRoot[root] = append(byRoot[root], n)
	}
	out := make([][]string, 0, len(byRoot))
	for _, grp := range byRoot {
		out = append(out, grp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
