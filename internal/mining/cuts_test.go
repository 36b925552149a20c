package mining

import (
	"reflect"
	"testing"

	"procmine/internal/dfg"
	"procmine/pkg/models"
)

func mustLog(t *testing.T, traces []models.WeightedTrace) *models.EventLog {
	t.Helper()
	log, err := models.NewEventLog(traces)
	if err != nil {
		t.Fatalf("failed to build log: %v", err)
	}
	return log
}

func buildGraph(t *testing.T, traces []models.WeightedTrace) *dfg.DFG {
	t.Helper()
	return dfg.Build(mustLog(t, traces))
}

func TestFindCutReturnsNilBelowTwoActivities(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{{Activities: []string{"a", "a"}, Frequency: 2}})
	if cut := FindCut(g); cut != nil {
		t.Fatalf("expected no cut for single-activity graph, got %v", cut)
	}
}

func TestExclusiveCutSeparatesDisconnectedComponents(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 1},
		{Activities: []string{"c", "d"}, Frequency: 1},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutExclusive {
		t.Fatalf("expected exclusive cut, got %v", cut)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestFindCutPrefersExclusiveOverLoop(t *testing.T) {
	// The a/b component alone is a loop, but the disconnected c makes
	// the whole graph exclusive first.
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "a"}, Frequency: 1},
		{Activities: []string{"c"}, Frequency: 1},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutExclusive {
		t.Fatalf("expected exclusive cut, got %v", cut)
	}
}

func TestSequenceCutOrdersStrictChain(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "c"}, Frequency: 3},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutSequence {
		t.Fatalf("expected sequence cut, got %v", cut)
	}
	want := [][]string{{"a"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestSequenceCutMergesMutuallyReachableActivities(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "a", "c"}, Frequency: 1},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutSequence {
		t.Fatalf("expected sequence cut, got %v", cut)
	}
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestSequenceCutMergesIncomparableActivities(t *testing.T) {
	// a and b never reach each other, so no sequential order exists
	// between them and they share a partition before c.
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "c"}, Frequency: 1},
		{Activities: []string{"b", "c"}, Frequency: 1},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutSequence {
		t.Fatalf("expected sequence cut, got %v", cut)
	}
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestParallelCutNeedsMutualEdgesAndBoundaries(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 2},
		{Activities: []string{"b", "a"}, Frequency: 2},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutParallel {
		t.Fatalf("expected parallel cut, got %v", cut)
	}
	want := [][]string{{"a"}, {"b"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestParallelCutRejectedWithoutStartInEveryPart(t *testing.T) {
	// a and b are mutually connected but b never starts or ends a
	// trace, so the candidate parallel partition is rejected and the
	// loop cut takes over.
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "a"}, Frequency: 2},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutLoop {
		t.Fatalf("expected loop cut, got %v", cut)
	}
	want := [][]string{{"a"}, {"b"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestLoopCutKeepsMultiActivityRedoPart(t *testing.T) {
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "x", "b", "a"}, Frequency: 1},
		{Activities: []string{"a"}, Frequency: 1},
	})
	cut := FindCut(g)
	if cut == nil || cut.Kind != CutLoop {
		t.Fatalf("expected loop cut, got %v", cut)
	}
	want := [][]string{{"a"}, {"b", "x"}}
	if !reflect.DeepEqual(cut.Partitions, want) {
		t.Fatalf("unexpected partitions: %v", cut.Partitions)
	}
}

func TestLoopCutRejectsRedoNotReachableFromEveryEnd(t *testing.T) {
	// b loops back around a, but the end activity d has no edge to b,
	// so b is folded into the body and no redo part survives.
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "a"}, Frequency: 1},
		{Activities: []string{"d"}, Frequency: 1},
	})
	if parts := loopCut(g); parts != nil {
		t.Fatalf("expected no loop cut, got %v", parts)
	}
}

func TestFindCutReturnsNilForRotatedCycle(t *testing.T) {
	// Every activity starts and ends some trace and the graph is one
	// big cycle: no cut type applies.
	g := buildGraph(t, []models.WeightedTrace{
		{Activities: []string{"a", "b", "c"}, Frequency: 1},
		{Activities: []string{"b", "c", "a"}, Frequency: 1},
		{Activities: []string{"c", "a", "b"}, Frequency: 1},
	})
	if cut := FindCut(g); cut != nil {
		t.Fatalf("expected no cut, got kind %s partitions %v", cut.Kind, cut.Partitions)
	}
}
