package mining

import (
	"reflect"
	"testing"

	"procmine/pkg/models"
)

func TestFilterLogZeroThresholdsKeepEverything(t *testing.T) {
	log := mustLog(t, []models.WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 10},
		{Activities: []string{"c"}, Frequency: 1},
	})
	got := filterLog(log, 0, 0)
	if got.Size() != log.Size() || got.TotalFrequency() != log.TotalFrequency() {
		t.Fatalf("expected unchanged log, got %d traces / %d total", got.Size(), got.TotalFrequency())
	}
}

func TestFilterLogProjectsOutRareActivities(t *testing.T) {
	log := mustLog(t, []models.WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 10},
		{Activities: []string{"a", "c", "b"}, Frequency: 1},
	})
	got := filterLog(log, 0.5, 0)

	if alphabet := got.Alphabet(); !reflect.DeepEqual(alphabet, []string{"a", "b"}) {
		t.Fatalf("expected rare activity removed, alphabet %v", alphabet)
	}
	// The projected trace folds into the dominant variant.
	if got.Size() != 1 || got.TotalFrequency() != 11 {
		t.Fatalf("expected folded log, got %d traces / %d total", got.Size(), got.TotalFrequency())
	}
}

func TestFilterLogDropsRareTraceVariants(t *testing.T) {
	log := mustLog(t, []models.WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 10},
		{Activities: []string{"c", "d"}, Frequency: 1},
	})
	got := filterLog(log, 0, 0.5)
	if got.Size() != 1 {
		t.Fatalf("expected rare variant dropped, got %v", got.Traces())
	}
	if got.Traces()[0].Frequency != 10 {
		t.Fatalf("unexpected surviving trace: %v", got.Traces())
	}
}

func TestFilterLogDropsTracesEmptiedByProjection(t *testing.T) {
	log := mustLog(t, []models.WeightedTrace{
		{Activities: []string{"a"}, Frequency: 10},
		{Activities: []string{"c"}, Frequency: 1},
		{Activities: nil, Frequency: 2},
	})
	got := filterLog(log, 0.5, 0)

	if got.Size() != 2 {
		t.Fatalf("expected 2 traces, got %v", got.Traces())
	}
	// A trace emptied by activity removal disappears; the genuine
	// empty trace survives.
	if !got.HasEmptyTrace() || got.EmptyTraceFrequency() != 2 {
		t.Fatalf("expected genuine empty trace kept, got %v", got.Traces())
	}
	if got.TotalFrequency() != 12 {
		t.Fatalf("expected total frequency 12, got %d", got.TotalFrequency())
	}
}
