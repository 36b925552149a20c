package models

import (
	"reflect"
	"testing"
)

func TestNewEventLogFoldsDuplicateTraces(t *testing.T) {
	log, err := NewEventLog([]WeightedTrace{
		{Activities: []string{"a", "b"}, Frequency: 2},
		{Activities: []string{"a", "b"}, Frequency: 3},
		{Activities: []string{"c"}, Frequency: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Size() != 2 {
		t.Fatalf("expected 2 distinct traces, got %d", log.Size())
	}
	if log.TotalFrequency() != 6 {
		t.Fatalf("expected total frequency 6, got %d", log.TotalFrequency())
	}

	traces := log.Traces()
	if traces[0].Frequency != 5 || !reflect.DeepEqual(traces[0].Activities, []string{"a", "b"}) {
		t.Fatalf("unexpected first trace: %+v", traces[0])
	}
}

func TestNewEventLogRejectsInvalidInput(t *testing.T) {
	if _, err := NewEventLog([]WeightedTrace{{Activities: []string{"a"}, Frequency: 0}}); err == nil {
		t.Fatalf("expected error for zero frequency")
	}
	if _, err := NewEventLog([]WeightedTrace{{Activities: []string{"a"}, Frequency: -2}}); err == nil {
		t.Fatalf("expected error for negative frequency")
	}
	if _, err := NewEventLog([]WeightedTrace{{Activities: []string{"a", ""}, Frequency: 1}}); err == nil {
		t.Fatalf("expected error for empty activity label")
	}
}

func TestEventLogAcceptsEmptyTrace(t *testing.T) {
	log, err := NewEventLog([]WeightedTrace{
		{Activities: nil, Frequency: 4},
		{Activities: []string{"a"}, Frequency: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.HasEmptyTrace() {
		t.Fatalf("expected empty trace to be present")
	}
	if log.EmptyTraceFrequency() != 4 {
		t.Fatalf("expected empty trace frequency 4, got %d", log.EmptyTraceFrequency())
	}

	rest := log.WithoutEmptyTrace()
	if rest.HasEmptyTrace() {
		t.Fatalf("expected empty trace removed")
	}
	if rest.TotalFrequency() != 1 {
		t.Fatalf("expected remaining frequency 1, got %d", rest.TotalFrequency())
	}
	// Receiver untouched.
	if log.TotalFrequency() != 5 {
		t.Fatalf("source log mutated: total=%d", log.TotalFrequency())
	}
}

func TestEventLogTracesAreDeterministicCopies(t *testing.T) {
	log, err := NewEventLog([]WeightedTrace{
		{Activities: []string{"b"}, Frequency: 1},
		{Activities: []string{"a"}, Frequency: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := log.Traces()
	first[0].Activities[0] = "mutated"

	second := log.Traces()
	if second[0].Activities[0] != "a" {
		t.Fatalf("expected trace copies, caller mutation leaked: %+v", second[0])
	}
	if second[1].Activities[0] != "b" {
		t.Fatalf("expected sorted trace order, got %+v", second)
	}
}

func TestEventLogAlphabetAndFrequencies(t *testing.T) {
	log, err := NewEventLog([]WeightedTrace{
		{Activities: []string{"b", "a", "b"}, Frequency: 2},
		{Activities: []string{"c"}, Frequency: 7},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := log.Alphabet(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected alphabet: %v", got)
	}

	freqs := log.ActivityFrequencies()
	if freqs["a"] != 2 || freqs["b"] != 4 || freqs["c"] != 7 {
		t.Fatalf("unexpected activity frequencies: %v", freqs)
	}
	if log.MaxTraceFrequency() != 7 {
		t.Fatalf("expected max trace frequency 7, got %d", log.MaxTraceFrequency())
	}
}
