package tracejson

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadParsesWeightedTraces(t *testing.T) {
	input := `{"activities":["a","b"],"frequency":3}
{"activities":["c"],"frequency":2}
`
	log, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Size() != 2 || log.TotalFrequency() != 5 {
		t.Fatalf("unexpected log: %d traces / %d total", log.Size(), log.TotalFrequency())
	}
	traces := log.Traces()
	if !reflect.DeepEqual(traces[0].Activities, []string{"a", "b"}) || traces[0].Frequency != 3 {
		t.Fatalf("unexpected first trace: %+v", traces[0])
	}
}

func TestReadDefaultsMissingFrequencyToOne(t *testing.T) {
	log, err := Read(strings.NewReader(`{"activities":["a"]}` + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.TotalFrequency() != 1 {
		t.Fatalf("expected default frequency 1, got %d", log.TotalFrequency())
	}
}

func TestReadSkipsBlankLinesAndFoldsDuplicates(t *testing.T) {
	input := `{"activities":["a"],"frequency":2}

{"activities":["a"],"frequency":1}
`
	log, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Size() != 1 || log.TotalFrequency() != 3 {
		t.Fatalf("expected folded trace, got %d traces / %d total", log.Size(), log.TotalFrequency())
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json}\n")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := Read(strings.NewReader(`{"activities":["a"],"frequency":-1}` + "\n")); err == nil {
		t.Fatalf("expected validation error for negative frequency")
	}
	if _, err := Read(strings.NewReader(`{"activities":[""],"frequency":1}` + "\n")); err == nil {
		t.Fatalf("expected validation error for empty label")
	}
}
