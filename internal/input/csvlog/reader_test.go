package csvlog

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadGroupsInterleavedCases(t *testing.T) {
	input := strings.Join([]string{
		"case_id,activity",
		"c1,a",
		"c2,a",
		"c1,b",
		"c2,b",
		"c3,x",
	}, "\n")

	log, stats, err := Read(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Rows != 5 || stats.Cases != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if log.TotalFrequency() != 3 {
		t.Fatalf("expected one trace per case, got total %d", log.TotalFrequency())
	}

	traces := log.Traces()
	if traces[0].Frequency != 2 || !reflect.DeepEqual(traces[0].Activities, []string{"a", "b"}) {
		t.Fatalf("expected folded a,b variant with frequency 2, got %+v", traces[0])
	}
	if !reflect.DeepEqual(traces[1].Activities, []string{"x"}) {
		t.Fatalf("unexpected second variant: %+v", traces[1])
	}
}

func TestReadHonorsCustomColumnsAndDelimiter(t *testing.T) {
	input := "ts;case;step\n1;k1;start\n2;k1;end\n"

	log, _, err := Read(strings.NewReader(input), Options{
		CaseColumn:     "case",
		ActivityColumn: "step",
		Delimiter:      ';',
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	traces := log.Traces()
	if len(traces) != 1 || !reflect.DeepEqual(traces[0].Activities, []string{"start", "end"}) {
		t.Fatalf("unexpected traces: %+v", traces)
	}
}

func TestReadRejectsMissingColumns(t *testing.T) {
	if _, _, err := Read(strings.NewReader("foo,bar\n1,2\n"), Options{}); err == nil {
		t.Fatalf("expected error for missing columns")
	}
	if _, _, err := Read(strings.NewReader("case_id,other\nc1,x\n"), Options{}); err == nil {
		t.Fatalf("expected error for missing activity column")
	}
}

func TestReadRejectsEmptyFields(t *testing.T) {
	if _, _, err := Read(strings.NewReader("case_id,activity\n,a\n"), Options{}); err == nil {
		t.Fatalf("expected error for empty case id")
	}
	if _, _, err := Read(strings.NewReader("case_id,activity\nc1,\n"), Options{}); err == nil {
		t.Fatalf("expected error for empty activity")
	}
}
