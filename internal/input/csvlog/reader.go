// Package csvlog turns CSV event tables into event logs. Rows carry a
// case identifier and an activity label; rows of the same case, in file
// order, form one trace.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"procmine/pkg/models"
)

// Options selects the relevant columns. Zero values fall back to the
// conventional header names.
type Options struct {
	CaseColumn     string
	ActivityColumn string
	Delimiter      rune
}

// Stats reports what was parsed.
type Stats struct {
	Rows  int
	Cases int
}

// ReadFile parses a CSV file into an event log.
func ReadFile(path string, opts Options) (*models.EventLog, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open csv log: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses CSV event rows into an event log. The first record is the
// header; it must contain the case and activity columns.
func Read(r io.Reader, opts Options) (*models.EventLog, Stats, error) {
	if opts.CaseColumn == "" {
		opts.CaseColumn = "case_id"
	}
	if opts.ActivityColumn == "" {
		opts.ActivityColumn = "activity"
	}

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read csv header: %w", err)
	}
	caseIdx, actIdx := -1, -1
	for i, name := range header {
		switch name {
		case opts.CaseColumn:
			caseIdx = i
		case opts.ActivityColumn:
			actIdx = i
		}
	}
	if caseIdx < 0 {
		return nil, Stats{}, fmt.Errorf("case column %q not found in header", opts.CaseColumn)
	}
	if actIdx < 0 {
		return nil, Stats{}, fmt.Errorf("activity column %q not found in header", opts.ActivityColumn)
	}

	traces := make(map[string][]string, 64)
	var caseOrder []string
	stats := Stats{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Stats{}, fmt.Errorf("read csv row: %w", err)
		}
		if caseIdx >= len(record) || actIdx >= len(record) {
			return nil, Stats{}, fmt.Errorf("line %d: missing case or activity field", line)
		}
		caseID := record[caseIdx]
		activity := record[actIdx]
		if caseID == "" {
			return nil, Stats{}, fmt.Errorf("line %d: empty case id", line)
		}
		if activity == "" {
			return nil, Stats{}, fmt.Errorf("line %d: empty activity", line)
		}
		if _, seen := traces[caseID]; !seen {
			caseOrder = append(caseOrder, caseID)
		}
		traces[caseID] = append(traces[caseID], activity)
		stats.Rows++
	}

	b := models.NewLogBuilder()
	for _, caseID := range caseOrder {
		b.Add(traces[caseID], 1)
	}
	stats.Cases = len(caseOrder)
	return b.Log(), stats, nil
}
