// Package tracejson reads JSONL weighted-trace files: one trace object
// per line, {"activities": ["a","b"], "frequency": 3}.
package tracejson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"procmine/pkg/models"
)

// ReadFile parses a JSONL trace file into a validated event log.
func ReadFile(path string) (*models.EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses JSONL weighted traces into a validated event log. A
// missing frequency defaults to 1; blank lines are skipped.
func Read(r io.Reader) (*models.EventLog, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var traces []models.WeightedTrace
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var wt models.WeightedTrace
		if err := json.Unmarshal([]byte(text), &wt); err != nil {
			return nil, fmt.Errorf("line %d: decode trace: %w", line, err)
		}
		if wt.Frequency == 0 {
			wt.Frequency = 1
		}
		traces = append(traces, wt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace log: %w", err)
	}

	return models.NewEventLog(traces)
}
