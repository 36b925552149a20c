package treejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"procmine/internal/logger"
	"procmine/internal/mining"
	"procmine/pkg/models"
)

// Record is one discovery result on the wire. The tree JSON preserves
// operator kinds and child order exactly.
type Record struct {
	JobID             string              `json:"job_id,omitempty"`
	Variant           string              `json:"variant"`
	Options           mining.Options      `json:"options"`
	Tree              *models.ProcessTree `json:"tree"`
	OmittedActivities []string            `json:"omitted_activities,omitempty"`
	Stats             mining.Stats        `json:"stats"`
	Cached            bool                `json:"cached,omitempty"`
	MinedAt           time.Time           `json:"mined_at"`
}

// Writer outputs discovery results to a JSON lines file.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for discovery results.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Infof("Tree JSON writer initialized: %s", path)
	return &Writer{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// WriteRecord writes one result.
func (w *Writer) WriteRecord(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
