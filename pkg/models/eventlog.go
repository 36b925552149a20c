package models

import (
	"fmt"
	"sort"
	"strings"
)

// traceSep joins activity labels into map keys. The unit separator is
// not expected to appear inside activity labels produced by the import
// layer.
const traceSep = "\x1f"

// WeightedTrace is one recorded activity sequence with its frequency.
type WeightedTrace struct {
	Activities []string `json:"activities"`
	Frequency  int      `json:"frequency"`
}

// EventLog is a frequency-weighted multiset of traces. It is built once
// and never mutated afterwards; derived sub-logs are new values.
type EventLog struct {
	entries map[string]*logEntry
	total   int
}

type logEntry struct {
	trace []string
	freq  int
}

// NewEventLog builds a validated log from weighted traces. Duplicate
// traces are folded together. An empty activity sequence is a legal
// trace; a nil or empty label, or a non-positive frequency, is not.
func NewEventLog(traces []WeightedTrace) (*EventLog, error) {
	b := NewLogBuilder()
	for i, wt := range traces {
		if wt.Frequency <= 0 {
			return nil, fmt.Errorf("trace %d: frequency must be positive, got %d", i, wt.Frequency)
		}
		for _, act := range wt.Activities {
			if act == "" {
				return nil, fmt.Errorf("trace %d: empty activity label", i)
			}
		}
		b.Add(wt.Activities, wt.Frequency)
	}
	return b.Log(), nil
}

// LogBuilder accumulates traces for a new EventLog. Used by the import
// layer and by log splitting, where inputs are already validated.
type LogBuilder struct {
	entries map[string]*logEntry
	total   int
}

// NewLogBuilder creates an empty builder.
func NewLogBuilder() *LogBuilder {
	return &LogBuilder{entries: make(map[string]*logEntry, 16)}
}

// Add folds one trace occurrence batch into the builder.
func (b *LogBuilder) Add(trace []string, freq int) {
	if freq <= 0 {
		return
	}
	key := strings.Join(trace, traceSep)
	if e, ok := b.entries[key]; ok {
		e.freq += freq
	} else {
		cp := make([]string, len(trace))
		copy(cp, trace)
		b.entries[key] = &logEntry{trace: cp, freq: freq}
	}
	b.total += freq
}

// Log finalizes the builder. The builder must not be reused afterwards.
func (b *LogBuilder) Log() *EventLog {
	return &EventLog{entries: b.entries, total: b.total}
}

// Size returns the number of distinct traces.
func (l *EventLog) Size() int {
	return len(l.entries)
}

// Empty reports whether the log holds no traces at all.
func (l *EventLog) Empty() bool {
	return len(l.entries) == 0
}

// TotalFrequency returns the summed frequency over all traces.
func (l *EventLog) TotalFrequency() int {
	return l.total
}

// HasEmptyTrace reports whether the zero-length trace is present.
func (l *EventLog) HasEmptyTrace() bool {
	_, ok := l.entries[""]
	return ok
}

// EmptyTraceFrequency returns the frequency of the zero-length trace,
// or 0 when it is absent.
func (l *EventLog) EmptyTraceFrequency() int {
	if e, ok := l.entries[""]; ok {
		return e.freq
	}
	return 0
}

// Traces returns all traces with their frequencies in a deterministic
// order. The returned slices are copies.
func (l *EventLog) Traces() []WeightedTrace {
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]WeightedTrace, 0, len(keys))
	for _, k := range keys {
		e := l.entries[k]
		cp := make([]string, len(e.trace))
		copy(cp, e.trace)
		out = append(out, WeightedTrace{Activities: cp, Frequency: e.freq})
	}
	return out
}

// Alphabet returns the sorted set of distinct activities in the log.
func (l *EventLog) Alphabet() []string {
	seen := make(map[string]struct{}, 16)
	for _, e := range l.entries {
		for _, act := range e.trace {
			seen[act] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for act := range seen {
		out = append(out, act)
	}
	sort.Strings(out)
	return out
}

// ActivityFrequencies returns total occurrence counts per activity,
// weighted by trace frequency.
func (l *EventLog) ActivityFrequencies() map[string]int {
	counts := make(map[string]int, 16)
	for _, e := range l.entries {
		for _, act := range e.trace {
			counts[act] += e.freq
		}
	}
	return counts
}

// MaxTraceFrequency returns the largest single-trace frequency, or 0
// for an empty log.
func (l *EventLog) MaxTraceFrequency() int {
	max := 0
	for _, e := range l.entries {
		if e.freq > max {
			max = e.freq
		}
	}
	return max
}

// WithoutEmptyTrace returns a new log with the zero-length trace
// removed. The receiver is unchanged.
func (l *EventLog) WithoutEmptyTrace() *EventLog {
	b := NewLogBuilder()
	for k, e := range l.entries {
		if k == "" {
			continue
		}
		b.Add(e.trace, e.freq)
	}
	return b.Log()
}
