// Package mining implements inductive process-tree discovery: a log is
// recursively partitioned along cuts of its directly-follows graph
// until base cases remain, with fallthrough models when no cut applies.
package mining

import (
	"fmt"
	"sort"
	"time"

	"procmine/internal/dfg"
	"procmine/internal/logger"
	"procmine/internal/metrics"
	"procmine/pkg/models"
)

// Variant selects the discovery strategy.
type Variant string

const (
	// VariantStandard attempts cuts on the unfiltered graph only.
	VariantStandard Variant = "standard"
	// VariantInfrequent retries failed cut attempts on a noise-filtered
	// graph.
	VariantInfrequent Variant = "infrequent"
	// VariantApproximate validates cut quality and progressively
	// simplifies the graph when cuts are missing or rejected.
	VariantApproximate Variant = "approximate"
)

// maxFlowerActivities caps the flower model of the approximate variant.
const maxFlowerActivities = 10

// simplificationRounds bounds the progressive-simplification retries of
// the approximate variant.
const simplificationRounds = 3

// Options configures one discovery run. All thresholds live in [0,1].
// ActivityThreshold and TracesThreshold filter the log once before
// recursion; NoiseThreshold applies to the infrequent variant only and
// SimplificationThreshold to the approximate variant only.
type Options struct {
	Variant                 Variant `json:"variant"`
	ActivityThreshold       float64 `json:"activity_threshold"`
	TracesThreshold         float64 `json:"traces_threshold"`
	NoiseThreshold          float64 `json:"noise_threshold"`
	SimplificationThreshold float64 `json:"simplification_threshold"`
}

// Validate rejects unknown variants and out-of-range thresholds before
// any recursion starts. Thresholds are never clamped.
func (o Options) Validate() error {
	switch o.Variant {
	case VariantStandard, VariantInfrequent, VariantApproximate:
	default:
		return fmt.Errorf("unknown variant %q", o.Variant)
	}
	for name, v := range map[string]float64{
		"activity_threshold":       o.ActivityThreshold,
		"traces_threshold":         o.TracesThreshold,
		"noise_threshold":          o.NoiseThreshold,
		"simplification_threshold": o.SimplificationThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	return nil
}

// Stats summarizes one discovery run.
type Stats struct {
	Traces         int              `json:"traces"`
	TotalFrequency int              `json:"total_frequency"`
	Activities     int              `json:"activities"`
	Cuts           map[CutKind]int  `json:"cuts,omitempty"`
	Fallthroughs   map[string]int   `json:"fallthroughs,omitempty"`
	FilteredCuts   int              `json:"filtered_cuts,omitempty"`
}

// Result is the engine's output: the discovered tree plus any
// degradation the approximate variant applied. A model is fully
// faithful exactly when OmittedActivities is empty.
type Result struct {
	Tree              *models.ProcessTree `json:"tree"`
	OmittedActivities []string            `json:"omitted_activities,omitempty"`
	Stats             Stats               `json:"stats"`
}

// Discover mines a process tree from the log. The log is pre-filtered
// by the activity and trace thresholds, then handed to the recursive
// controller of the selected variant.
func Discover(log *models.EventLog, opts Options) (*Result, error) {
	if log == nil {
		return nil, fmt.Errorf("nil event log")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mining options: %w", err)
	}
	start := time.Now()

	filtered := filterLog(log, opts.ActivityThreshold, opts.TracesThreshold)
	logger.Debugf("Mining %d traces (%d after filtering), variant=%s",
		log.Size(), filtered.Size(), opts.Variant)

	m := &miner{
		opts:    opts,
		omitted: make(map[string]struct{}),
		stats: Stats{
			Traces:         filtered.Size(),
			TotalFrequency: filtered.TotalFrequency(),
			Activities:     len(filtered.Alphabet()),
			Cuts:           make(map[CutKind]int),
			Fallthroughs:   make(map[string]int),
		},
	}
	tree, err := m.mine(filtered)
	if err != nil {
		metrics.DiscoveryErrors.Inc()
		return nil, err
	}
	metrics.ObserveRun(string(opts.Variant), start)

	res := &Result{Tree: tree, Stats: m.stats}
	for act := range m.omitted {
		res.OmittedActivities = append(res.OmittedActivities, act)
	}
	sort.Strings(res.OmittedActivities)
	return res, nil
}

type miner struct {
	opts    Options
	omitted map[string]struct{}
	stats   Stats
}

// mine is the recursion controller: base cases, cut attempt, split and
// recurse, fallthrough. Every accepted cut strictly shrinks the
// activity set of each sub-log, which bounds the recursion depth by the
// alphabet size.
func (m *miner) mine(log *models.EventLog) (*models.ProcessTree, error) {
	if tree := baseCase(log); tree != nil {
		return tree, nil
	}

	if !log.HasEmptyTrace() {
		cut, strict := m.findCut(log)
		if cut != nil {
			sublogs, err := splitLog(log, cut, strict)
			if err != nil {
				return nil, fmt.Errorf("split %s cut: %w", cut.Kind, err)
			}
			children := make([]*models.ProcessTree, 0, len(sublogs))
			for _, sub := range sublogs {
				child, err := m.mine(sub)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
			m.stats.Cuts[cut.Kind]++
			metrics.CutsFound.WithLabelValues(string(cut.Kind)).Inc()
			return models.NewOperatorNode(operatorFor(cut.Kind), children...), nil
		}
	}

	return m.resolveFallthrough(log)
}

// baseCase returns the terminal tree for trivial logs: tau for an empty
// log or an empty-trace-only log, a leaf for a single trace of length
// one.
func baseCase(log *models.EventLog) *models.ProcessTree {
	if log.Empty() {
		return models.NewSilent()
	}
	if log.Size() != 1 {
		return nil
	}
	trace := log.Traces()[0].Activities
	switch len(trace) {
	case 0:
		return models.NewSilent()
	case 1:
		return models.NewLeaf(trace[0])
	}
	return nil
}

// findCut runs the variant-specific cut attempt. The second return
// value reports whether the cut came from the unfiltered graph, in
// which case splitting is strict.
func (m *miner) findCut(log *models.EventLog) (*Cut, bool) {
	full := dfg.Build(log)

	switch m.opts.Variant {
	case VariantStandard:
		return FindCut(full), true

	case VariantInfrequent:
		if cut := FindCut(full); cut != nil {
			return cut, true
		}
		metrics.FilteredCutRetries.Inc()
		m.stats.FilteredCuts++
		filtered := dfg.FilterInfrequent(full, m.opts.NoiseThreshold)
		return FindCut(filtered), false

	case VariantApproximate:
		tolerance := m.opts.SimplificationThreshold
		if cut := FindCut(full); cut != nil && validateCutQuality(full, log, cut, tolerance) {
			return cut, true
		}
		for round := 1; round <= simplificationRounds; round++ {
			threshold := tolerance * float64(round)
			if threshold > 1 {
				threshold = 1
			}
			metrics.FilteredCutRetries.Inc()
			m.stats.FilteredCuts++
			simplified := dfg.Simplify(full, threshold)
			if cut := FindCut(simplified); cut != nil && validateCutQuality(full, log, cut, tolerance) {
				return cut, threshold == 0
			}
		}
		return nil, false
	}
	return nil, false
}

// resolveFallthrough resolves a log no cut could partition. It always
// consults the real log, never a filtered view.
func (m *miner) resolveFallthrough(log *models.EventLog) (*models.ProcessTree, error) {
	if log.HasEmptyTrace() {
		rest, err := m.mine(log.WithoutEmptyTrace())
		if err != nil {
			return nil, err
		}
		m.stats.Fallthroughs["empty_trace"]++
		metrics.Fallthroughs.WithLabelValues("empty_trace").Inc()
		return models.NewOperatorNode(models.OpExclusive, models.NewSilent(), rest), nil
	}

	alphabet := log.Alphabet()
	if len(alphabet) == 1 {
		// Not a base case, so the activity repeats within a trace or
		// across traces.
		m.stats.Fallthroughs["single_activity"]++
		metrics.Fallthroughs.WithLabelValues("single_activity").Inc()
		return models.NewOperatorNode(models.OpLoop,
			models.NewLeaf(alphabet[0]), models.NewSilent()), nil
	}

	kept := alphabet
	if m.opts.Variant == VariantApproximate && len(alphabet) > maxFlowerActivities {
		kept = m.capFlower(log, alphabet)
	}

	children := make([]*models.ProcessTree, 0, len(kept)+1)
	children = append(children, models.NewSilent())
	for _, act := range kept {
		children = append(children, models.NewLeaf(act))
	}
	m.stats.Fallthroughs["flower"]++
	metrics.Fallthroughs.WithLabelValues("flower").Inc()
	return models.NewOperatorNode(models.OpLoop, children...), nil
}

// capFlower keeps the most frequent activities up to the complexity cap
// and records the rest as omitted so the degradation stays visible on
// the result.
func (m *miner) capFlower(log *models.EventLog, alphabet []string) []string {
	freqs := log.ActivityFrequencies()
	ranked := append([]string(nil), alphabet...)
	sort.Slice(ranked, func(i, j int) bool {
		if freqs[ranked[i]] != freqs[ranked[j]] {
			return freqs[ranked[i]] > freqs[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	kept := ranked[:maxFlowerActivities]
	for _, act := range ranked[maxFlowerActivities:] {
		m.omitted[act] = struct{}{}
	}
	sort.Strings(kept)

	metrics.DegradedFlowers.Inc()
	logger.Warnf("Flower model capped at %d of %d activities; %d omitted",
		maxFlowerActivities, len(alphabet), len(alphabet)-maxFlowerActivities)
	return kept
}

func operatorFor(kind CutKind) models.Operator {
	switch kind {
	case CutExclusive:
		return models.OpExclusive
	case CutSequence:
		return models.OpSequence
	case CutParallel:
		return models.OpParallel
	case CutLoop:
		return models.OpLoop
	}
	return ""
}
