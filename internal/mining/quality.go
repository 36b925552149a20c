package mining

import (
	"procmine/internal/dfg"
	"procmine/pkg/models"
)

// maxRedoShare bounds how large the redo alphabet of an accepted loop
// cut may be relative to the whole alphabet.
const maxRedoShare = 0.6

// validateCutQuality re-checks a cut accepted by the approximate
// variant against the unfiltered graph and the real log. tolerance is
// the simplification threshold: at 0 only cuts the standard variant
// would also find pass, so the variant degenerates cleanly.
func validateCutQuality(full *dfg.DFG, log *models.EventLog, cut *Cut, tolerance float64) bool {
	switch cut.Kind {
	case CutExclusive:
		return exclusiveLeakage(full, cut.Partitions) <= tolerance
	case CutSequence:
		return sequenceOrderShare(log, cut.Partitions) >= 1-tolerance
	case CutParallel:
		return parallelMissingShare(full, cut.Partitions) <= tolerance
	case CutLoop:
		return redoShare(cut.Partitions) <= maxRedoShare
	default:
		return false
	}
}

// exclusiveLeakage is the fraction of unfiltered edges that cross
// partition borders. A clean exclusive cut has none.
func exclusiveLeakage(full *dfg.DFG, partitions [][]string) float64 {
	idx := partitionIndex(partitions)
	edges := full.Edges()
	if len(edges) == 0 {
		return 0
	}
	crossing := 0
	for _, e := range edges {
		if idx[e.From] != idx[e.To] {
			crossing++
		}
	}
	return float64(crossing) / float64(len(edges))
}

// sequenceOrderShare is the frequency-weighted fraction of traces whose
// events never step back to an earlier partition.
func sequenceOrderShare(log *models.EventLog, partitions [][]string) float64 {
	idx := partitionIndex(partitions)
	ordered, total := 0, 0
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			continue
		}
		total += wt.Frequency
		cur := 0
		respects := true
		for _, act := range wt.Activities {
			p, ok := idx[act]
			if !ok || p < cur {
				respects = false
				break
			}
			cur = p
		}
		if respects {
			ordered += wt.Frequency
		}
	}
	if total == 0 {
		return 1
	}
	return float64(ordered) / float64(total)
}

// parallelMissingShare is the fraction of cross-partition activity
// pairs lacking edges in both directions of the unfiltered graph.
func parallelMissingShare(full *dfg.DFG, partitions [][]string) float64 {
	pairs, missing := 0, 0
	for i := range partitions {
		for j := i + 1; j < len(partitions); j++ {
			for _, a := range partitions[i] {
				for _, b := range partitions[j] {
					pairs++
					if !full.HasEdge(a, b) || !full.HasEdge(b, a) {
						missing++
					}
				}
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(missing) / float64(pairs)
}

// redoShare is the share of the alphabet sitting in redo parts. Redo
// parts that dwarf the do part indicate a degenerate loop.
func redoShare(partitions [][]string) float64 {
	total := 0
	for _, part := range partitions {
		total += len(part)
	}
	if total == 0 {
		return 1
	}
	redo := total - len(partitions[0])
	return float64(redo) / float64(total)
}
