package mining

import (
	"fmt"
	"strings"

	"procmine/pkg/models"
)

// splitLog produces one sub-log per cut partition, in partition order,
// preserving trace frequencies. In strict mode a trace that violates
// the cut's guarantees is an invariant violation and returns an error;
// in lenient mode (cuts found on a noise-filtered graph, where such
// traces are the noise being removed) the offending trace or event is
// dropped instead.
func splitLog(log *models.EventLog, cut *Cut, strict bool) ([]*models.EventLog, error) {
	idx := partitionIndex(cut.Partitions)
	switch cut.Kind {
	case CutExclusive:
		return splitExclusive(log, cut.Partitions, idx, strict)
	case CutSequence:
		return splitSequence(log, cut.Partitions, idx, strict)
	case CutParallel:
		return splitParallel(log, cut.Partitions, idx)
	case CutLoop:
		return splitLoop(log, cut.Partitions, idx)
	default:
		return nil, fmt.Errorf("unknown cut kind %q", cut.Kind)
	}
}

func partitionIndex(partitions [][]string) map[string]int {
	idx := make(map[string]int, 16)
	for i, part := range partitions {
		for _, act := range part {
			idx[act] = i
		}
	}
	return idx
}

// splitExclusive assigns every trace whole to the partition holding all
// of its activities.
func splitExclusive(log *models.EventLog, partitions [][]string, idx map[string]int, strict bool) ([]*models.EventLog, error) {
	builders := newBuilders(len(partitions))
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			continue
		}
		target, err := monochromePartition(wt.Activities, idx)
		if err != nil {
			if strict {
				return nil, err
			}
			// Noise: the trace mixes behavior the filtered graph
			// separated. Dropping it is the filtering.
			continue
		}
		builders[target].Add(wt.Activities, wt.Frequency)
	}
	return finishBuilders(builders), nil
}

func monochromePartition(trace []string, idx map[string]int) (int, error) {
	target, ok := idx[trace[0]]
	if !ok {
		return 0, fmt.Errorf("activity %q not covered by any partition", trace[0])
	}
	for _, act := range trace[1:] {
		p, ok := idx[act]
		if !ok {
			return 0, fmt.Errorf("activity %q not covered by any partition", act)
		}
		if p != target {
			return 0, fmt.Errorf("trace %q spans exclusive partitions %d and %d",
				strings.Join(trace, ","), target, p)
		}
	}
	return target, nil
}

// splitSequence walks each trace once, accumulating a sub-trace for the
// current partition and flushing (an empty trace if nothing
// accumulated) whenever the next event belongs to a later partition.
// Partitions the trace never reaches receive an empty trace.
func splitSequence(log *models.EventLog, partitions [][]string, idx map[string]int, strict bool) ([]*models.EventLog, error) {
	builders := newBuilders(len(partitions))
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			continue
		}
		cur := 0
		var acc []string
		for _, act := range wt.Activities {
			p, found := idx[act]
			if !found {
				return nil, fmt.Errorf("activity %q not covered by any partition", act)
			}
			if p < cur {
				if strict {
					return nil, fmt.Errorf("trace %q moves backwards across sequence partitions",
						strings.Join(wt.Activities, ","))
				}
				// Out-of-order occurrence under a filtered cut: skip
				// the event.
				continue
			}
			for p > cur {
				builders[cur].Add(acc, wt.Frequency)
				acc = nil
				cur++
			}
			acc = append(acc, act)
		}
		builders[cur].Add(acc, wt.Frequency)
		for cur++; cur < len(partitions); cur++ {
			builders[cur].Add(nil, wt.Frequency)
		}
	}
	return finishBuilders(builders), nil
}

// splitParallel projects every trace independently onto each partition,
// keeping relative order; a partition with no matching events receives
// an empty-trace projection.
func splitParallel(log *models.EventLog, partitions [][]string, idx map[string]int) ([]*models.EventLog, error) {
	builders := newBuilders(len(partitions))
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			continue
		}
		projections := make([][]string, len(partitions))
		for _, act := range wt.Activities {
			p, found := idx[act]
			if !found {
				return nil, fmt.Errorf("activity %q not covered by any partition", act)
			}
			projections[p] = append(projections[p], act)
		}
		for i, proj := range projections {
			builders[i].Add(proj, wt.Frequency)
		}
	}
	return finishBuilders(builders), nil
}

// splitLoop walks each trace once, flushing maximal runs of same-
// partition events into that partition's sub-log as the run ends. Only
// observed runs are emitted; a partition the trace never visits gets
// nothing from it.
func splitLoop(log *models.EventLog, partitions [][]string, idx map[string]int) ([]*models.EventLog, error) {
	builders := newBuilders(len(partitions))
	for _, wt := range log.Traces() {
		if len(wt.Activities) == 0 {
			continue
		}
		cur, found := idx[wt.Activities[0]]
		if !found {
			return nil, fmt.Errorf("activity %q not covered by any partition", wt.Activities[0])
		}
		var run []string
		for _, act := range wt.Activities {
			p, found := idx[act]
			if !found {
				return nil, fmt.Errorf("activity %q not covered by any partition", act)
			}
			if p != cur {
				builders[cur].Add(run, wt.Frequency)
				run = nil
				cur = p
			}
			run = append(run, act)
		}
		builders[cur].Add(run, wt.Frequency)
	}
	return finishBuilders(builders), nil
}

func newBuilders(n int) []*models.LogBuilder {
	out := make([]*models.LogBuilder, n)
	for i := range out {
		out[i] = models.NewLogBuilder()
	}
	return out
}

func finishBuilders(builders []*models.LogBuilder) []*models.EventLog {
	out := make([]*models.EventLog, len(builders))
	for i, b := range builders {
		out[i] = b.Log()
	}
	return out
}
