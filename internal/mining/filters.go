package mining

import (
	"math"

	"procmine/pkg/models"
)

// filterLog applies the log-level pre-filters once, before recursion
// begins. Traces below round(maxTraceFreq*tracesThreshold) are removed
// first, then activities below round(maxActivityFreq*activityThreshold)
// are projected out of the remaining traces. Both cutoffs are computed
// on the unfiltered log. Traces left empty by activity removal are
// dropped.
func filterLog(log *models.EventLog, activityThreshold, tracesThreshold float64) *models.EventLog {
	minTraceFreq := int(math.Round(float64(log.MaxTraceFrequency()) * tracesThreshold))

	remove := make(map[string]struct{})
	freqs := log.ActivityFrequencies()
	maxActFreq := 0
	for _, f := range freqs {
		if f > maxActFreq {
			maxActFreq = f
		}
	}
	minActFreq := int(math.Round(float64(maxActFreq) * activityThreshold))
	for act, f := range freqs {
		if f < minActFreq {
			remove[act] = struct{}{}
		}
	}

	b := models.NewLogBuilder()
	for _, wt := range log.Traces() {
		if wt.Frequency < minTraceFreq {
			continue
		}
		kept := make([]string, 0, len(wt.Activities))
		for _, act := range wt.Activities {
			if _, drop := remove[act]; !drop {
				kept = append(kept, act)
			}
		}
		if len(kept) == 0 && len(wt.Activities) > 0 {
			continue
		}
		b.Add(kept, wt.Frequency)
	}
	return b.Log()
}
