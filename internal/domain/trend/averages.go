package trend

import "time"

type Averages struct {
	Email             string    `json:"email"`
	AverageFocus      float64   `json:"average_focus"`
	AverageConfidence float64   `json:"average_confidence"`
	AverageAnxiety    float64   `json:"average_anxiety"`
	AverageEnjoyment  float64   `json:"average_enjoyment"`
	AverageBurnout    float64   `json:"average_burnout"`
	AverageEffort     float64   `json:"average_effort"`
	AverageMotivation float64   `json:"average_motivation"`
	TotalEntries      int       `json:"total_entries"`
	LastUpdated       time.Time `json:"last_updated"`
	TotalAverage      float64   `json:"total_average"`
}

func (a Averages) Of(m Metric) float64 {
	switch m {
	case Focus:
		return a.AverageFocus
	case Confidence:
		return a.AverageConfidence
	case Anxiety:
		return a.AverageAnxiety
	case Enjoyment:
		return a.AverageEnjoyment
	case Burnout:
		return a.AverageBurnout
	case Effort:
		return a.AverageEffort
	case Motivation:
		return a.AverageMotivation
	default:
		return 0
	}
}

// ComputeAverages returns the per-metric means over entries, in the order they
// were appended. LastUpdated is the timestamp of the last element, which is
// not necessarily the latest timestamp.
//
// A nil slice means the trend list was never created and reports
// ErrNoPerformanceData; an empty one reports ErrNoPerformanceTrends.
func ComputeAverages(email string, entries []Entry) (Averages, error) {
	if entries == nil {
		return Averages{}, ErrNoPerformanceData
	}
	if len(entries) == 0 {
		return Averages{}, ErrNoPerformanceTrends
	}

	sums := make(map[Metric]int, len(AllMetrics))
	for _, e := range entries {
		for _, m := range AllMetrics {
			sums[m] += e.Value(m)
		}
	}

	n := float64(len(entries))
	mean := func(m Metric) float64 { return float64(sums[m]) / n }

	avg := Averages{
		Email:             email,
		AverageFocus:      mean(Focus),
		AverageConfidence: mean(Confidence),
		AverageAnxiety:    mean(Anxiety),
		AverageEnjoyment:  mean(Enjoyment),
		AverageBurnout:    mean(Burnout),
		AverageEffort:     mean(Effort),
		AverageMotivation: mean(Motivation),
		TotalEntries:      len(entries),
		LastUpdated:       entries[len(entries)-1].Timestamp,
	}

	var positive float64
	for _, m := range PositiveMetrics {
		positive += avg.Of(m)
	}
	avg.TotalAverage = positive / float64(len(PositiveMetrics))

	return avg, nil
}
