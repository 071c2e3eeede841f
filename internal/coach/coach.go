package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
)

// Coach writes a short note about an athlete's averages. Profile is nil when
// the athlete has not onboarded.
type Coach interface {
	Summarize(ctx context.Context, avg trend.Averages, profile *onboarding.Data) (string, error)
}

type Insight struct {
	Email       string    `json:"email"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// describe renders the user message sent to the model.
func describe(avg trend.Averages, profile *onboarding.Data) string {
	var b strings.Builder

	if profile != nil {
		fmt.Fprintf(&b, "Athlete: %s, sports: %s, level: %s.\n", profile.Name, strings.Join(profile.Sport, ", "), profile.AthleticStatus)
		if profile.Goal != "" {
			fmt.Fprintf(&b, "Goal: %s.\n", profile.Goal)
		}
		if profile.Expectation != "" {
			fmt.Fprintf(&b, "Expectation: %s.\n", profile.Expectation)
		}
	}

	fmt.Fprintf(&b, "Check-ins: %d, most recent %s.\n", avg.TotalEntries, avg.LastUpdated.UTC().Format(time.RFC3339))
	for _, m := range trend.AllMetrics {
		fmt.Fprintf(&b, "Average %s: %.1f\n", m, avg.Of(m))
	}
	fmt.Fprintf(&b, "Composite (positive metrics only): %.1f\n", avg.TotalAverage)

	return b.String()
}
