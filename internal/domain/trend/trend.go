package trend

import (
	"time"

	"github.com/eliteprep/eliteprep-api/internal/apperr"
)

var (
	ErrNoPerformanceData   = apperr.New(apperr.NotFound, "no_performance_data", "No performance data available")
	ErrNoPerformanceTrends = apperr.New(apperr.NotFound, "no_performance_trends", "No performance trends found")
)

type Metric string

const (
	Focus      Metric = "focus"
	Confidence Metric = "confidence"
	Anxiety    Metric = "anxiety"
	Enjoyment  Metric = "enjoyment"
	Burnout    Metric = "burnout"
	Effort     Metric = "effort"
	Motivation Metric = "motivation"
)

// Positive metrics feed the composite score. Negative ones (higher is worse)
// are reported on their own.
var (
	PositiveMetrics = []Metric{Focus, Confidence, Enjoyment, Effort, Motivation}
	NegativeMetrics = []Metric{Anxiety, Burnout}
	AllMetrics      = []Metric{Focus, Confidence, Anxiety, Enjoyment, Burnout, Effort, Motivation}
)

// Entry is one self-reported snapshot. Entries are never modified once stored.
type Entry struct {
	Focus      int       `json:"focus" bson:"focus"`
	Confidence int       `json:"confidence" bson:"confidence"`
	Anxiety    int       `json:"anxiety" bson:"anxiety"`
	Enjoyment  int       `json:"enjoyment" bson:"enjoyment"`
	Burnout    int       `json:"burnout" bson:"burnout"`
	Effort     int       `json:"effort" bson:"effort"`
	Motivation int       `json:"motivation" bson:"motivation"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

func (e Entry) Value(m Metric) int {
	switch m {
	case Focus:
		return e.Focus
	case Confidence:
		return e.Confidence
	case Anxiety:
		return e.Anxiety
	case Enjoyment:
		return e.Enjoyment
	case Burnout:
		return e.Burnout
	case Effort:
		return e.Effort
	case Motivation:
		return e.Motivation
	default:
		return 0
	}
}

// ratings are 1-10 by convention; the range is not enforced.
type SubmitRequest struct {
	Email      string     `json:"email" binding:"required,email"`
	Focus      *int       `json:"focus" binding:"required"`
	Confidence *int       `json:"confidence" binding:"required"`
	Anxiety    *int       `json:"anxiety" binding:"required"`
	Enjoyment  *int       `json:"enjoyment" binding:"required"`
	Burnout    *int       `json:"burnout" binding:"required"`
	Effort     *int       `json:"effort" binding:"required"`
	Motivation *int       `json:"motivation" binding:"required"`
	Timestamp  *time.Time `json:"timestamp"`
}

// Entry builds the stored entry. Timestamps are stored as UTC instants; now
// is used only when the request omits the field.
func (r SubmitRequest) Entry(now time.Time) Entry {
	ts := now.UTC()
	if r.Timestamp != nil {
		ts = r.Timestamp.UTC()
	}

	return Entry{
		Focus:      deref(r.Focus),
		Confidence: deref(r.Confidence),
		Anxiety:    deref(r.Anxiety),
		Enjoyment:  deref(r.Enjoyment),
		Burnout:    deref(r.Burnout),
		Effort:     deref(r.Effort),
		Motivation: deref(r.Motivation),
		Timestamp:  ts,
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
