package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/eliteprep/eliteprep-api/internal/coach"
	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/http/handlers"
)

type fakeCoach struct {
	summarizeFn func(ctx context.Context, avg trend.Averages, profile *onboarding.Data) (string, error)
}

func (f *fakeCoach) Summarize(ctx context.Context, avg trend.Averages, profile *onboarding.Data) (string, error) {
	if f.summarizeFn != nil {
		return f.summarizeFn(ctx, avg, profile)
	}

	return "Keep it up.", nil
}

func TestInsightsHandler(t *testing.T) {
	profile := &onboarding.Data{Name: "Ana", Sport: []string{"golf"}}

	withTrends := func(ctx context.Context, email string) (user.User, error) {
		u := user.New(email, "x")
		u.Onboarding = profile
		u.PerformanceTrends = entriesFor(6, 8)
		return u, nil
	}

	tests := []struct {
		name           string
		getFn          func(ctx context.Context, email string) (user.User, error)
		coach          coach.Coach
		wantStatusCode int
		wantCode       string
	}{
		{
			name:  "success",
			getFn: withTrends,
			coach: &fakeCoach{
				summarizeFn: func(ctx context.Context, avg trend.Averages, p *onboarding.Data) (string, error) {
					if avg.AverageFocus != 7 || p == nil || p.Name != "Ana" {
						return "", errors.New("unexpected input")
					}
					return "Strong focus this week.", nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "coach_not_configured",
			getFn:          withTrends,
			wantStatusCode: http.StatusServiceUnavailable,
			wantCode:       "coach_unavailable",
		},
		{
			name:           "no_trends",
			getFn:          func(ctx context.Context, email string) (user.User, error) { return user.New(email, "x"), nil },
			coach:          &fakeCoach{},
			wantStatusCode: http.StatusNotFound,
			wantCode:       "no_performance_trends",
		},
		{
			name:  "coach_error",
			getFn: withTrends,
			coach: &fakeCoach{
				summarizeFn: func(ctx context.Context, avg trend.Averages, p *onboarding.Data) (string, error) {
					return "", errors.New("OpenAI API error: 429")
				},
			},
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       "internal_error",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{getFn: tt.getFn}

			trends := handlers.NewTrendsHandler(repo, nil, nil, discardLogger())
			h := handlers.NewInsightsHandler(trends, repo, tt.coach, discardLogger())
			r := setupRouter(http.MethodGet, "/performance-insights/:email", h.Get)

			w := doJSON(r, http.MethodGet, "/performance-insights/ana@example.com", "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantCode != "" {
				env := decodeEnvelope(t, w.Body.Bytes())
				if env.Error.Code != tt.wantCode {
					t.Fatalf("got code %q, want %q", env.Error.Code, tt.wantCode)
				}
				if tt.wantCode == "internal_error" && env.Error.Message == "OpenAI API error: 429" {
					t.Fatalf("internal error text leaked to the client")
				}
				return
			}

			var insight coach.Insight
			if err := json.Unmarshal(w.Body.Bytes(), &insight); err != nil {
				t.Fatalf("failed to unmarshal insight: %v", err)
			}
			if insight.Email != "ana@example.com" || insight.Summary != "Strong focus this week." || insight.GeneratedAt.IsZero() {
				t.Fatalf("unexpected insight: %+v", insight)
			}
		})
	}
}
