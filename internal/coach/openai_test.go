package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCompletions(t *testing.T, content string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestOpenAICoach_Summarize(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := fakeCompletions(t, "  Great effort this month. Work on pre-round nerves.  ", &seen)

	c, err := NewOpenAICoach("test-key", srv.URL+"/v1", "")
	require.NoError(t, err)

	avg := trend.Averages{
		Email:         "a@example.com",
		AverageFocus:  7,
		AverageEffort: 9,
		TotalEntries:  3,
		LastUpdated:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalAverage:  6.2,
	}
	profile := &onboarding.Data{Name: "Ana", Sport: []string{"golf"}, AthleticStatus: "junior", Goal: "make varsity"}

	summary, err := c.Summarize(context.Background(), avg, profile)
	require.NoError(t, err)
	assert.Equal(t, "Great effort this month. Work on pre-round nerves.", summary)

	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content, "sports performance coach")
	assert.Contains(t, seen.Messages[1].Content, "Athlete: Ana")
	assert.Contains(t, seen.Messages[1].Content, "Average effort: 9.0")
	assert.Equal(t, openai.GPT4oMini, seen.Model)
}

func TestOpenAICoach_EmptyCompletion(t *testing.T) {
	srv := fakeCompletions(t, "   ", nil)

	c, err := NewOpenAICoach("test-key", srv.URL+"/v1", "gpt-4o")
	require.NoError(t, err)

	_, err = c.Summarize(context.Background(), trend.Averages{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestDescribe_WithoutProfile(t *testing.T) {
	out := describe(trend.Averages{TotalEntries: 1, AverageAnxiety: 8}, nil)

	assert.NotContains(t, out, "Athlete:")
	assert.Contains(t, out, "Average anxiety: 8.0")
	assert.Contains(t, out, "Check-ins: 1")
}
