package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/coach"
	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	trends *TrendsHandler
	users  UserReader
	coach  coach.Coach
	log    *slog.Logger
	now    func() time.Time
}

// NewInsightsHandler accepts a nil coach; the endpoint then reports itself
// unavailable.
func NewInsightsHandler(trends *TrendsHandler, users UserReader, c coach.Coach, log *slog.Logger) *InsightsHandler {
	return &InsightsHandler{
		trends: trends,
		users:  users,
		coach:  c,
		log:    log,
		now:    time.Now,
	}
}

func (h *InsightsHandler) Get(ctx *gin.Context) {
	email, ok := BindEmailParam(ctx, "email")
	if !ok {
		return
	}

	if h.coach == nil {
		RespondUnavailable(ctx, "coach_unavailable", "Coaching insights are not configured")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	avg, err := h.trends.averages(cctx, email)

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not compute performance averages")
		return
	}

	u, err := h.users.GetByEmail(cctx, email)

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not load onboarding data")
		return
	}

	// the model gets its own, longer budget
	gctx, gcancel := config.WithTimeout(ctx.Request.Context(), 20*time.Second)
	defer gcancel()

	summary, err := h.coach.Summarize(gctx, avg, u.Onboarding)

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not generate coaching insights")
		return
	}

	ctx.JSON(http.StatusOK, coach.Insight{
		Email:       email,
		Summary:     summary,
		GeneratedAt: h.now().UTC(),
	})
}
