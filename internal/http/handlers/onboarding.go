package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/gin-gonic/gin"
)

const noChangesMessage = "No changes made"

type OnboardingWriter interface {
	ReplaceOnboarding(ctx context.Context, email string, data onboarding.Data) (bool, error)
}

type OnboardingHandler struct {
	store OnboardingWriter
	log   *slog.Logger
}

func NewOnboardingHandler(store OnboardingWriter, log *slog.Logger) *OnboardingHandler {
	return &OnboardingHandler{store: store, log: log}
}

func (h *OnboardingHandler) Update(ctx *gin.Context) {
	var req onboarding.Request

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	modified, err := h.store.ReplaceOnboarding(cctx, req.Email, req.Data())

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not update onboarding data")
		return
	}

	if !modified {
		RespondMessage(ctx, noChangesMessage)
		return
	}

	RespondMessage(ctx, "User updated with onboarding data")
}
