package handlers

import (
	"log/slog"
	"net/http"

	"github.com/eliteprep/eliteprep-api/internal/apperr"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, MessageResponse{Message: message})
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondUnavailable(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusServiceUnavailable, code, message, nil)
}

// RespondAppError writes err using its apperr kind. Anything that is not an
// *apperr.Error is logged and reported with the generic message.
func RespondAppError(ctx *gin.Context, log *slog.Logger, err error, message string) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.Internal {
		RespondError(ctx, e.Kind.HTTPStatus(), e.Code, e.Message, nil)
		return
	}

	log.ErrorContext(ctx.Request.Context(), message,
		"err", err,
		"route", ctx.FullPath(),
		"request_id", requestIDFrom(ctx),
	)
	RespondInternal(ctx, message)
}
