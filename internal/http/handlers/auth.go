package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	verifier   security.CredentialVerifier
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, verifier security.CredentialVerifier, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		verifier:   verifier,
		log:        log,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// fast path; the unique key still decides under a race
	_, err := h.users.GetByEmail(cctx, req.Email)

	if err == nil {
		RespondAppError(ctx, h.log, user.ErrEmailTaken, "")
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		RespondAppError(ctx, h.log, err, "Could not register user")
		return
	}

	credential, err := h.verifier.Encode(req.Password)

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not register user")
		return
	}

	err = h.userWriter.Create(cctx, user.New(req.Email, credential))

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not register user")
		return
	}

	RespondMessage(ctx, "User registered successfully")
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, req.Email)

	if errors.Is(err, user.ErrNotFound) {
		RespondAppError(ctx, h.log, user.ErrInvalidCredentials, "")
		return
	}

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not log in")
		return
	}

	if !h.verifier.Verify(found.Password, req.Password) {
		RespondAppError(ctx, h.log, user.ErrInvalidCredentials, "")
		return
	}

	RespondMessage(ctx, "Login successful")
}
