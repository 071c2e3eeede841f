package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/config"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/observability"
	"github.com/gin-gonic/gin"
)

type TrendAppender interface {
	AppendTrend(ctx context.Context, email string, e trend.Entry) (bool, error)
}

type TrendStore interface {
	UserReader
	TrendAppender
}

// AveragesCache is a read-through cache keyed by email. Implementations
// report a miss with ok=false and a nil error.
//
// Invalidate bumps the email's generation. Set must drop the value when the
// generation no longer equals gen, the one read before the user was loaded.
type AveragesCache interface {
	Get(ctx context.Context, email string) (trend.Averages, bool, error)
	Generation(ctx context.Context, email string) (uint64, error)
	Set(ctx context.Context, avg trend.Averages, gen uint64) error
	Invalidate(ctx context.Context, email string) error
}

type TrendsHandler struct {
	store TrendStore
	cache AveragesCache
	prom  *observability.Prom
	log   *slog.Logger
	now   func() time.Time
}

// NewTrendsHandler accepts a nil cache and a nil prom.
func NewTrendsHandler(store TrendStore, cache AveragesCache, prom *observability.Prom, log *slog.Logger) *TrendsHandler {
	return &TrendsHandler{
		store: store,
		cache: cache,
		prom:  prom,
		log:   log,
		now:   time.Now,
	}
}

func (h *TrendsHandler) Submit(ctx *gin.Context) {
	var req trend.SubmitRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	modified, err := h.store.AppendTrend(cctx, req.Email, req.Entry(h.now()))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.countSubmission("not_found")
		} else {
			h.countSubmission("error")
		}

		RespondAppError(ctx, h.log, err, "Could not record performance trend")
		return
	}

	h.invalidate(cctx, req.Email)

	if !modified {
		h.countSubmission("unchanged")
		RespondMessage(ctx, noChangesMessage)
		return
	}

	h.countSubmission("appended")
	RespondMessage(ctx, "User updated with performance trends")
}

func (h *TrendsHandler) Averages(ctx *gin.Context) {
	email, ok := BindEmailParam(ctx, "email")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	avg, err := h.averages(cctx, email)

	if err != nil {
		RespondAppError(ctx, h.log, err, "Could not compute performance averages")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, avg)
}

// averages is the read-through path shared with the insights endpoint.
func (h *TrendsHandler) averages(ctx context.Context, email string) (trend.Averages, error) {
	var (
		gen       uint64
		cacheable bool
	)

	if h.cache != nil {
		avg, hit, err := h.cache.Get(ctx, email)

		switch {
		case err != nil:
			h.countLookup("error")
			h.log.WarnContext(ctx, "averages cache read failed", "err", err)
		case hit:
			h.countLookup("hit")
			return avg, nil
		default:
			h.countLookup("miss")
		}

		// read before the store so a concurrent append fences our write
		gen, err = h.cache.Generation(ctx, email)
		if err != nil {
			h.log.WarnContext(ctx, "averages cache generation read failed", "err", err)
		}
		cacheable = err == nil
	}

	u, err := h.store.GetByEmail(ctx, email)

	if err != nil {
		return trend.Averages{}, err
	}

	avg, err := trend.ComputeAverages(u.Email, u.PerformanceTrends)

	if err != nil {
		return trend.Averages{}, err
	}

	if h.prom != nil {
		h.prom.TotalAverage.Observe(avg.TotalAverage)
	}

	if cacheable {
		if err := h.cache.Set(ctx, avg, gen); err != nil {
			h.log.WarnContext(ctx, "averages cache write failed", "err", err)
		}
	}

	return avg, nil
}

func (h *TrendsHandler) invalidate(ctx context.Context, email string) {
	if h.cache == nil {
		return
	}

	if err := h.cache.Invalidate(ctx, email); err != nil {
		h.log.WarnContext(ctx, "averages cache invalidate failed", "err", err)
	}
}

func (h *TrendsHandler) countSubmission(result string) {
	if h.prom != nil {
		h.prom.TrendSubmissions.WithLabelValues(result).Inc()
	}
}

func (h *TrendsHandler) countLookup(result string) {
	if h.prom != nil {
		h.prom.CacheLookups.WithLabelValues(result).Inc()
	}
}
