package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersRepo stores each user as one row whose onboarding data and trend list
// are JSONB documents. A NULL performance_trends column is a user without a
// trend list; '[]' is an empty one.
type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	onboardingDoc, err := jsonOrNull(u.Onboarding, u.Onboarding == nil)
	if err != nil {
		return err
	}

	trendsDoc, err := jsonOrNull(u.PerformanceTrends, u.PerformanceTrends == nil)
	if err != nil {
		return err
	}

	err = r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (email, password, onboarding_data, performance_trends)
			VALUES ($1, $2, $3::jsonb, $4::jsonb)`,
			u.Email, u.Password, onboardingDoc, trendsDoc,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var (
		u             user.User
		onboardingDoc []byte
		trendsDoc     []byte
	)

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT email, password, onboarding_data, performance_trends
			FROM users
			WHERE email = $1`,
			email,
		).Scan(&u.Email, &u.Password, &onboardingDoc, &trendsDoc)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	if onboardingDoc != nil {
		var d onboarding.Data
		if err := json.Unmarshal(onboardingDoc, &d); err != nil {
			return user.User{}, fmt.Errorf("decode onboarding_data for %s: %w", email, err)
		}
		u.Onboarding = &d
	}

	if trendsDoc != nil {
		entries := []trend.Entry{}
		if err := json.Unmarshal(trendsDoc, &entries); err != nil {
			return user.User{}, fmt.Errorf("decode performance_trends for %s: %w", email, err)
		}
		u.PerformanceTrends = entries
	}

	return u, nil
}

// ReplaceOnboarding overwrites the whole onboarding document. The update only
// touches the row when the stored document differs, so an identical payload
// reports modified=false.
func (r *UsersRepo) ReplaceOnboarding(ctx context.Context, email string, data onboarding.Data) (bool, error) {
	doc, err := json.Marshal(data)
	if err != nil {
		return false, err
	}

	var exists, modified bool

	err = r.observe("users.replace_onboarding", func() error {
		return r.pool.QueryRow(ctx,
			`WITH target AS (
				SELECT email FROM users WHERE email = $1
			), updated AS (
				UPDATE users
				SET onboarding_data = $2::jsonb,
					updated_at = NOW()
				WHERE email = $1
					AND onboarding_data IS DISTINCT FROM $2::jsonb
				RETURNING email
			)
			SELECT EXISTS(SELECT 1 FROM target), EXISTS(SELECT 1 FROM updated)`,
			email, doc,
		).Scan(&exists, &modified)
	})

	if err != nil {
		return false, err
	}

	if !exists {
		return false, user.ErrNotFound
	}

	return modified, nil
}

// AppendTrend appends in a single statement; a missing list is created.
func (r *UsersRepo) AppendTrend(ctx context.Context, email string, e trend.Entry) (bool, error) {
	doc, err := json.Marshal(e)
	if err != nil {
		return false, err
	}

	var tag pgconn.CommandTag

	err = r.observe("users.append_trend", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE users
			SET performance_trends = COALESCE(performance_trends, '[]'::jsonb) || jsonb_build_array($2::jsonb),
				updated_at = NOW()
			WHERE email = $1`,
			email, doc,
		)
		return err
	})

	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		return false, user.ErrNotFound
	}

	return true, nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func jsonOrNull(v any, isNull bool) ([]byte, error) {
	if isNull {
		return nil, nil
	}
	return json.Marshal(v)
}
