package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

// userDocument is the stored shape. The trend list is a pointer so an absent
// field and an empty array decode differently.
type userDocument struct {
	Email             string           `bson:"email"`
	Password          string           `bson:"password"`
	OnboardingData    *onboarding.Data `bson:"onboarding_data,omitempty"`
	PerformanceTrends *[]trend.Entry   `bson:"performance_trends,omitempty"`
}

type UsersRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
	prom   *observability.Prom
}

// Connect dials uri, pings the primary and makes sure the unique email index
// exists.
func Connect(ctx context.Context, uri, database string, prom *observability.Prom) (*UsersRepo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetAppName("eliteprep-api").
		SetMaxPoolSize(5)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	r := NewUsersRepo(client, database, prom)

	if err := r.EnsureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return r, nil
}

func NewUsersRepo(client *mongo.Client, database string, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		client: client,
		coll:   client.Database(database).Collection(usersCollection),
		prom:   prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	doc := userDocument{
		Email:          u.Email,
		Password:       u.Password,
		OnboardingData: u.Onboarding,
	}
	if u.PerformanceTrends != nil {
		trends := u.PerformanceTrends
		doc.PerformanceTrends = &trends
	}

	err := r.observe("users.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})

	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailTaken
	}

	return err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDocument

	err := r.observe("users.get_by_email", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	u := user.User{
		Email:      doc.Email,
		Password:   doc.Password,
		Onboarding: doc.OnboardingData,
	}

	if doc.PerformanceTrends != nil {
		u.PerformanceTrends = *doc.PerformanceTrends
		if u.PerformanceTrends == nil {
			u.PerformanceTrends = []trend.Entry{}
		}
	}

	return u, nil
}

// ReplaceOnboarding relies on the server's modified count: $set with an
// identical sub-document matches the user but modifies nothing.
func (r *UsersRepo) ReplaceOnboarding(ctx context.Context, email string, data onboarding.Data) (bool, error) {
	var res *mongo.UpdateResult

	err := r.observe("users.replace_onboarding", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx,
			bson.D{{Key: "email", Value: email}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "onboarding_data", Value: data}}}},
		)
		return err
	})

	if err != nil {
		return false, err
	}

	if res.MatchedCount == 0 {
		return false, user.ErrNotFound
	}

	return res.ModifiedCount == 1, nil
}

func (r *UsersRepo) AppendTrend(ctx context.Context, email string, e trend.Entry) (bool, error) {
	var res *mongo.UpdateResult

	err := r.observe("users.append_trend", func() error {
		var err error
		res, err = r.coll.UpdateOne(ctx,
			bson.D{{Key: "email", Value: email}},
			bson.D{{Key: "$push", Value: bson.D{{Key: "performance_trends", Value: e}}}},
		)
		return err
	})

	if err != nil {
		return false, err
	}

	if res.MatchedCount == 0 {
		return false, user.ErrNotFound
	}

	return res.ModifiedCount == 1, nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *UsersRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
