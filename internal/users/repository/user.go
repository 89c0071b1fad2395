package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctorsportal/pkg/config"
	mongotx "doctorsportal/pkg/db/mongo"
	"doctorsportal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "users"

var ErrNotFound = errors.New("user not found")

// reservedFields can only be written by dedicated operations, never through a profile.
var reservedFields = map[string]bool{"_id": true, "email": true, "role": true, "updatedAt": true}

type UserRepository interface {
	Upsert(ctx context.Context, email string, profile map[string]any) (*model.UpsertResult, error)
	SetRole(ctx context.Context, email, role string) (*model.UpsertResult, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Role(ctx context.Context, email string) (string, error)
	List(ctx context.Context) ([]model.User, error)
}

type mongoUserRepository struct {
	users *mongotx.Store[model.User]
	now   func() time.Time
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	return NewUserRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewUserRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) UserRepository {
	return &mongoUserRepository{
		users: mongotx.NewStore[model.User](db, CollectionName, readTimeout, writeTimeout),
		now:   time.Now,
	}
}

// Upsert merges profile into the user keyed by email, creating it if needed.
func (r *mongoUserRepository) Upsert(ctx context.Context, email string, profile map[string]any) (*model.UpsertResult, error) {
	set := bson.M{}
	for k, v := range profile {
		if !reservedFields[k] {
			set[k] = v
		}
	}
	set["email"] = email
	set["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)

	result, err := r.users.Upsert(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return toUpsertResult(result), nil
}

func (r *mongoUserRepository) SetRole(ctx context.Context, email, role string) (*model.UpsertResult, error) {
	result, err := r.users.Update(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role, "updatedAt": r.now().UTC().Truncate(time.Millisecond)}},
	)
	if err != nil {
		if errors.Is(err, mongotx.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	return toUpsertResult(result), nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.users.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, mongotx.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Role reports the stored role, "" for unknown users.
func (r *mongoUserRepository) Role(ctx context.Context, email string) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	user, err := r.users.FindOne(ctx, bson.M{"email": email}, opts)
	if err != nil {
		if errors.Is(err, mongotx.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read role: %w", err)
	}
	return user.Role, nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	users, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func toUpsertResult(result *mongo.UpdateResult) *model.UpsertResult {
	out := &model.UpsertResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
	}
	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	}
	return out
}
