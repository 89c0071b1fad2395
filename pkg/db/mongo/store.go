package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a typed view over one collection. Every call is bounded by the
// read or write timeout unless it runs inside a transaction.
type Store[T any] struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewStore[T any](db *mongo.Database, collection string, readTimeout, writeTimeout time.Duration) *Store[T] {
	return &Store[T]{
		collection:   db.Collection(collection),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (s *Store[T]) Collection() *mongo.Collection {
	return s.collection
}

// WithTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without losing the session, so it is
// returned unchanged with a no-op cancel.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

// ObjectID parses a hex id, mapping failures to ErrInvalidID.
func ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return oid, nil
}

func (s *Store[T]) Find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find in %s: %w", s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.collection.Name(), err)
	}
	return docs, nil
}

func (s *Store[T]) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*T, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	var doc T
	if err := s.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find one in %s: %w", s.collection.Name(), err)
	}
	return &doc, nil
}

// Insert returns the hex of the generated ObjectID, or "" when the document
// carried a non-ObjectID key.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (string, error) {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", s.collection.Name(), err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// Update applies update to the first match. No match is ErrNotFound.
func (s *Store[T]) Update(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *Store[T]) Upsert(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to upsert %s: %w", s.collection.Name(), err)
	}
	return result, nil
}

// FindOneAndUpdate returns the document as it is after the update.
func (s *Store[T]) FindOneAndUpdate(ctx context.Context, filter, update any) (*T, error) {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", s.collection.Name(), err)
	}
	return &doc, nil
}

// Delete removes the first match. No match is ErrNotFound.
func (s *Store[T]) Delete(ctx context.Context, filter any) error {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.collection.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context, filter any) (int64, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.collection.Name(), err)
	}
	return count, nil
}
