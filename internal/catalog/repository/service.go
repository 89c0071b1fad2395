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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "services"

var ErrDuplicateName = errors.New("service name already exists")

type ServiceRepository interface {
	List(ctx context.Context) ([]model.Service, error)
	ListNames(ctx context.Context) ([]model.ServiceName, error)
	Create(ctx context.Context, service *model.Service) error
	Count(ctx context.Context) (int64, error)
}

type mongoServiceRepository struct {
	services *mongotx.Store[model.Service]
	names    *mongotx.Store[model.ServiceName]
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	return NewServiceRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewServiceRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) ServiceRepository {
	return &mongoServiceRepository{
		services: mongotx.NewStore[model.Service](db, CollectionName, readTimeout, writeTimeout),
		names:    mongotx.NewStore[model.ServiceName](db, CollectionName, readTimeout, writeTimeout),
	}
}

func (r *mongoServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	services, err := r.services.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) ListNames(ctx context.Context) ([]model.ServiceName, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1})
	names, err := r.names.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list service names: %w", err)
	}
	return names, nil
}

func (r *mongoServiceRepository) Create(ctx context.Context, service *model.Service) error {
	service.ID = ""
	id, err := r.services.Insert(ctx, service)
	if err != nil {
		if errors.Is(err, mongotx.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, service.Name)
		}
		return err
	}
	service.ID = id
	return nil
}

func (r *mongoServiceRepository) Count(ctx context.Context) (int64, error) {
	return r.services.Count(ctx, bson.M{})
}
