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

const CollectionName = "doctors"

var (
	ErrNotFound  = errors.New("doctor not found")
	ErrDuplicate = errors.New("doctor email already exists")
)

type DoctorRepository interface {
	List(ctx context.Context) ([]model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) error
	DeleteByEmail(ctx context.Context, email string) error
}

type mongoDoctorRepository struct {
	doctors *mongotx.Store[model.Doctor]
}

func NewMongoDoctorRepository(cfg *config.Config) DoctorRepository {
	return NewDoctorRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewDoctorRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) DoctorRepository {
	return &mongoDoctorRepository{
		doctors: mongotx.NewStore[model.Doctor](db, CollectionName, readTimeout, writeTimeout),
	}
}

func (r *mongoDoctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	doctors, err := r.doctors.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *mongoDoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = ""
	id, err := r.doctors.Insert(ctx, doctor)
	if err != nil {
		if errors.Is(err, mongotx.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrDuplicate, doctor.Email)
		}
		return err
	}
	doctor.ID = id
	return nil
}

func (r *mongoDoctorRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.doctors.Delete(ctx, bson.M{"email": email}); err != nil {
		if errors.Is(err, mongotx.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
