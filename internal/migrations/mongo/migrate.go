package mongo

import (
	"context"
	"fmt"

	"doctorsportal/internal/migrations/mongo/validators"
	"doctorsportal/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ServicesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	// The unique triple closes the race between the duplicate check and
	// the insert of two identical booking requests.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "treatment", Value: 1},
				{Key: "formattedDate", Value: 1},
				{Key: "userName", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("booking_dedup"),
		},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "formattedDate", Value: 1}, {Key: "name", Value: 1}, {Key: "slot", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	DoctorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	PaymentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}},
		{Keys: bson.D{{Key: "transactionId", Value: 1}}},
	}
)

type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the portal owns, in creation order.
var Collections = []CollectionDef{
	{Name: "services", Indexes: ServicesIndexes, Validator: validators.ServiceValidator},
	{Name: "bookings", Indexes: BookingsIndexes, Validator: validators.BookingValidator},
	{Name: "users", Indexes: UsersIndexes, Validator: validators.UserValidator},
	{Name: "doctors", Indexes: DoctorsIndexes, Validator: validators.DoctorValidator},
	{Name: "payments", Indexes: PaymentsIndexes, Validator: validators.PaymentValidator},
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections {
		if err := MigrateCollection(ctx, db, def, log); err != nil {
			return err
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func MigrateCollection(ctx context.Context, db *mongo.Database, def CollectionDef, log *logger.Logger) error {
	if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
	}
	if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	names, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", names)
	return nil
}
