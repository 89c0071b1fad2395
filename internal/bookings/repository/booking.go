package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "doctorsportal/internal/bookings/errors"
	"doctorsportal/pkg/config"
	mongotx "doctorsportal/pkg/db/mongo"
	"doctorsportal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName         = "bookings"
	PaymentsCollectionName = "payments"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindDuplicate(ctx context.Context, treatment, formattedDate, userName string) (*model.Booking, error)
	FindSlotTaken(ctx context.Context, name, formattedDate, slot string) (*model.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]model.Booking, error)
	FindByDate(ctx context.Context, formattedDate string) ([]model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	MarkPaid(ctx context.Context, id string, payment *model.Payment) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepository struct {
	bookings  *mongotx.Store[model.Booking]
	payments  *mongotx.Store[model.Payment]
	txManager mongotx.TransactionManager
	now       func() time.Time
}

// NewMongoBookingRepository wires the repository to the shared client. The
// payment write joins the booking update in one transaction only when
// MONGO_TRANSACTIONS is on, since standalone servers reject sessions.
func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	var txManager mongotx.TransactionManager
	if cfg.MongoTransactions {
		txManager = mongotx.NewTransactionManager(cfg.Client.Mongo)
	}
	return NewBookingRepository(db, txManager, cfg.ReadTimeout, cfg.WriteTimeout)
}

// NewBookingRepository builds a repository over db. A nil txManager makes
// MarkPaid run its two writes independently.
func NewBookingRepository(db *mongo.Database, txManager mongotx.TransactionManager, readTimeout, writeTimeout time.Duration) BookingRepository {
	return &mongoBookingRepository{
		bookings:  mongotx.NewStore[model.Booking](db, CollectionName, readTimeout, writeTimeout),
		payments:  mongotx.NewStore[model.Payment](db, PaymentsCollectionName, readTimeout, writeTimeout),
		txManager: txManager,
		now:       time.Now,
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	booking.Paid = false
	booking.TransactionID = ""
	booking.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	id, err := r.bookings.Insert(ctx, booking)
	if err != nil {
		return mapError(err)
	}
	booking.ID = id
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking, err := r.bookings.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, mapError(err)
	}
	return booking, nil
}

func (r *mongoBookingRepository) FindDuplicate(ctx context.Context, treatment, formattedDate, userName string) (*model.Booking, error) {
	booking, err := r.bookings.FindOne(ctx, bson.M{
		"treatment":     treatment,
		"formattedDate": formattedDate,
		"userName":      userName,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return booking, nil
}

func (r *mongoBookingRepository) FindSlotTaken(ctx context.Context, name, formattedDate, slot string) (*model.Booking, error) {
	booking, err := r.bookings.FindOne(ctx, bson.M{
		"name":          name,
		"formattedDate": formattedDate,
		"slot":          slot,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return booking, nil
}

func (r *mongoBookingRepository) FindByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	bookings, err := r.bookings.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by email: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, formattedDate string) ([]model.Booking, error) {
	bookings, err := r.bookings.Find(ctx, bson.M{"formattedDate": formattedDate})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by date: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	bookings, err := r.bookings.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	return r.bookings.Count(ctx, bson.M{})
}

// MarkPaid flags the booking paid and records the payment. The booking is
// updated first so an unknown id never leaves an orphan payment behind.
func (r *mongoBookingRepository) MarkPaid(ctx context.Context, id string, payment *model.Payment) (*model.Booking, error) {
	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var updated *model.Booking
	write := func(ctx context.Context) error {
		booking, err := r.bookings.FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": bson.M{"paid": true, "transactionId": payment.TransactionID}},
		)
		if err != nil {
			return mapError(err)
		}

		payment.ID = ""
		payment.BookingID = id
		payment.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
		paymentID, err := r.payments.Insert(ctx, payment)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		payment.ID = paymentID
		updated = booking
		return nil
	}

	if r.txManager == nil {
		if err := write(ctx); err != nil {
			return nil, err
		}
		return updated, nil
	}

	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return write(sessCtx)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := mongotx.ObjectID(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return mapError(r.bookings.Delete(ctx, bson.M{"_id": oid}))
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongotx.ErrNotFound):
		return bookingserrors.ErrNotFound
	case errors.Is(err, mongotx.ErrDuplicate):
		return fmt.Errorf("%w: %v", bookingserrors.ErrDuplicate, err)
	default:
		return err
	}
}
