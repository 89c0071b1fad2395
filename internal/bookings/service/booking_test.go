package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	bookingserrors "doctorsportal/internal/bookings/errors"
	"doctorsportal/internal/bookings/validator"
	"doctorsportal/pkg/config"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// In-memory repository for testing
// ────────────────────────────────────────────────

type memoryBookingRepository struct {
	mu       sync.Mutex
	seq      int
	bookings []model.Booking
	payments []model.Payment

	createFunc func(ctx context.Context, booking *model.Booking) error
	countFunc  func(ctx context.Context) (int64, error)
}

func (m *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	booking.ID = fmt.Sprintf("%024d", m.seq)
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memoryBookingRepository) find(match func(b model.Booking) bool) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if match(b) {
			found := b
			return &found, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if len(id) != 24 {
		return nil, bookingserrors.ErrInvalidID
	}
	return m.find(func(b model.Booking) bool { return b.ID == id })
}

func (m *memoryBookingRepository) FindDuplicate(ctx context.Context, treatment, date, userName string) (*model.Booking, error) {
	return m.find(func(b model.Booking) bool {
		return b.Treatment == treatment && b.FormattedDate == date && b.UserName == userName
	})
}

func (m *memoryBookingRepository) FindSlotTaken(ctx context.Context, name, date, slot string) (*model.Booking, error) {
	return m.find(func(b model.Booking) bool {
		return b.Name == name && b.FormattedDate == date && b.Slot == slot
	})
}

func (m *memoryBookingRepository) filter(match func(b model.Booking) bool) []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *memoryBookingRepository) FindByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool { return b.Email == email }), nil
}

func (m *memoryBookingRepository) FindByDate(ctx context.Context, date string) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool { return b.FormattedDate == date }), nil
}

func (m *memoryBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]model.Booking, error) {
	all := m.filter(func(model.Booking) bool { return true })
	if offset >= int64(len(all)) {
		return []model.Booking{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func (m *memoryBookingRepository) MarkPaid(ctx context.Context, id string, payment *model.Payment) (*model.Booking, error) {
	if len(id) != 24 {
		return nil, bookingserrors.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Paid = true
			m.bookings[i].TransactionID = payment.TransactionID
			payment.BookingID = id
			payment.ID = fmt.Sprintf("pay-%d", len(m.payments)+1)
			m.payments = append(m.payments, *payment)
			updated := m.bookings[i]
			return &updated, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *memoryBookingRepository) Delete(ctx context.Context, id string) error {
	if len(id) != 24 {
		return bookingserrors.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []model.Booking
}

func (n *recordingNotifier) BookingCreated(_ context.Context, booking model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking)
}

func newTestService(repo *memoryBookingRepository, notifier Notifier, exclusive bool) BookingService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:                    log,
		ReadTimeout:            5 * time.Second,
		EnforceSlotExclusivity: exclusive,
	}
	return NewBookingService(repo, validator.NewBookingValidator(log), notifier, cfg)
}

func newBooking() *model.Booking {
	return &model.Booking{
		Treatment:     "Teeth Cleaning",
		FormattedDate: "May 14, 2022",
		Slot:          "08.00 AM - 08.30 AM",
		UserName:      "Ann Smith",
		Email:         "Ann@Example.com",
		Price:         25,
	}
}

func statusOf(err error) int {
	return apperrors.AsAppError(err).StatusCode()
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_DuplicateReturnsStoredBooking(t *testing.T) {
	repo := &memoryBookingRepository{}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier, false)
	ctx := context.Background()

	first, err := svc.Create(ctx, newBooking())
	require.NoError(t, err)
	require.True(t, first.Success)
	require.NotNil(t, first.Result)
	assert.True(t, first.Result.Acknowledged)
	assert.NotEmpty(t, first.Result.InsertedID)

	second, err := svc.Create(ctx, newBooking())
	require.NoError(t, err)
	assert.False(t, second.Success)
	require.NotNil(t, second.Booking)
	assert.Equal(t, first.Result.InsertedID, second.Booking.ID)

	assert.Len(t, repo.bookings, 1)
	assert.Len(t, notifier.bookings, 1, "duplicates must not notify")
}

func TestCreate_DedupKeyOnlyBody(t *testing.T) {
	repo := &memoryBookingRepository{}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier, true)
	ctx := context.Background()

	body := func() *model.Booking {
		return &model.Booking{Treatment: "Cleaning", FormattedDate: "2024-01-01", UserName: "A"}
	}

	first, err := svc.Create(ctx, body())
	require.NoError(t, err)
	require.True(t, first.Success)
	require.NotNil(t, first.Result)
	assert.NotEmpty(t, first.Result.InsertedID)

	second, err := svc.Create(ctx, body())
	require.NoError(t, err)
	assert.False(t, second.Success)
	require.NotNil(t, second.Booking)
	assert.Equal(t, first.Result.InsertedID, second.Booking.ID)
	assert.Equal(t, "Cleaning", second.Booking.Name)

	other := body()
	other.UserName = "B"
	third, err := svc.Create(ctx, other)
	require.NoError(t, err)
	assert.True(t, third.Success, "an empty slot never blocks another user")

	assert.Len(t, repo.bookings, 2)
	assert.Empty(t, notifier.bookings, "no recipient, no confirmation")
}

func TestCreate_Sanitizes(t *testing.T) {
	repo := &memoryBookingRepository{}
	svc := newTestService(repo, nil, false)

	b := newBooking()
	b.UserName = "  Ann    Smith "
	b.Phone = "(201) 555-0123"

	_, err := svc.Create(context.Background(), b)
	require.NoError(t, err)

	stored := repo.bookings[0]
	assert.Equal(t, "Ann Smith", stored.UserName)
	assert.Equal(t, "ann@example.com", stored.Email)
	assert.Equal(t, "+12015550123", stored.Phone)
	assert.Equal(t, "Teeth Cleaning", stored.Name, "name defaults to treatment")
}

func TestCreate_ValidationError(t *testing.T) {
	svc := newTestService(&memoryBookingRepository{}, nil, false)

	b := newBooking()
	b.Email = "nope"
	_, err := svc.Create(context.Background(), b)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))
	assert.Contains(t, apperrors.AsAppError(err).Details, "email")
}

func TestCreate_SlotExclusivity(t *testing.T) {
	ctx := context.Background()
	other := newBooking()
	other.UserName = "Bob Jones"
	other.Treatment = "Teeth Cleaning"

	t.Run("off allows two users on the same slot", func(t *testing.T) {
		svc := newTestService(&memoryBookingRepository{}, nil, false)
		_, err := svc.Create(ctx, newBooking())
		require.NoError(t, err)

		o := *other
		res, err := svc.Create(ctx, &o)
		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("on rejects a taken slot", func(t *testing.T) {
		svc := newTestService(&memoryBookingRepository{}, nil, true)
		_, err := svc.Create(ctx, newBooking())
		require.NoError(t, err)

		o := *other
		res, err := svc.Create(ctx, &o)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Ann Smith", res.Booking.UserName)
	})
}

func TestCreate_DuplicateKeyRace(t *testing.T) {
	repo := &memoryBookingRepository{}
	winner := newBooking()
	winner.ID = fmt.Sprintf("%024d", 99)
	winner.UserName = "Ann Smith"
	winner.Name = winner.Treatment
	winner.Email = "ann@example.com"

	repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		// The concurrent request lands between the check and the insert.
		repo.mu.Lock()
		repo.bookings = append(repo.bookings, *winner)
		repo.mu.Unlock()
		return fmt.Errorf("%w: E11000", bookingserrors.ErrDuplicate)
	}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier, false)

	res, err := svc.Create(context.Background(), newBooking())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, winner.ID, res.Booking.ID)
	assert.Empty(t, notifier.bookings)
}

func TestCreate_StoreFailure(t *testing.T) {
	repo := &memoryBookingRepository{
		createFunc: func(context.Context, *model.Booking) error { return errors.New("mongo down") },
	}
	svc := newTestService(repo, nil, false)

	_, err := svc.Create(context.Background(), newBooking())
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

// ────────────────────────────────────────────────
// Tests for MarkPaid() and GetByID()
// ────────────────────────────────────────────────

func TestMarkPaid_ThenGetShowsPaid(t *testing.T) {
	repo := &memoryBookingRepository{}
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking())
	require.NoError(t, err)
	id := created.Result.InsertedID

	updated, err := svc.MarkPaid(ctx, id, &model.BookingPayment{
		TransactionID: " tx1 ",
		Payload:       map[string]any{"transactionId": "tx1", "price": 25.0},
	})
	require.NoError(t, err)
	assert.True(t, updated.Paid)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, "tx1", got.TransactionID)

	require.Len(t, repo.payments, 1)
	assert.Equal(t, id, repo.payments[0].BookingID)
	assert.Equal(t, 25.0, repo.payments[0].Payload["price"])
}

func TestMarkPaid_Errors(t *testing.T) {
	svc := newTestService(&memoryBookingRepository{}, nil, false)
	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, fmt.Sprintf("%024d", 1), &model.BookingPayment{})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))

	_, err = svc.MarkPaid(ctx, "short", &model.BookingPayment{TransactionID: "tx"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.MarkPaid(ctx, fmt.Sprintf("%024d", 1), &model.BookingPayment{TransactionID: "tx"})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestGetByID_Errors(t *testing.T) {
	svc := newTestService(&memoryBookingRepository{}, nil, false)

	_, err := svc.GetByID(context.Background(), "")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.GetByID(context.Background(), fmt.Sprintf("%024d", 7))
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

// ────────────────────────────────────────────────
// Tests for listing and Delete()
// ────────────────────────────────────────────────

func TestListForRequester_OnlyOwnBookings(t *testing.T) {
	svc := newTestService(&memoryBookingRepository{}, nil, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, newBooking())
	require.NoError(t, err)
	other := newBooking()
	other.UserName = "Bob"
	other.Email = "bob@example.com"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	got, err := svc.ListForRequester(ctx, "ANN@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ann@example.com", got[0].Email)

	_, err = svc.ListForRequester(ctx, " ")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestListAll_ConcurrentAccess(t *testing.T) {
	repo := &memoryBookingRepository{}
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b := newBooking()
		b.UserName = fmt.Sprintf("User %d", i)
		_, err := svc.Create(ctx, b)
		require.NoError(t, err)
	}

	bookings, total, err := svc.ListAll(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.Equal(t, int64(3), total)

	repo.countFunc = func(context.Context) (int64, error) { return 0, errors.New("count failed") }
	_, _, err = svc.ListAll(ctx, 2, 0)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

func TestDelete(t *testing.T) {
	repo := &memoryBookingRepository{}
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.Result.InsertedID))
	assert.Empty(t, repo.bookings)

	err = svc.Delete(ctx, created.Result.InsertedID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
