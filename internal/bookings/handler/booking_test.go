package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doctorsportal/internal/auth"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingService struct {
	createFunc           func(ctx context.Context, booking *model.Booking) (*model.CreateResult, error)
	listForRequesterFunc func(ctx context.Context, email string) ([]model.Booking, error)
	listAllFunc          func(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error)
	getByIDFunc          func(ctx context.Context, id string) (*model.Booking, error)
	markPaidFunc         func(ctx context.Context, id string, payment *model.BookingPayment) (*model.Booking, error)
	deleteFunc           func(ctx context.Context, id string) error
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) (*model.CreateResult, error) {
	return m.createFunc(ctx, booking)
}

func (m *mockBookingService) ListForRequester(ctx context.Context, email string) ([]model.Booking, error) {
	return m.listForRequesterFunc(ctx, email)
}

func (m *mockBookingService) ListAll(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error) {
	return m.listAllFunc(ctx, limit, offset)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBookingService) MarkPaid(ctx context.Context, id string, payment *model.BookingPayment) (*model.Booking, error) {
	return m.markPaidFunc(ctx, id, payment)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

type staticRoles map[string]string

func (s staticRoles) Role(_ context.Context, email string) (string, error) {
	return s[email], nil
}

const (
	patientEmail = "patient@example.com"
	adminEmail   = "admin@example.com"
)

type fixture struct {
	router *httprouter.Router
	tokens *auth.TokenManager
}

func newFixture(t *testing.T, svc *mockBookingService) *fixture {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	gate := auth.NewMiddleware(tokens, staticRoles{adminEmail: "admin"}, logger.Discard())

	router := httprouter.New()
	NewBookingHandler(svc, gate, logger.Discard()).RegisterRoutes(router)
	return &fixture{router: router, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, as string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		token, err := f.tokens.Issue(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate(t *testing.T) {
	svc := &mockBookingService{createFunc: func(_ context.Context, b *model.Booking) (*model.CreateResult, error) {
		if b.UserName == "dup" {
			return &model.CreateResult{Success: false, Booking: &model.Booking{ID: "first"}}, nil
		}
		return &model.CreateResult{Success: true, Result: &model.InsertResult{Acknowledged: true, InsertedID: "abc"}}, nil
	}}
	f := newFixture(t, svc)

	rec := f.do(t, http.MethodPost, "/api/bookings", "", map[string]any{"userName": "Ann"})
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "abc", created["result"].(map[string]any)["insertedId"])

	rec = f.do(t, http.MethodPost, "/api/bookings", "", map[string]any{"userName": "dup"})
	require.Equal(t, http.StatusOK, rec.Code)
	var dup map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dup))
	assert.Equal(t, false, dup["success"])
	assert.Equal(t, "first", dup["booking"].(map[string]any)["_id"])

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListForRequester(t *testing.T) {
	svc := &mockBookingService{listForRequesterFunc: func(_ context.Context, email string) ([]model.Booking, error) {
		return []model.Booking{{Email: email}}, nil
	}}
	f := newFixture(t, svc)

	tests := []struct {
		name string
		as   string
		want int
	}{
		{"no token", "", http.StatusForbidden},
		{"own bookings", patientEmail, http.StatusOK},
		{"someone else", "other@example.com", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/bookings?email="+patientEmail, tt.as, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListAll_AdminOnly(t *testing.T) {
	svc := &mockBookingService{listAllFunc: func(_ context.Context, limit int, offset int64) ([]model.Booking, int64, error) {
		return []model.Booking{{ID: "1"}}, 1, nil
	}}
	f := newFixture(t, svc)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/admin/bookings", patientEmail, nil).Code)

	rec := f.do(t, http.MethodGet, "/api/admin/bookings?limit=20", adminEmail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page["total_count"])
	assert.EqualValues(t, 20, page["limit"])
}

func TestGetByID(t *testing.T) {
	svc := &mockBookingService{getByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
		if id == "missing" {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return &model.Booking{ID: id, Paid: true, TransactionID: "tx1"}, nil
	}}
	f := newFixture(t, svc)

	rec := f.do(t, http.MethodGet, "/api/bookings/abc", patientEmail, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Paid)
	assert.Equal(t, "tx1", got.TransactionID)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/bookings/missing", patientEmail, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/bookings/abc", "", nil).Code)
}

func TestMarkPaid_KeepsPayload(t *testing.T) {
	var captured *model.BookingPayment
	svc := &mockBookingService{markPaidFunc: func(_ context.Context, id string, p *model.BookingPayment) (*model.Booking, error) {
		captured = p
		return &model.Booking{ID: id, Paid: true, TransactionID: p.TransactionID}, nil
	}}
	f := newFixture(t, svc)

	rec := f.do(t, http.MethodPatch, "/api/bookings/abc", patientEmail, map[string]any{
		"transactionId": "tx1",
		"appointment":   "abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "tx1", captured.TransactionID)
	assert.Equal(t, "abc", captured.Payload["appointment"])
}

func TestDelete_AdminOnly(t *testing.T) {
	deleted := ""
	svc := &mockBookingService{deleteFunc: func(_ context.Context, id string) error {
		deleted = id
		return nil
	}}
	f := newFixture(t, svc)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, "/api/bookings/abc", patientEmail, nil).Code)
	assert.Empty(t, deleted)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/bookings/abc", adminEmail, nil).Code)
	assert.Equal(t, "abc", deleted)
}
