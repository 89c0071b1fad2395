//go:build integration

package portal

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"doctorsportal/pkg/client"
	"doctorsportal/pkg/model"
	"doctorsportal/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paginated struct {
	Data       []model.Booking `json:"data"`
	TotalCount int64           `json:"total_count"`
}

func signIn(t *testing.T, c *client.PortalClient, email string) *client.PortalClient {
	t.Helper()

	resp, err := c.SaveUser(context.Background(), email, map[string]any{"name": "Integration User"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var body model.UserUpsertResponse
	require.NoError(t, resp.DecodeJSON(&body))
	require.NotEmpty(t, body.Token)
	return c.WithToken(body.Token)
}

func createBooking(t *testing.T, c *client.PortalClient, booking model.Booking) model.CreateResult {
	t.Helper()

	resp, err := c.CreateBooking(context.Background(), booking)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	var result model.CreateResult
	require.NoError(t, resp.DecodeJSON(&result))
	return result
}

func TestPortal(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, c := env.Setup(t)
	defer env.Cleanup(t, mongo)

	mongo.InsertServices(t, testutil.NewService("Teeth Cleaning"), testutil.NewService("Oral Surgery"))

	t.Run("catalog", func(t *testing.T) { testCatalog(t, c) })
	t.Run("booking and availability", func(t *testing.T) { testBookingFlow(t, c) })
	t.Run("duplicate booking", func(t *testing.T) { testDuplicateBooking(t, c, mongo) })
	t.Run("concurrent duplicates", func(t *testing.T) { testConcurrentDuplicates(t, c, mongo) })
	t.Run("booking identity", func(t *testing.T) { testBookingIdentity(t, c) })
	t.Run("admin", func(t *testing.T) { testAdmin(t, c, mongo) })
}

func testCatalog(t *testing.T, c *client.PortalClient) {
	ctx := context.Background()

	resp, err := c.Services(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var services []model.Service
	require.NoError(t, resp.DecodeJSON(&services))
	assert.Len(t, services, 2)

	resp, err = c.ServiceNames(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []model.ServiceName
	require.NoError(t, resp.DecodeJSON(&names))
	require.Len(t, names, 2)
	assert.NotEmpty(t, names[0].Name)
}

func testBookingFlow(t *testing.T, c *client.PortalClient) {
	ctx := context.Background()
	booking := testutil.NewBookingBuilder().WithDate("June 1, 2026").Build()

	result := createBooking(t, c, booking)
	require.True(t, result.Success)
	require.NotNil(t, result.Result)
	assert.NotEmpty(t, result.Result.InsertedID)

	resp, err := c.Available(ctx, "June 1, 2026")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var available []model.Service
	require.NoError(t, resp.DecodeJSON(&available))
	for _, svc := range available {
		if svc.Name == booking.Treatment {
			assert.NotContains(t, svc.Slots, booking.Slot)
			assert.Len(t, svc.Slots, len(testutil.DefaultSlots)-1)
		} else {
			assert.Len(t, svc.Slots, len(testutil.DefaultSlots))
		}
	}

	resp, err = c.Available(ctx, "June 2, 2026")
	require.NoError(t, err)
	require.NoError(t, resp.DecodeJSON(&available))
	for _, svc := range available {
		assert.Len(t, svc.Slots, len(testutil.DefaultSlots))
	}
}

func testDuplicateBooking(t *testing.T, c *client.PortalClient, mongo *testutil.MongoHelper) {
	booking := testutil.NewBookingBuilder().WithDate("July 1, 2026").Build()
	before := mongo.CountDocuments(t, testutil.BookingsCollection)

	first := createBooking(t, c, booking)
	require.True(t, first.Success)

	second := createBooking(t, c, booking)
	assert.False(t, second.Success)
	require.NotNil(t, second.Booking)
	assert.Equal(t, "July 1, 2026", second.Booking.FormattedDate)

	assert.Equal(t, before+1, mongo.CountDocuments(t, testutil.BookingsCollection))
}

func testConcurrentDuplicates(t *testing.T, c *client.PortalClient, mongo *testutil.MongoHelper) {
	booking := testutil.NewBookingBuilder().WithDate("August 1, 2026").WithUser("Race User", "race@example.com").Build()
	before := mongo.CountDocuments(t, testutil.BookingsCollection)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.CreateBooking(context.Background(), booking)
			if err != nil || resp.StatusCode != http.StatusOK {
				return
			}
			var result model.CreateResult
			if resp.DecodeJSON(&result) == nil && result.Success {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, before+1, mongo.CountDocuments(t, testutil.BookingsCollection))
}

func testBookingIdentity(t *testing.T, c *client.PortalClient) {
	ctx := context.Background()

	resp, err := c.Bookings(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	jane := signIn(t, c, "jane@example.com")
	resp, err = jane.Bookings(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bookings []model.Booking
	require.NoError(t, resp.DecodeJSON(&bookings))
	assert.NotEmpty(t, bookings)
	for _, b := range bookings {
		assert.Equal(t, "jane@example.com", b.Email)
	}

	resp, err = jane.Bookings(ctx, "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, client.GetErrorMessage(resp))
}

func testAdmin(t *testing.T, c *client.PortalClient, mongo *testutil.MongoHelper) {
	ctx := context.Background()

	patient := signIn(t, c, "patient@example.com")
	resp, err := patient.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := signIn(t, c, "admin@example.com")
	mongo.MakeAdmin(t, "admin@example.com")

	resp, err = c.IsAdmin(ctx, "admin@example.com")
	require.NoError(t, err)
	var status model.AdminStatus
	require.NoError(t, resp.DecodeJSON(&status))
	assert.True(t, status.Admin)

	resp, err = admin.MakeAdmin(ctx, "patient@example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	resp, err = patient.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doctor := map[string]any{
		"name":      "Dr. Ada Byron",
		"email":     "ada@clinic.example",
		"specialty": "Oral Surgery",
		"img":       "https://cdn.example.com/ada.png",
	}
	resp, err = admin.CreateDoctor(ctx, doctor)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))

	resp, err = admin.CreateDoctor(ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, client.GetErrorMessage(resp))

	resp, err = admin.DeleteDoctor(ctx, "ada@clinic.example")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = admin.DeleteDoctor(ctx, "ada@clinic.example")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var page paginated
	resp, err = admin.AdminBookings(ctx, 2, 0)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.DecodeJSON(&page))
	assert.LessOrEqual(t, len(page.Data), 2)
	assert.GreaterOrEqual(t, page.TotalCount, int64(3))
}
