package client

import (
	"context"
	"net/url"
	"strconv"
)

// PortalClient is a thin typed wrapper over the portal HTTP API.
type PortalClient struct {
	httpClient *HttpClient
}

func NewPortalClient(baseURL string) *PortalClient {
	return &PortalClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// WithToken returns a copy of the client that sends the given bearer token.
func (c *PortalClient) WithToken(token string) *PortalClient {
	hc := *c.httpClient
	hc.Token = token
	return &PortalClient{httpClient: &hc}
}

func (c *PortalClient) Services(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/services")
}

func (c *PortalClient) ServiceNames(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/services?fields=name")
}

func (c *PortalClient) Available(ctx context.Context, date string) (*Response, error) {
	q := url.Values{}
	q.Set("date", date)
	return c.httpClient.GET(ctx, "/api/available?"+q.Encode())
}

func (c *PortalClient) CreateBooking(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/bookings", body)
}

func (c *PortalClient) Bookings(ctx context.Context, email string) (*Response, error) {
	q := url.Values{}
	q.Set("email", email)
	return c.httpClient.GET(ctx, "/api/bookings?"+q.Encode())
}

func (c *PortalClient) AdminBookings(ctx context.Context, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.FormatInt(offset, 10))
	return c.httpClient.GET(ctx, "/api/admin/bookings?"+q.Encode())
}

func (c *PortalClient) Booking(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/bookings/"+url.PathEscape(id))
}

func (c *PortalClient) PayBooking(ctx context.Context, id string, payment any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/bookings/"+url.PathEscape(id), payment)
}

func (c *PortalClient) SaveUser(ctx context.Context, email string, profile any) (*Response, error) {
	return c.httpClient.PUT(ctx, "/api/user/"+url.PathEscape(email), profile)
}

func (c *PortalClient) MakeAdmin(ctx context.Context, email string) (*Response, error) {
	return c.httpClient.PUT(ctx, "/api/users/admin/"+url.PathEscape(email), nil)
}

func (c *PortalClient) IsAdmin(ctx context.Context, email string) (*Response, error) {
	return c.httpClient.GET(ctx, "/admin/"+url.PathEscape(email))
}

func (c *PortalClient) Users(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/users")
}

func (c *PortalClient) Doctors(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/doctors")
}

func (c *PortalClient) CreateDoctor(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/doctors", body)
}

func (c *PortalClient) DeleteDoctor(ctx context.Context, email string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/doctors/"+url.PathEscape(email))
}

func (c *PortalClient) CreatePaymentIntent(ctx context.Context, price float64) (*Response, error) {
	return c.httpClient.POST(ctx, "/create-payment-intent", map[string]float64{"price": price})
}
