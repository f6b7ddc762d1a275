package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"railbook/pkg/model"
)

// APIClient groups the railbook endpoints by resource.
type APIClient struct {
	http *HttpClient
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{http: NewHttpClient(baseURL)}
}

// As returns a client that sends the given session token.
func (c *APIClient) As(session *model.Session) *APIClient {
	return &APIClient{http: c.http.WithToken(session.Token)}
}

func (c *APIClient) HTTP() *HttpClient {
	return c.http
}

func (c *APIClient) Register(ctx context.Context, reg *model.Registration) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/accounts", reg)
}

// CreateAccount is the admin-only route that honors reg.Role.
func (c *APIClient) CreateAccount(ctx context.Context, reg *model.Registration) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/admin/accounts", reg)
}

func (c *APIClient) Login(ctx context.Context, userName, password string) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/sessions", model.LoginRequest{UserName: userName, Password: password})
}

func (c *APIClient) Me(ctx context.Context) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/accounts/me")
}

func (c *APIClient) CreateTrain(ctx context.Context, train *model.TrainSchedule) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/trains", train)
}

func (c *APIClient) SearchTrains(ctx context.Context, source, destination string) (*Response, error) {
	q := url.Values{}
	q.Set("source", source)
	q.Set("destination", destination)
	return c.http.GET(ctx, "/api/v1/trains/search?"+q.Encode())
}

func (c *APIClient) GetTrain(ctx context.Context, trainNumber int64) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/trains/number/"+strconv.FormatInt(trainNumber, 10))
}

func (c *APIClient) ListTrains(ctx context.Context, limit int, offset int64) (*Response, error) {
	return c.http.GET(ctx, fmt.Sprintf("/api/v1/trains?limit=%d&offset=%d", limit, offset))
}

func (c *APIClient) Book(ctx context.Context, req *model.BookingRequest) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/bookings", req)
}

func (c *APIClient) ListReservations(ctx context.Context, limit int, offset int64) (*Response, error) {
	return c.http.GET(ctx, fmt.Sprintf("/api/v1/reservations?limit=%d&offset=%d", limit, offset))
}

func (c *APIClient) GetReservation(ctx context.Context, id string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
}

func (c *APIClient) LatestReservation(ctx context.Context, trainNumber int64) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/reservations/latest?train_number="+strconv.FormatInt(trainNumber, 10))
}
