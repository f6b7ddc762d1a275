package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "railbook/pkg/errors"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"
	"railbook/pkg/sealer"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTrainService struct {
	searchFunc func(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error)
	getFunc    func(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error)
	createFunc func(ctx context.Context, train *model.TrainSchedule) error
	listFunc   func(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, int64, error)
}

func (m *mockTrainService) SearchRoutes(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, source, destination)
	}
	return []*model.TrainSchedule{}, nil
}

func (m *mockTrainService) GetSchedule(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, trainNumber)
	}
	return &model.TrainSchedule{TrainNumber: trainNumber}, nil
}

func (m *mockTrainService) DecrementSeats(ctx context.Context, trainNumber int64, count int) error {
	return nil
}

func (m *mockTrainService) CreateSchedule(ctx context.Context, train *model.TrainSchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, train)
	}
	return nil
}

func (m *mockTrainService) ListSchedules(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*model.TrainSchedule{}, 0, nil
}

func newTestRouter(t *testing.T, svc *mockTrainService) (*httprouter.Router, *middleware.Authenticator) {
	t.Helper()
	key, err := sealer.GenerateKey()
	require.NoError(t, err)
	s, err := sealer.New(key)
	require.NoError(t, err)

	log := logger.NewNop()
	auth := middleware.NewAuthenticator(s, time.Hour, log)
	router := httprouter.New()
	NewTrainHandler(svc, auth, log).RegisterRoutes(router)
	return router, auth
}

func bearer(t *testing.T, auth *middleware.Authenticator, role string) string {
	t.Helper()
	session, err := auth.Issue(1, role)
	require.NoError(t, err)
	return "Bearer " + session.Token
}

func TestSearch(t *testing.T) {
	var gotSource, gotDestination string
	svc := &mockTrainService{
		searchFunc: func(_ context.Context, source, destination string) ([]*model.TrainSchedule, error) {
			gotSource, gotDestination = source, destination
			return []*model.TrainSchedule{{TrainNumber: 101, Source: source, Destination: destination}}, nil
		},
	}
	router, _ := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trains/search?source=NYC&destination=BOS", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NYC", gotSource)
	assert.Equal(t, "BOS", gotDestination)

	var body struct {
		Data []model.TrainSchedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(101), body.Data[0].TrainNumber)
}

func TestGetByNumber(t *testing.T) {
	svc := &mockTrainService{
		getFunc: func(_ context.Context, trainNumber int64) (*model.TrainSchedule, error) {
			if trainNumber == 101 {
				return &model.TrainSchedule{TrainNumber: 101}, nil
			}
			return nil, apperrors.NotFoundWithID("Train", trainNumber)
		},
	}
	router, _ := newTestRouter(t, svc)

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/api/v1/trains/number/101", http.StatusOK},
		{"/api/v1/trains/number/202", http.StatusNotFound},
		{"/api/v1/trains/number/abc", http.StatusBadRequest},
		{"/api/v1/trains/number/-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	created := false
	svc := &mockTrainService{
		createFunc: func(context.Context, *model.TrainSchedule) error {
			created = true
			return nil
		},
	}
	router, auth := newTestRouter(t, svc)
	body := `{"train_number":101,"source":"NYC","destination":"BOS","schedule_date":"2026-11-01","seats_available":5}`

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"passenger", bearer(t, auth, model.RolePassenger), http.StatusForbidden},
		{"admin", bearer(t, auth, model.RoleAdmin), http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created = false
			req := httptest.NewRequest(http.MethodPost, "/api/v1/trains", strings.NewReader(body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusCreated, created)
		})
	}
}

func TestGetAll_Pagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	svc := &mockTrainService{
		listFunc: func(_ context.Context, limit int, offset int64) ([]*model.TrainSchedule, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.TrainSchedule{}, 42, nil
		},
	}
	router, _ := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trains?limit=5&offset=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, int64(10), gotOffset)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["total_count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trains?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
