package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"railbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, store pingerFunc, path string) (int, Response) {
	t.Helper()
	router := httprouter.New()
	NewHandler(store, logger.NewNop()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	code, body := serve(t, func(context.Context) error { return errors.New("down") }, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestReady(t *testing.T) {
	code, body := serve(t, func(context.Context) error { return nil }, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Status)

	code, body = serve(t, func(context.Context) error { return errors.New("down") }, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body.Database)
}

func TestReady_BoundsPing(t *testing.T) {
	_, _ = serve(t, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}, "/ready")
}
