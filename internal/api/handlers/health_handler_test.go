package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/servicios-app/backend/internal/api/handlers"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := handlers.NewHealthHandler(pingerFunc(func(context.Context) error { return nil }))
	w := httptest.NewRecorder()
	healthy.Health(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())

	down := handlers.NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	w = httptest.NewRecorder()
	down.Health(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
