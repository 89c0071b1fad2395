package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"doctorsportal/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context, *readpref.ReadPref) error {
	return m.err
}

func TestHealthRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{"root greeting", "/", nil, http.StatusOK, "Hello World!"},
		{"liveness ignores database", "/health", errors.New("down"), http.StatusOK, `{"status":"ok"}`},
		{"ready with database", "/ready", nil, http.StatusOK, `{"status":"ready","database":"ok"}`},
		{"not ready without database", "/ready", errors.New("down"), http.StatusServiceUnavailable, `{"status":"unavailable","database":"error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(mockPinger{err: tt.pingErr}, logger.Discard()).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Body.String(); got != tt.wantBody && got != tt.wantBody+"\n" {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
