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
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	promoted []string
	profile  map[string]any
}

func (m *mockUserService) Upsert(_ context.Context, email string, profile map[string]any) (*model.UserUpsertResponse, error) {
	m.profile = profile
	return &model.UserUpsertResponse{Result: model.UpsertResult{Acknowledged: true, MatchedCount: 1}, Token: "tok-" + email}, nil
}

func (m *mockUserService) MakeAdmin(_ context.Context, email string) (*model.UpsertResult, error) {
	m.promoted = append(m.promoted, email)
	return &model.UpsertResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockUserService) IsAdmin(_ context.Context, email string) (*model.AdminStatus, error) {
	return &model.AdminStatus{Admin: email == "admin@example.com"}, nil
}

func (m *mockUserService) List(context.Context) ([]model.User, error) {
	return []model.User{{Email: "admin@example.com", Role: "admin"}}, nil
}

type staticRoles map[string]string

func (s staticRoles) Role(_ context.Context, email string) (string, error) {
	return s[email], nil
}

func setup(t *testing.T) (*httprouter.Router, func(method, path, as, body string) *httptest.ResponseRecorder, *mockUserService) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	gate := auth.NewMiddleware(tokens, staticRoles{"admin@example.com": "admin"}, logger.Discard())
	svc := &mockUserService{}

	router := httprouter.New()
	NewUserHandler(svc, gate, logger.Discard()).RegisterRoutes(router)

	do := func(method, path, as, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if as != "" {
			token, err := tokens.Issue(as)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	return router, do, svc
}

func TestUpsert(t *testing.T) {
	_, do, svc := setup(t)

	rec := do(http.MethodPut, "/api/user/ann@example.com", "", `{"name":"Ann"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.UserUpsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok-ann@example.com", resp.Token)
	assert.Equal(t, "Ann", svc.profile["name"])

	rec = do(http.MethodPut, "/api/user/ann@example.com", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, "empty body is allowed")
}

func TestMakeAdmin_BothRoutes(t *testing.T) {
	_, do, svc := setup(t)

	assert.Equal(t, http.StatusForbidden, do(http.MethodPut, "/api/users/admin/bob@example.com", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodPut, "/api/users/admin/bob@example.com", "bob@example.com", "").Code)
	assert.Empty(t, svc.promoted)

	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/api/users/admin/bob@example.com", "admin@example.com", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/user/admin/carol@example.com", "admin@example.com", "").Code)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, svc.promoted)
}

func TestIsAdmin_Public(t *testing.T) {
	_, do, _ := setup(t)

	rec := do(http.MethodGet, "/admin/admin@example.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"admin":true}`, rec.Body.String())

	rec = do(http.MethodGet, "/admin/bob@example.com", "", "")
	assert.JSONEq(t, `{"admin":false}`, rec.Body.String())
}

func TestList_AdminOnly(t *testing.T) {
	_, do, _ := setup(t)

	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/api/users", "bob@example.com", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/users", "admin@example.com", "").Code)
}
