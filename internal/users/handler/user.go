package handler

import (
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/users/service"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	gate    *auth.Middleware
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, gate *auth.Middleware, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile := map[string]any{}
	if err := httputil.DecodeJSON(r, &profile, true); err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp, err := h.service.Upsert(r.Context(), ps.ByName("email"), profile)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Upsert", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.MakeAdmin(r.Context(), ps.ByName("email"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "MakeAdmin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) IsAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status, err := h.service.IsAdmin(r.Context(), ps.ByName("email"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, status); err != nil {
		h.log.Error("failed to write success response", "handler", "IsAdmin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/user/:email", h.Upsert)
	router.PUT("/api/users/admin/:email", h.gate.RequireAdmin(h.MakeAdmin))
	router.PUT("/user/admin/:email", h.gate.RequireAdmin(h.MakeAdmin))
	router.GET("/admin/:email", h.IsAdmin)
	router.GET("/api/users", h.gate.RequireAdmin(h.List))
}
