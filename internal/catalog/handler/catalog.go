package handler

import (
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/catalog/service"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service service.CatalogService
	gate    *auth.Middleware
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, gate *auth.Middleware, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

// List serves full documents, or only names with ?fields=name.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var (
		data any
		err  error
	)
	if r.URL.Query().Get("fields") == "name" {
		data, err = h.service.ListNames(r.Context())
	} else {
		data, err = h.service.List(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var svc model.Service
	if err := httputil.DecodeJSON(r, &svc, false); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), &svc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, svc); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/services", h.List)
	router.POST("/api/services", h.gate.RequireAdmin(h.Create))
}
