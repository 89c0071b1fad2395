package handler

import (
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/doctors/service"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DoctorHandler struct {
	service service.DoctorService
	gate    *auth.Middleware
	log     *logger.Logger
}

func NewDoctorHandler(service service.DoctorService, gate *auth.Middleware, log *logger.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	doctors, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, doctors); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doctor model.Doctor
	if err := httputil.DecodeJSON(r, &doctor, false); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), &doctor); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, doctor); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("email")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DoctorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/doctors", h.gate.RequireAdmin(h.List))
	router.POST("/api/doctors", h.gate.RequireAdmin(h.Create))
	router.DELETE("/api/doctors/:email", h.gate.RequireAdmin(h.Delete))
}
