package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/bookings/service"
	apperrors "doctorsportal/pkg/errors"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	gate    *auth.Middleware
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, gate *auth.Middleware, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

// Create answers 200 for both a new booking and a duplicate; Success tells them apart.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking, false); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListForRequester(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")
	if err := auth.RequireSameEmail(r, email); err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, err := h.service.ListForRequester(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForRequester", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// MarkPaid keeps the whole request body as the payment record payload.
func (h *BookingHandler) MarkPaid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	var payment model.BookingPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON body"))
		return
	}
	if err := json.Unmarshal(body, &payment.Payload); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON body"))
		return
	}

	booking, err := h.service.MarkPaid(r.Context(), ps.ByName("id"), &payment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkPaid", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings", h.gate.Authenticate(h.ListForRequester))
	router.GET("/api/admin/bookings", h.gate.RequireAdmin(h.ListAll))
	router.GET("/api/bookings/:id", h.gate.Authenticate(h.GetByID))
	router.PATCH("/api/bookings/:id", h.gate.Authenticate(h.MarkPaid))
	router.DELETE("/api/bookings/:id", h.gate.RequireAdmin(h.Delete))
}
