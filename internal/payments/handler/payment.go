package handler

import (
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/payments/service"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	gateway service.PaymentGateway
	gate    *auth.Middleware
	log     *logger.Logger
}

func NewPaymentHandler(gateway service.PaymentGateway, gate *auth.Middleware, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway: gateway,
		gate:    gate,
		log:     log,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentIntentRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}

	secret, err := h.gateway.CreatePaymentIntent(r.Context(), req.Price)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, model.PaymentIntentResponse{ClientSecret: secret}); err != nil {
		h.log.Error("failed to write success response", "handler", "CreatePaymentIntent", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/create-payment-intent", h.gate.Authenticate(h.CreatePaymentIntent))
}
