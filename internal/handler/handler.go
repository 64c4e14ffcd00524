package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"calendar-order-api/internal/gateway"
	"calendar-order-api/internal/models"
	"calendar-order-api/internal/service"
	"calendar-order-api/internal/validation"
)

// Handler provides HTTP handlers for the API.
type Handler struct {
	service     *service.Service
	maxBodySize int64
}

// NewHandlerOptions holds options for creating a handler.
type NewHandlerOptions struct {
	MaxBodySize int64
}

// DefaultHandlerOptions returns default handler options.
func DefaultHandlerOptions() NewHandlerOptions {
	return NewHandlerOptions{
		MaxBodySize: 1 << 20, // 1MB default
	}
}

// NewHandler creates a new handler instance.
func NewHandler(svc *service.Service) *Handler {
	return NewHandlerWithOptions(svc, DefaultHandlerOptions())
}

// NewHandlerWithOptions creates a new handler instance with custom options.
func NewHandlerWithOptions(svc *service.Service, opts NewHandlerOptions) *Handler {
	return &Handler{
		service:     svc,
		maxBodySize: opts.MaxBodySize,
	}
}

// GetMonthGrid handles GET /calendar/{month}
//
// {month} is YYYY-MM. The optional 'today' query parameter overrides the
// wall clock and must be a canonical YYYY-MM-DD date key.
func (h *Handler) GetMonthGrid(w http.ResponseWriter, r *http.Request) {
	month := validation.SanitizeString(chi.URLParam(r, "month"))

	reference, err := validation.ValidateMonth(month)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	today := time.Now().UTC()
	if todayParam := r.URL.Query().Get("today"); todayParam != "" {
		todayParam = validation.SanitizeString(todayParam)
		if err := validation.ValidateDateKey(todayParam, "today"); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid 'today' parameter, must be YYYY-MM-DD")
			return
		}
		today, _ = time.Parse("2006-01-02", todayParam)
	}

	response, err := h.service.MonthGrid(r.Context(), reference, today)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// UpsertOfferDays handles POST /offers/days
func (h *Handler) UpsertOfferDays(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent abuse
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req models.UpsertOfferDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	for i := range req.Days {
		req.Days[i].Date = validation.SanitizeString(req.Days[i].Date)
	}

	upserted, err := h.service.UpsertOfferDays(r.Context(), req.Days)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, models.UpsertOfferDaysResponse{
		Upserted: upserted,
	})
}

// PlaceOrder handles POST /orders
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent abuse
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	req.Date = validation.SanitizeString(req.Date)

	result, err := h.service.PlaceOrder(r.Context(), req.Date, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSelection):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, gateway.ErrSubmissionInFlight):
			h.respondError(w, http.StatusTooManyRequests, "a submission is already in flight")
		default:
			h.respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if result.Outcome == models.OutcomeError {
		// Upstream rejected or unreachable; nothing was persisted.
		h.respondJSON(w, http.StatusBadGateway, result)
		return
	}

	h.respondJSON(w, http.StatusCreated, result)
}

// GetOrder handles GET /orders/{order_id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := validation.SanitizeString(chi.URLParam(r, "order_id"))

	if orderID == "" {
		h.respondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

// respondJSON sends a JSON response with the given status code.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response with the given status code and message.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
