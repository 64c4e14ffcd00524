package models

import (
	"time"

	"calendar-order-api/internal/calendar"
)

// OfferDay marks a single calendar day as having an available offer.
type OfferDay struct {
	Date   string `json:"date"` // canonical YYYY-MM-DD
	Slots  int    `json:"slots"`
	Active bool   `json:"active"`
}

// Order is a placed order for a specific day.
type Order struct {
	ID           string    `json:"id"` // uuid
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	Confirmation string    `json:"confirmation,omitempty"`
	PlacedAt     time.Time `json:"placed_at"` // RFC3339 timestamp
}

// Order statuses.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusForwarded = "forwarded"
)

// CellView is a grid cell plus its resolved style, as sent to the client.
type CellView struct {
	calendar.DayCell
	Style calendar.StyleDescriptor `json:"style"`
}

// MonthGridResponse is the payload for a month grid request.
type MonthGridResponse struct {
	Month string     `json:"month"` // YYYY-MM
	Today string     `json:"today"` // YYYY-MM-DD
	Weeks int        `json:"weeks"`
	Cells []CellView `json:"cells"`
}

// PlaceOrderRequest asks to place an order for a selected day.
type PlaceOrderRequest struct {
	Date string `json:"date"`
}

// SubmissionResult drives the client popup after an order attempt.
type SubmissionResult struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

// Submission outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// UpsertOfferDaysRequest is the request body for publishing offer days.
type UpsertOfferDaysRequest struct {
	Days []OfferDay `json:"days"`
}

// UpsertOfferDaysResponse reports how many offer days were written.
type UpsertOfferDaysResponse struct {
	Upserted int `json:"upserted"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
