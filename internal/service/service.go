package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"calendar-order-api/internal/cache"
	"calendar-order-api/internal/calendar"
	"calendar-order-api/internal/database"
	"calendar-order-api/internal/events"
	"calendar-order-api/internal/features"
	"calendar-order-api/internal/gateway"
	"calendar-order-api/internal/models"
	"calendar-order-api/internal/validation"
)

// ErrInvalidSelection is returned when an order is requested for a day that
// is not selectable: missing, out of the month grid, or without an active
// offer. The mobile client disables the confirm action for such days, so
// hitting this server-side means the request is stale or hand-crafted.
var ErrInvalidSelection = errors.New("selected day has no available offer")

// ErrOrderNotFound is returned when looking up an unknown order id.
var ErrOrderNotFound = errors.New("order not found")

const gridCacheTTL = 5 * time.Minute

// Service provides business logic for the calendar order API.
type Service struct {
	db        *database.DB
	cache     cache.Cache
	events    *events.Manager
	flags     *features.Manager
	submitter gateway.Submitter
	theme     calendar.Theme
}

// Options holds the collaborators a Service is wired with. Cache, Events and
// Submitter may be nil; Flags falls back to an empty manager.
type Options struct {
	Cache     cache.Cache
	Events    *events.Manager
	Flags     *features.Manager
	Submitter gateway.Submitter
	Theme     *calendar.Theme
}

// NewService creates a new service instance.
func NewService(db *database.DB, opts Options) *Service {
	flags := opts.Flags
	if flags == nil {
		flags = features.NewManager()
	}

	theme := calendar.DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	return &Service{
		db:        db,
		cache:     opts.Cache,
		events:    opts.Events,
		flags:     flags,
		submitter: opts.Submitter,
		theme:     theme,
	}
}

// MonthGrid builds the annotated month grid for the month containing
// reference. The offer/order annotation is cached per month; the IsToday
// flag and cell styles depend on the caller's clock and are resolved on
// every request after the cache lookup.
func (s *Service) MonthGrid(ctx context.Context, reference, today time.Time) (models.MonthGridResponse, error) {
	monthKey := reference.Format("2006-01")

	grid, err := s.annotatedGrid(ctx, monthKey, reference)
	if err != nil {
		return models.MonthGridResponse{}, err
	}

	todayKey := calendar.KeyOf(today)
	cells := make([]models.CellView, len(grid.Cells))
	for i, cell := range grid.Cells {
		cell.IsToday = cell.DateKey == todayKey
		cells[i] = models.CellView{
			DayCell: cell,
			Style:   s.theme.ResolveCellStyle(cell, nil),
		}
	}

	if s.events != nil && s.flags.IsEnabled(features.FeatureEventHooksEnabled) {
		s.events.PublishGridViewed(ctx, monthKey, len(cells))
	}

	return models.MonthGridResponse{
		Month: monthKey,
		Today: string(todayKey),
		Weeks: len(cells) / 7,
		Cells: cells,
	}, nil
}

// annotatedGrid returns the offer/order annotated grid for a month, served
// from cache when possible. Cached grids carry IsToday unset so they stay
// valid across day boundaries.
func (s *Service) annotatedGrid(ctx context.Context, monthKey string, reference time.Time) (calendar.MonthGrid, error) {
	cacheable := s.cache != nil && s.flags.IsEnabled(features.FeatureCacheEnabled)

	if cacheable {
		var cached calendar.MonthGrid
		if err := cache.GetJSON(ctx, s.cache, cache.GridKey(monthKey), &cached); err == nil {
			return cached, nil
		}
	}

	grid := calendar.BuildMonthGrid(reference, time.Time{})
	first, last := grid.Bounds()

	offerKeys, err := s.db.OfferKeysInRange(first, last)
	if err != nil {
		return calendar.MonthGrid{}, fmt.Errorf("failed to load offer days: %w", err)
	}

	orderKeys, err := s.db.OrderKeysInRange(first, last)
	if err != nil {
		return calendar.MonthGrid{}, fmt.Errorf("failed to load order days: %w", err)
	}

	grid = calendar.Annotate(grid, calendar.KeySet(offerKeys), calendar.KeySet(orderKeys))

	if cacheable {
		if err := cache.SetJSON(ctx, s.cache, cache.GridKey(monthKey), grid, gridCacheTTL); err != nil {
			log.Printf("Failed to cache grid for %s: %v", monthKey, err)
		}
	}

	return grid, nil
}

// UpsertOfferDays validates and writes a batch of offer days.
func (s *Service) UpsertOfferDays(ctx context.Context, days []models.OfferDay) (int, error) {
	if len(days) == 0 {
		return 0, fmt.Errorf("no offer days provided")
	}

	if len(days) > 366 {
		return 0, fmt.Errorf("cannot process more than 366 offer days per request")
	}

	for i, day := range days {
		if err := validation.ValidateOfferDay(day); err != nil {
			return 0, fmt.Errorf("invalid offer day at index %d: %w", i, err)
		}
	}

	upserted, err := s.db.UpsertOfferDays(days)
	if err != nil {
		return 0, err
	}

	for _, day := range days {
		s.invalidateMonth(ctx, day.Date)
	}

	if s.events != nil && s.flags.IsEnabled(features.FeatureEventHooksEnabled) {
		s.events.PublishOfferDaysUpdated(ctx, days, upserted)
	}

	return upserted, nil
}

// PlaceOrder places an order for the given day. The selection is replayed
// against the month grid: only an in-month day with an active offer is
// orderable, anything else fails with ErrInvalidSelection before the
// gateway is ever contacted.
//
// With submission forwarding enabled, a gateway failure produces an
// error-outcome SubmissionResult and no state change; the client keeps its
// selection and may simply try again.
func (s *Service) PlaceOrder(ctx context.Context, dateStr string, now time.Time) (models.SubmissionResult, error) {
	if err := validation.ValidateDateKey(dateStr, "date"); err != nil {
		return models.SubmissionResult{}, err
	}

	key := calendar.DateKey(dateStr)
	day, err := key.Time()
	if err != nil {
		return models.SubmissionResult{}, err
	}

	grid, err := s.annotatedGrid(ctx, day.Format("2006-01"), day)
	if err != nil {
		return models.SubmissionResult{}, err
	}

	cell, ok := grid.Cell(key)
	if !ok {
		return models.SubmissionResult{}, ErrInvalidSelection
	}

	var sel calendar.Selection
	if !sel.Select(cell) || !sel.IsOrderable(grid) {
		return models.SubmissionResult{}, ErrInvalidSelection
	}

	order := models.Order{
		ID:       uuid.New().String(),
		Date:     dateStr,
		Status:   models.OrderStatusPlaced,
		PlacedAt: now.UTC(),
	}

	if s.submitter != nil && s.flags.IsEnabled(features.FeatureSubmissionForwarding) {
		conf, err := s.submitter.SubmitOrder(ctx, key)
		if err != nil {
			if errors.Is(err, gateway.ErrSubmissionInFlight) {
				return models.SubmissionResult{}, err
			}
			return models.SubmissionResult{
				Outcome: models.OutcomeError,
				Message: gateway.MessageFor(err),
			}, nil
		}
		order.Status = models.OrderStatusForwarded
		order.Confirmation = conf.Reference
	}

	if err := s.db.InsertOrder(order); err != nil {
		return models.SubmissionResult{}, fmt.Errorf("failed to persist order: %w", err)
	}

	s.invalidateMonth(ctx, dateStr)

	if s.events != nil && s.flags.IsEnabled(features.FeatureEventHooksEnabled) {
		s.events.PublishOrderPlaced(ctx, order)
	}

	return models.SubmissionResult{
		Outcome: models.OutcomeSuccess,
		Message: gateway.MessageOrderPlaced,
		Order:   &order,
	}, nil
}

// GetOrder fetches a placed order by id.
func (s *Service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	if err := validation.ValidateUUID(id, "order_id"); err != nil {
		return models.Order{}, err
	}

	order, err := s.db.GetOrder(id)
	if err != nil {
		return models.Order{}, ErrOrderNotFound
	}

	return order, nil
}

// invalidateMonth drops the cached grid for the month containing the given
// date key. Adjacent months can render the same day in their leading or
// trailing week, so both neighbors are dropped too.
func (s *Service) invalidateMonth(ctx context.Context, dateStr string) {
	if s.cache == nil {
		return
	}

	day, err := calendar.DateKey(dateStr).Time()
	if err != nil {
		return
	}

	// Anchor on the 1st so AddDate cannot skip short months.
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, m := range []time.Time{monthStart.AddDate(0, -1, 0), monthStart, monthStart.AddDate(0, 1, 0)} {
		if err := s.cache.Delete(ctx, cache.GridKey(m.Format("2006-01"))); err != nil {
			log.Printf("Failed to invalidate grid cache for %s: %v", m.Format("2006-01"), err)
		}
	}
}
