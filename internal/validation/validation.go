package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"calendar-order-api/internal/calendar"
	"calendar-order-api/internal/models"
)

var (
	uuidRegex  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidateOfferDay checks a single offer day record.
func ValidateOfferDay(day models.OfferDay) error {
	if err := ValidateDateKey(day.Date, "date"); err != nil {
		return err
	}

	if day.Slots < 0 {
		return &ValidationError{
			Field:   "slots",
			Message: "must be non-negative",
		}
	}

	if day.Slots > 1000 {
		return &ValidationError{
			Field:   "slots",
			Message: "cannot exceed 1000",
		}
	}

	return nil
}

// ValidateDateKey checks that s is a canonical YYYY-MM-DD date key.
func ValidateDateKey(s, fieldName string) error {
	if s == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: "is required",
		}
	}

	if _, err := calendar.ParseDateKey(SanitizeString(s)); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: "must be a date in YYYY-MM-DD format",
		}
	}

	return nil
}

// ValidateMonth parses a YYYY-MM month parameter into the first day of that
// month in UTC.
func ValidateMonth(s string) (time.Time, error) {
	s = SanitizeString(s)

	if !monthRegex.MatchString(s) {
		return time.Time{}, &ValidationError{
			Field:   "month",
			Message: "must be in YYYY-MM format",
		}
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "month",
			Message: "is not a valid month",
		}
	}

	return t, nil
}

func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

func ValidateUUID(id, fieldName string) error {
	if id == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: "is required",
		}
	}

	id = SanitizeString(id)

	if !uuidRegex.MatchString(strings.ToLower(id)) {
		return &ValidationError{
			Field:   fieldName,
			Message: "must be a valid UUID v4",
		}
	}

	return nil
}

// ValidateTimeString parses an RFC3339 timestamp parameter.
func ValidateTimeString(timeStr string) (time.Time, error) {
	if timeStr == "" {
		return time.Time{}, &ValidationError{
			Field:   "time",
			Message: "is required",
		}
	}

	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "time",
			Message: "must be a valid RFC3339 timestamp",
		}
	}

	return t, nil
}
