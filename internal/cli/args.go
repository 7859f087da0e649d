package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/user/streamcat/internal/store"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var timeLayouts = []string{dateTimeLayout, "2006-01-02T15:04:05", time.RFC3339}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", store.ErrValidation, name, s)
	}
	return v, nil
}

// optional maps an empty argument to an absent value
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD), got %q", store.ErrValidation, name, s)
	}
	return &t, nil
}

// parseTime accepts a timestamp or a bare date. A bare date is midnight UTC,
// for either bound of a window.
func parseTime(name, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a timestamp (YYYY-MM-DD HH:MM:SS), got %q", store.ErrValidation, name, s)
	}
	return t, nil
}
