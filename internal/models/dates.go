package models

import (
	"fmt"
	"time"
)

// Даты бронирований храним строками YYYY-MM-DD: формат одинаково
// сортируется и сравнивается во всех поддерживаемых СУБД.
const DateLayout = "2006-01-02"

// ParseDate принимает YYYY-MM-DD или полную метку RFC3339,
// нормализует к YYYY-MM-DD (UTC).
func ParseDate(s string) (string, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(DateLayout), nil
	}
	return "", fmt.Errorf("%w: invalid date format: %q", ErrValidation, s)
}
