package utils

import (
	"strings"
	"time"

	apperrors "vitalog/internal/errors"
)

// DateKeyLayout is the canonical day key for log documents.
const DateKeyLayout = "2006-01-02"

// Today returns the current UTC date key.
func Today() string {
	return time.Now().UTC().Format(DateKeyLayout)
}

// NormalizeDate validates a day key and returns its canonical form.
func NormalizeDate(date string) (string, error) {
	trimmed := strings.TrimSpace(date)
	t, err := time.Parse(DateKeyLayout, trimmed)
	if err != nil {
		return "", apperrors.New(apperrors.ErrorTypeValidation, "BAD_DATE", "Date must be formatted as YYYY-MM-DD").
			WithContext("date", date)
	}
	return t.Format(DateKeyLayout), nil
}
