// Package models provides domain models for the trading diary.
package models

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
)

// Direction represents the side of a trade.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Validate returns ErrUnknownDirection for anything but buy or sell.
func (d Direction) Validate() error {
	switch d {
	case DirectionBuy, DirectionSell:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownDirection, string(d))
	}
}

// ParseDirection normalizes user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date-time string. Strings without a zone
// offset are read in loc, or time.Local when loc is nil. Trade dates and
// filter date bounds both go through this function so comparisons stay
// consistent.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", apperrors.ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimestamp, s)
}

// FormatTimestamp is the storage form of a timestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
