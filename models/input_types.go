package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Browser forms post numbers as strings ("5", "12.5"). These types take either form.

// TableNumber is the table a QR code points at. "", null and a missing field are the counter (0).
type TableNumber int

func (t *TableNumber) UnmarshalJSON(b []byte) error {
	v, err := looseNumber(b)
	if err != nil {
		return fmt.Errorf("table must be a number: %w", err)
	}
	if v != float64(int(v)) {
		return fmt.Errorf("table must be a whole number")
	}
	*t = TableNumber(v)
	return nil
}

// Amount is a money value submitted as a JSON number or a numeric string.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	if s := bytes.TrimSpace(b); bytes.Equal(s, []byte(`""`)) {
		return fmt.Errorf("amount must be a number")
	}
	v, err := looseNumber(b)
	if err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = Amount(v)
	return nil
}

func looseNumber(b []byte) (float64, error) {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return 0, nil
		}
	}
	return strconv.ParseFloat(s, 64)
}

// DateInput is a date as sent by the client: "2006-01-02" from a date picker or an RFC 3339
// timestamp. It is resolved against the shop's time zone.
type DateInput string

const dayLayout = "2006-01-02"

// Resolve returns the zero time for an empty input. A bare day is midnight in loc.
func (d DateInput) Resolve(loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
