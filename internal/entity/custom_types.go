package entity

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// DateTime is a departure or cancellation moment in the "2006-01-02 15:04" wire format.
type DateTime struct {
	time.Time
}

func ParseDateTime(s string) (DateTime, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return DateTime{}, fmt.Errorf("%w: date-time %q, expected %s", ErrInvalidInput, s, DateTimeLayout)
	}
	return DateTime{Time: t}, nil
}

func (dt *DateTime) UnmarshalJSON(b []byte) error {
	s, err := unquote(b)
	if err != nil {
		return err
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + dt.Format(DateTimeLayout) + `"`), nil
}

// Date is a calendar day such as a date of birth.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q, expected %s", ErrInvalidInput, s, DateLayout)
	}
	return Date{Time: t}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := unquote(b)
	if err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func unquote(b []byte) (string, error) {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return "", fmt.Errorf("%w: expected a quoted string, got %s", ErrInvalidInput, b)
	}
	return string(b[1 : len(b)-1]), nil
}
