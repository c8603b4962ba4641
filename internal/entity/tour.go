package entity

import (
	"fmt"
	"strings"
)

// Tour is an immutable catalog entry. Scheduled departures read it, never change it.
type Tour struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Days     int     `json:"days"`
	Nights   int     `json:"nights"`
	BaseCost float64 `json:"base_cost"`
}

func NewTour(code, name string, days, nights int, baseCost float64) (*Tour, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: tour code is required", ErrInvalidTour)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: tour name is required", ErrInvalidTour)
	}
	if days < 1 || nights < 0 {
		return nil, fmt.Errorf("%w: duration %dD/%dN", ErrInvalidTour, days, nights)
	}
	if baseCost < 0 {
		return nil, fmt.Errorf("%w: base cost cannot be negative", ErrInvalidTour)
	}

	return &Tour{
		Code:     code,
		Name:     strings.TrimSpace(name),
		Days:     days,
		Nights:   nights,
		BaseCost: baseCost,
	}, nil
}

// DaysNights formats the duration as "8D/7N".
func (t *Tour) DaysNights() string {
	return fmt.Sprintf("%dD/%dN", t.Days, t.Nights)
}

func (t *Tour) String() string {
	return fmt.Sprintf("Tour Code: %s Name: %s (%s) Base Cost: $%.2f",
		t.Code, t.Name, t.DaysNights(), t.BaseCost)
}
