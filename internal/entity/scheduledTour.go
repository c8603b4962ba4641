package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type PricingKind string

const (
	PricingStandard PricingKind = "standard"
	PricingPeak     PricingKind = "peak"
)

const (
	PeakSurcharge     = 0.15
	PeakPenaltyOffset = 0.10
	MaxPenaltyRate    = 1.0
)

// pricing holds the only parameters in which the departure kinds differ.
type pricing struct {
	surcharge     float64
	penaltyOffset float64
}

var pricingRules = map[PricingKind]pricing{
	PricingStandard: {},
	PricingPeak:     {surcharge: PeakSurcharge, penaltyOffset: PeakPenaltyOffset},
}

// penaltySchedule is ordered by descending lead time; anything below the last
// bucket forfeits the full cost.
var penaltySchedule = []struct {
	minDays int
	rate    float64
}{
	{minDays: 46, rate: 0.10},
	{minDays: 15, rate: 0.25},
	{minDays: 8, rate: 0.50},
}

func (k PricingKind) Valid() bool {
	_, ok := pricingRules[k]
	return ok
}

// ScheduledTour is a bookable departure of a Tour.
// Invariant: 0 <= seatsAvailable <= capacity. BookSeats and CancelSeats are the only mutators.
type ScheduledTour struct {
	tour           *Tour
	scheduleCode   string
	departure      time.Time
	language       string
	capacity       int
	seatsAvailable int
	open           bool
	kind           PricingKind
}

// NewScheduledTour creates an open departure with every seat available.
func NewScheduledTour(tour *Tour, scheduleCode string, departure time.Time, language string, capacity int, kind PricingKind) (*ScheduledTour, error) {
	if tour == nil {
		return nil, fmt.Errorf("%w: tour is required", ErrInvalidSchedule)
	}
	scheduleCode = strings.TrimSpace(scheduleCode)
	if scheduleCode == "" {
		return nil, fmt.Errorf("%w: schedule code is required", ErrInvalidSchedule)
	}
	if departure.IsZero() {
		return nil, fmt.Errorf("%w: departure date is required", ErrInvalidSchedule)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalidSchedule, capacity)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown pricing kind %q", ErrInvalidSchedule, kind)
	}

	return &ScheduledTour{
		tour:           tour,
		scheduleCode:   scheduleCode,
		departure:      departure,
		language:       strings.TrimSpace(language),
		capacity:       capacity,
		seatsAvailable: capacity,
		open:           true,
		kind:           kind,
	}, nil
}

// ScheduleCode joins a tour code and a departure code into the external identifier.
func ScheduleCode(tourCode, scheduleCode string) string {
	return tourCode + "-" + scheduleCode
}

func (s *ScheduledTour) Code() string {
	return ScheduleCode(s.tour.Code, s.scheduleCode)
}

func (s *ScheduledTour) Tour() *Tour { return s.tour }
func (s *ScheduledTour) Departure() time.Time { return s.departure }
func (s *ScheduledTour) Language() string { return s.language }
func (s *ScheduledTour) Capacity() int { return s.capacity }
func (s *ScheduledTour) SeatsAvailable() int { return s.seatsAvailable }
func (s *ScheduledTour) BookedSeats() int { return s.capacity - s.seatsAvailable }
func (s *ScheduledTour) Kind() PricingKind { return s.kind }
func (s *ScheduledTour) IsOpen() bool { return s.open }
func (s *ScheduledTour) Departed(now time.Time) bool { return !now.Before(s.departure) }

// SetStatus opens or closes the departure for new bookings.
func (s *ScheduledTour) SetStatus(open bool) {
	s.open = open
}

// BookSeats takes n seats or fails without changing state.
func (s *ScheduledTour) BookSeats(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSeatCount, n)
	}
	if n > s.seatsAvailable {
		return fmt.Errorf("%w: requested %d, available %d", ErrNotEnoughSeats, n, s.seatsAvailable)
	}
	s.seatsAvailable -= n
	return nil
}

// CancelSeats gives n seats back or fails without changing state.
func (s *ScheduledTour) CancelSeats(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSeatCount, n)
	}
	if s.seatsAvailable+n > s.capacity {
		return fmt.Errorf("%w: releasing %d, booked %d", ErrSeatReleaseExceeded, n, s.BookedSeats())
	}
	s.seatsAvailable += n
	return nil
}

// CanRemove reports whether the departure has no outstanding bookings.
func (s *ScheduledTour) CanRemove() bool {
	return s.seatsAvailable == s.capacity
}

// Cost is the per-seat price of this departure.
func (s *ScheduledTour) Cost() float64 {
	return s.tour.BaseCost * (1 + pricingRules[s.kind].surcharge)
}

// LeadDays returns the whole days from at until departure, rounded down.
func (s *ScheduledTour) LeadDays(at time.Time) int {
	const day = 24 * time.Hour
	lead := s.departure.Sub(at)
	days := lead / day
	if lead%day != 0 && lead < 0 {
		days--
	}
	return int(days)
}

// PenaltyRate is the share of the booking cost forfeited when cancelling at the given moment.
func (s *ScheduledTour) PenaltyRate(at time.Time) float64 {
	rate := MaxPenaltyRate
	lead := s.LeadDays(at)
	for _, bucket := range penaltySchedule {
		if lead >= bucket.minDays {
			rate = bucket.rate
			break
		}
	}
	return math.Min(rate+pricingRules[s.kind].penaltyOffset, MaxPenaltyRate)
}

// Info returns a read-only snapshot of the departure.
func (s *ScheduledTour) Info() ScheduledTourInfo {
	return ScheduledTourInfo{
		Code:           s.Code(),
		TourCode:       s.tour.Code,
		TourName:       s.tour.Name,
		Duration:       s.tour.DaysNights(),
		Departure:      s.departure,
		Language:       s.language,
		Capacity:       s.capacity,
		SeatsAvailable: s.seatsAvailable,
		Open:           s.open,
		Kind:           s.kind,
		BaseCost:       s.tour.BaseCost,
		Cost:           s.Cost(),
	}
}

func (s *ScheduledTour) String() string {
	status := "No"
	if s.open {
		status = "Yes"
	}
	return fmt.Sprintf("Name: %s (%s) Base Cost: $%.2f\nCode: %s Departure: %s Language: %s\nCapacity: %d Available: %d Open: %s",
		s.tour.Name, s.tour.DaysNights(), s.tour.BaseCost,
		s.Code(), s.departure.Format("02-Jan-2006 15:04"), s.language,
		s.capacity, s.seatsAvailable, status)
}

// ScheduledTourInfo is what callers outside the ledger get to see of a departure.
type ScheduledTourInfo struct {
	Code           string      `json:"code"`
	TourCode       string      `json:"tour_code"`
	TourName       string      `json:"tour_name"`
	Duration       string      `json:"duration"`
	Departure      time.Time   `json:"departure"`
	Language       string      `json:"language"`
	Capacity       int         `json:"capacity"`
	SeatsAvailable int         `json:"seats_available"`
	Open           bool        `json:"open"`
	Kind           PricingKind `json:"kind"`
	BaseCost       float64     `json:"base_cost"`
	Cost           float64     `json:"cost"`
}
