package entity

import "fmt"

// ScheduleStats summarises occupancy and takings of one departure.
type ScheduleStats struct {
	ScheduledTour   ScheduledTourInfo `json:"scheduled_tour"`
	TotalBookings   int               `json:"total_bookings"`
	GroupBookings   int               `json:"group_bookings"`
	BookedSeats     int               `json:"booked_seats"`
	UtilizationRate float64           `json:"utilization_rate"`
	Revenue         float64           `json:"revenue"`
}

// LedgerStats is the agency-wide summary.
type LedgerStats struct {
	TotalTours          int     `json:"total_tours"`
	TotalScheduledTours int     `json:"total_scheduled_tours"`
	OpenScheduledTours  int     `json:"open_scheduled_tours"`
	TotalCustomers      int     `json:"total_customers"`
	TotalBookings       int     `json:"total_bookings"`
	BookedSeats         int     `json:"booked_seats"`
	Utilization         float64 `json:"utilization"`
	Revenue             float64 `json:"revenue"`
}

// NewScheduleStats aggregates the bookings recorded against schedule.
func NewScheduleStats(schedule *ScheduledTour, bookings []*Booking) *ScheduleStats {
	stats := &ScheduleStats{
		ScheduledTour: schedule.Info(),
		BookedSeats:   schedule.BookedSeats(),
	}
	for _, b := range bookings {
		stats.TotalBookings++
		if b.Kind() == BookingGroup {
			stats.GroupBookings++
		}
		stats.Revenue += b.Cost()
	}
	stats.UtilizationRate = utilization(stats.BookedSeats, schedule.Capacity())
	return stats
}

// Add folds one departure into the agency totals.
func (s *LedgerStats) Add(schedule *ScheduledTour, bookings []*Booking) {
	s.TotalScheduledTours++
	if schedule.IsOpen() {
		s.OpenScheduledTours++
	}
	s.BookedSeats += schedule.BookedSeats()
	s.TotalBookings += len(bookings)
	for _, b := range bookings {
		s.Revenue += b.Cost()
	}
}

// Finish computes the seat utilization across the given total capacity.
func (s *LedgerStats) Finish(totalCapacity int) {
	s.Utilization = utilization(s.BookedSeats, totalCapacity)
}

func utilization(booked, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(booked) / float64(capacity)
}

// IsSoldOut reports whether no seats are left.
func (s *ScheduleStats) IsSoldOut() bool {
	return s.ScheduledTour.SeatsAvailable == 0
}

func (s *ScheduleStats) String() string {
	return fmt.Sprintf("Schedule: %s, Bookings: %d, Seats: %d/%d, Utilization: %.1f%%, Revenue: $%.2f",
		s.ScheduledTour.Code,
		s.TotalBookings,
		s.BookedSeats,
		s.ScheduledTour.Capacity,
		s.UtilizationRate*100,
		s.Revenue,
	)
}
