package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var departure = time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC)

func newTestTour(t *testing.T, baseCost float64) *Tour {
	t.Helper()
	tour, err := NewTour("JPHA08", "Hokkaido Winter Wonderland", 8, 7, baseCost)
	require.NoError(t, err)
	return tour
}

func newTestSchedule(t *testing.T, capacity int, kind PricingKind) *ScheduledTour {
	t.Helper()
	st, err := NewScheduledTour(newTestTour(t, 1000), "250301", departure, "English", capacity, kind)
	require.NoError(t, err)
	return st
}

func TestNewScheduledTour(t *testing.T) {
	tour := newTestTour(t, 1000)

	tests := []struct {
		name     string
		tour     *Tour
		code     string
		capacity int
		kind     PricingKind
		wantErr  bool
	}{
		{name: "standard departure", tour: tour, code: "250301", capacity: 20, kind: PricingStandard},
		{name: "peak departure", tour: tour, code: "251220", capacity: 1, kind: PricingPeak},
		{name: "missing tour", tour: nil, code: "250301", capacity: 20, kind: PricingStandard, wantErr: true},
		{name: "blank schedule code", tour: tour, code: "  ", capacity: 20, kind: PricingStandard, wantErr: true},
		{name: "zero capacity", tour: tour, code: "250301", capacity: 0, kind: PricingStandard, wantErr: true},
		{name: "unknown pricing", tour: tour, code: "250301", capacity: 20, kind: "festive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewScheduledTour(tt.tour, tt.code, departure, "English", tt.capacity, tt.kind)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				assert.Nil(t, st)
				return
			}
			require.NoError(t, err)
			assert.True(t, st.IsOpen())
			assert.Equal(t, tt.capacity, st.SeatsAvailable())
			assert.Equal(t, "JPHA08-"+tt.code, st.Code())
		})
	}
}

func TestScheduledTour_BookAndCancelSeats(t *testing.T) {
	st := newTestSchedule(t, 5, PricingStandard)

	require.NoError(t, st.BookSeats(3))
	assert.Equal(t, 2, st.SeatsAvailable())
	assert.Equal(t, 3, st.BookedSeats())
	assert.False(t, st.CanRemove())

	// Превышение вместимости не меняет состояние
	err := st.BookSeats(3)
	assert.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.Equal(t, 2, st.SeatsAvailable())

	err = st.CancelSeats(4)
	assert.ErrorIs(t, err, ErrSeatReleaseExceeded)
	assert.Equal(t, 2, st.SeatsAvailable())

	require.NoError(t, st.CancelSeats(3))
	assert.Equal(t, 5, st.SeatsAvailable())
	assert.True(t, st.CanRemove())
}

func TestScheduledTour_SeatCountMustBePositive(t *testing.T) {
	st := newTestSchedule(t, 5, PricingStandard)

	for _, n := range []int{0, -1} {
		assert.ErrorIs(t, st.BookSeats(n), ErrInvalidSeatCount)
		assert.ErrorIs(t, st.CancelSeats(n), ErrInvalidSeatCount)
	}
	assert.Equal(t, 5, st.SeatsAvailable())
}

func TestScheduledTour_BookExactlyRemaining(t *testing.T) {
	st := newTestSchedule(t, 2, PricingStandard)

	require.NoError(t, st.BookSeats(2))
	assert.Equal(t, 0, st.SeatsAvailable())
	assert.ErrorIs(t, st.BookSeats(1), ErrNotEnoughSeats)
}

func TestScheduledTour_SetStatus(t *testing.T) {
	st := newTestSchedule(t, 5, PricingPeak)

	st.SetStatus(false)
	assert.False(t, st.IsOpen())
	st.SetStatus(true)
	assert.True(t, st.IsOpen())
}

func TestScheduledTour_Cost(t *testing.T) {
	assert.InDelta(t, 1000.0, newTestSchedule(t, 5, PricingStandard).Cost(), 1e-9)
	assert.InDelta(t, 1150.0, newTestSchedule(t, 5, PricingPeak).Cost(), 1e-9)
}

func TestScheduledTour_LeadDays(t *testing.T) {
	st := newTestSchedule(t, 5, PricingStandard)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{name: "exactly ten days", at: departure.AddDate(0, 0, -10), want: 10},
		{name: "partial day rounds down", at: departure.Add(-36 * time.Hour), want: 1},
		{name: "less than a day", at: departure.Add(-time.Hour), want: 0},
		{name: "at departure", at: departure, want: 0},
		{name: "after departure", at: departure.Add(2 * time.Hour), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.LeadDays(tt.at))
		})
	}
}

func TestScheduledTour_PenaltyRate(t *testing.T) {
	standard := newTestSchedule(t, 5, PricingStandard)
	peak := newTestSchedule(t, 5, PricingPeak)

	tests := []struct {
		lead     int
		standard float64
		peak     float64
	}{
		{lead: 60, standard: 0.10, peak: 0.20},
		{lead: 46, standard: 0.10, peak: 0.20},
		{lead: 45, standard: 0.25, peak: 0.35},
		{lead: 15, standard: 0.25, peak: 0.35},
		{lead: 14, standard: 0.50, peak: 0.60},
		{lead: 8, standard: 0.50, peak: 0.60},
		{lead: 7, standard: 1.00, peak: 1.00},
		{lead: 1, standard: 1.00, peak: 1.00},
		{lead: 0, standard: 1.00, peak: 1.00},
		{lead: -3, standard: 1.00, peak: 1.00},
	}

	for _, tt := range tests {
		at := departure.AddDate(0, 0, -tt.lead)
		assert.InDelta(t, tt.standard, standard.PenaltyRate(at), 1e-9, "standard, lead %d", tt.lead)
		assert.InDelta(t, tt.peak, peak.PenaltyRate(at), 1e-9, "peak, lead %d", tt.lead)
		assert.LessOrEqual(t, peak.PenaltyRate(at), MaxPenaltyRate)
	}
}

func TestScheduledTour_Info(t *testing.T) {
	st := newTestSchedule(t, 5, PricingPeak)
	require.NoError(t, st.BookSeats(2))

	info := st.Info()
	assert.Equal(t, "JPHA08-250301", info.Code)
	assert.Equal(t, "8D/7N", info.Duration)
	assert.Equal(t, 3, info.SeatsAvailable)
	assert.Equal(t, PricingPeak, info.Kind)
	assert.InDelta(t, 1150.0, info.Cost, 1e-9)

	// Снимок не связан с живым состоянием
	require.NoError(t, st.BookSeats(1))
	assert.Equal(t, 3, info.SeatsAvailable)
}
