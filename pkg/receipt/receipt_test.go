package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	departure := time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC)
	info := entity.BookingInfo{
		ID:     7,
		Kind:   entity.BookingIndividual,
		Single: true,
		ScheduledTour: entity.ScheduledTourInfo{
			Code: "JPHA08-PEAK", TourName: "Hokkaido", Duration: "8 days 7 nights",
			Departure: departure, Cost: 1150,
		},
		Customers: []entity.Customer{{Passport: "E2000444N", Name: "Ann Lee"}},
		Seats:     1,
		UnitCost:  1150,
		Cost:      1725,
	}

	tests := []struct {
		name   string
		cancel *Cancellation
	}{
		{name: "without cancellation quote"},
		{name: "with cancellation quote", cancel: &Cancellation{LeadDays: 10, PenaltyRate: 0.6, Penalty: 1035, Refund: 690}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(info, tt.cancel, departure.AddDate(0, 0, -10))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestRender_NonLatinText(t *testing.T) {
	departure := time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC)
	info := entity.BookingInfo{
		ID:   8,
		Kind: entity.BookingGroup,
		ScheduledTour: entity.ScheduledTourInfo{
			Code: "ALPS10-STD", TourName: "Zürich – Genève", Duration: "10 days",
			Departure: departure, Cost: 1000, Language: "Français",
		},
		Customers: []entity.Customer{
			{Passport: "X1", Name: "Zoë Müller"},
			{Passport: "X2", Name: "Søren Ødegård"},
			{Passport: "X3", Name: "Иван Петров"},
		},
		Seats:    3,
		UnitCost: 1000,
		Cost:     3000,
	}

	out, err := Render(info, nil, departure.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "booking-42.pdf", Filename(42))
}
