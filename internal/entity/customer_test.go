package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_Age(t *testing.T) {
	c, err := NewCustomer("E2000444N", "Tan Ah Kow", time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), "98765432")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "day before birthday", now: time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC), want: 35},
		{name: "on birthday", now: time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), want: 36},
		{name: "earlier month", now: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), want: 35},
		{name: "later month", now: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), want: 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Age(tt.now))
		})
	}
}

func TestNewCustomer_Validation(t *testing.T) {
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	_, err := NewCustomer(" ", "Name", dob, "")
	assert.ErrorIs(t, err, ErrInvalidCustomer)
	_, err = NewCustomer("E1", "", dob, "")
	assert.ErrorIs(t, err, ErrInvalidCustomer)
	_, err = NewCustomer("E1", "Name", time.Time{}, "")
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	c, err := NewCustomer(" E1 ", " Name ", dob, " 123 ")
	require.NoError(t, err)
	assert.Equal(t, "E1", c.Passport)
	assert.Equal(t, "Name", c.Name)
	assert.Equal(t, "123", c.Contact)
}

func TestNewTour_Validation(t *testing.T) {
	_, err := NewTour("", "Name", 8, 7, 100)
	assert.ErrorIs(t, err, ErrInvalidTour)
	_, err = NewTour("T1", "Name", 0, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidTour)
	_, err = NewTour("T1", "Name", 8, 7, -1)
	assert.ErrorIs(t, err, ErrInvalidTour)

	tour, err := NewTour("T1", "Name", 8, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "8D/7N", tour.DaysNights())
}

func TestDateTime_JSON(t *testing.T) {
	var payload struct {
		Departure DateTime `json:"departure"`
		Born      Date     `json:"born"`
	}

	err := json.Unmarshal([]byte(`{"departure":"2027-03-01 08:30","born":"1990-06-15"}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, 8, payload.Departure.Hour())
	assert.Equal(t, 30, payload.Departure.Minute())
	assert.Equal(t, time.June, payload.Born.Month())

	err = json.Unmarshal([]byte(`{"departure":"01/03/2027"}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = json.Unmarshal([]byte(`{"born":19900615}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
