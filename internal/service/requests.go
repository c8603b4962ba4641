package service

import (
	"time"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

// RegisterCustomerRequest представляет данные нового клиента
type RegisterCustomerRequest struct {
	Passport    string      `json:"passport" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	DateOfBirth entity.Date `json:"date_of_birth" binding:"required"`
	Contact     string      `json:"contact"`
}

type AddTourRequest struct {
	Code     string  `json:"code" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Days     int     `json:"days" binding:"required,min=1"`
	Nights   int     `json:"nights" binding:"min=0"`
	BaseCost float64 `json:"base_cost" binding:"min=0"`
}

// ScheduleTourRequest представляет данные нового отправления тура
type ScheduleTourRequest struct {
	TourCode     string          `json:"tour_code" binding:"required"`
	ScheduleCode string          `json:"schedule_code" binding:"required"`
	Departure    entity.DateTime `json:"departure" binding:"required"`
	Language     string          `json:"language"`
	Capacity     int             `json:"capacity" binding:"required,min=1"`
	Peak         bool            `json:"peak"`
}

// CreateBookingRequest описывает бронирование. Для индивидуального бронирования
// передается ровно один паспорт, для группового не меньше двух.
type CreateBookingRequest struct {
	ScheduleCode string             `json:"schedule_code" binding:"required"`
	Kind         entity.BookingKind `json:"kind" binding:"required,oneof=individual group"`
	Passports    []string           `json:"passports" binding:"required,min=1,dive,required"`
	Single       bool               `json:"single"`
}

type AddSeatsRequest struct {
	Passports []string `json:"passports" binding:"required,min=1,dive,required"`
}

type SetStatusRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// CancellationQuote is the price of cancelling a booking at a given moment.
type CancellationQuote struct {
	BookingID     int64     `json:"booking_id"`
	ScheduleCode  string    `json:"schedule_code"`
	CancelledAt   time.Time `json:"cancelled_at"`
	LeadDays      int       `json:"lead_days"`
	PenaltyRate   float64   `json:"penalty_rate"`
	Cost          float64   `json:"cost"`
	Penalty       float64   `json:"penalty"`
	Refund        float64   `json:"refund"`
	SeatsReleased int       `json:"seats_released"`
}

func newCancellationQuote(b *entity.Booking, at time.Time) *CancellationQuote {
	cost := b.Cost()
	penalty := b.Penalty(at)
	return &CancellationQuote{
		BookingID:     b.ID(),
		ScheduleCode:  b.ScheduledTour().Code(),
		CancelledAt:   at,
		LeadDays:      b.ScheduledTour().LeadDays(at),
		PenaltyRate:   b.PenaltyRate(at),
		Cost:          cost,
		Penalty:       penalty,
		Refund:        cost - penalty,
		SeatsReleased: b.Seats(),
	}
}
