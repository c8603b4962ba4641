package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type BookingKind string

const (
	BookingIndividual BookingKind = "individual"
	BookingGroup      BookingKind = "group"
)

const (
	SingleSupplement = 0.5
	MinGroupSize     = 2
)

// groupDiscounts is ordered by descending group size so the first match is the highest tier.
var groupDiscounts = []struct {
	minSize int
	rate    float64
}{
	{minSize: 10, rate: 0.10},
	{minSize: 6, rate: 0.05},
}

func (k BookingKind) Valid() bool {
	return k == BookingIndividual || k == BookingGroup
}

// Booking binds customers to one scheduled departure. Seats are reserved on the
// departure by the ledger, never by the booking itself.
type Booking struct {
	id        int64
	schedule  *ScheduledTour
	customers []*Customer
	kind      BookingKind
	single    bool
}

func NewIndividualBooking(id int64, schedule *ScheduledTour, customer *Customer, single bool) (*Booking, error) {
	if err := validateBooking(id, schedule); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer is required", ErrInvalidBooking)
	}

	return &Booking{
		id:        id,
		schedule:  schedule,
		customers: []*Customer{customer},
		kind:      BookingIndividual,
		single:    single,
	}, nil
}

func NewGroupBooking(id int64, schedule *ScheduledTour, customers []*Customer) (*Booking, error) {
	if err := validateBooking(id, schedule); err != nil {
		return nil, err
	}
	if len(customers) < MinGroupSize {
		return nil, fmt.Errorf("%w: got %d", ErrGroupTooSmall, len(customers))
	}
	for i, c := range customers {
		if c == nil {
			return nil, fmt.Errorf("%w: customer %d is missing", ErrInvalidBooking, i+1)
		}
	}

	snapshot := make([]*Customer, len(customers))
	copy(snapshot, customers)

	return &Booking{
		id:        id,
		schedule:  schedule,
		customers: snapshot,
		kind:      BookingGroup,
	}, nil
}

func validateBooking(id int64, schedule *ScheduledTour) error {
	if id < 1 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidBooking, id)
	}
	if schedule == nil {
		return fmt.Errorf("%w: scheduled tour is required", ErrInvalidBooking)
	}
	return nil
}

func (b *Booking) ID() int64 { return b.id }
func (b *Booking) ScheduledTour() *ScheduledTour { return b.schedule }
func (b *Booking) Kind() BookingKind { return b.kind }
func (b *Booking) Single() bool { return b.single }
func (b *Booking) Seats() int { return len(b.customers) }

// Customers returns a copy of the booked customers in booking order.
func (b *Booking) Customers() []*Customer {
	out := make([]*Customer, len(b.customers))
	copy(out, b.customers)
	return out
}

// Discount is the group discount rate for the current seat count.
func (b *Booking) Discount() float64 {
	if b.kind != BookingGroup {
		return 0
	}
	for _, tier := range groupDiscounts {
		if b.Seats() >= tier.minSize {
			return tier.rate
		}
	}
	return 0
}

// Cost is computed from the live departure price every time.
func (b *Booking) Cost() float64 {
	unit := b.schedule.Cost()
	switch b.kind {
	case BookingIndividual:
		if b.single {
			return unit * (1 + SingleSupplement)
		}
		return unit
	default:
		return unit * float64(b.Seats()) * (1 - b.Discount())
	}
}

// CanAddSeats reports whether customers may join after creation. No variant allows it:
// individual bookings are fixed at one seat and group composition is fixed at creation.
func (b *Booking) CanAddSeats() error {
	switch b.kind {
	case BookingGroup:
		return ErrGroupClosed
	default:
		return ErrAddSeatsUnsupported
	}
}

func (b *Booking) PenaltyRate(at time.Time) float64 {
	return b.schedule.PenaltyRate(at)
}

// Penalty is the amount forfeited when cancelling at the given moment, never above the cost.
func (b *Booking) Penalty(at time.Time) float64 {
	cost := b.Cost()
	return math.Min(b.PenaltyRate(at)*cost, cost)
}

// Info returns a read-only snapshot of the booking priced at the current departure cost.
func (b *Booking) Info() BookingInfo {
	customers := make([]Customer, 0, len(b.customers))
	for _, c := range b.customers {
		customers = append(customers, *c)
	}

	return BookingInfo{
		ID:            b.id,
		Kind:          b.kind,
		Single:        b.single,
		ScheduledTour: b.schedule.Info(),
		Customers:     customers,
		Seats:         b.Seats(),
		UnitCost:      b.schedule.Cost(),
		Discount:      b.Discount(),
		Cost:          b.Cost(),
	}
}

func (b *Booking) String() string {
	lines := make([]string, 0, len(b.customers))
	for _, c := range b.customers {
		lines = append(lines, c.String())
	}
	return fmt.Sprintf("Booking Id: %d Seats: %d Final Cost: $%.2f\n%s\n%s",
		b.id, b.Seats(), b.Cost(), b.schedule, strings.Join(lines, "\n"))
}

type BookingInfo struct {
	ID            int64             `json:"id"`
	Kind          BookingKind       `json:"kind"`
	Single        bool              `json:"single,omitempty"`
	ScheduledTour ScheduledTourInfo `json:"scheduled_tour"`
	Customers     []Customer        `json:"customers"`
	Seats         int               `json:"seats"`
	UnitCost      float64           `json:"unit_cost"`
	Discount      float64           `json:"discount"`
	Cost          float64           `json:"cost"`
}
