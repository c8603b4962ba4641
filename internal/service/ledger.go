package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is the state shared by all services: one lock serializing every
// read-modify-write of the inventory, the booking id counter and the clock.
type Ledger struct {
	mu     sync.Mutex
	lastID int64
	now    func() time.Time
	epoch  string
}

// NewLedger creates a ledger. A nil clock means time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now, epoch: uuid.NewString()}
}

// Epoch identifies this ledger instance. Booking ids restart with every process,
// so events carry the epoch to tell which ledger their booking id belongs to.
func (l *Ledger) Epoch() string {
	return l.epoch
}

func (l *Ledger) Now() time.Time {
	return l.now()
}

// nextID hands out booking ids. Ids are never reused, even after cancellation.
// Callers must hold mu.
func (l *Ledger) nextID() int64 {
	l.lastID++
	return l.lastID
}

func (l *Ledger) lock() func() {
	l.mu.Lock()
	return l.mu.Unlock
}
