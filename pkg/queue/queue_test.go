package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(ctx context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, text)
	return nil
}

type stubChecker struct {
	epoch  string
	active bool
	err    error
}

func (c stubChecker) BookingActive(ctx context.Context, epoch string, bookingID int64) (bool, error) {
	if epoch != c.epoch {
		return false, nil
	}
	return c.active, c.err
}

func TestRetryManager_ShouldRetry(t *testing.T) {
	rm := NewRetryManager(3, 100*time.Millisecond)

	tests := []struct {
		name      string
		attempts  int
		max       int
		err       error
		wantRetry bool
	}{
		{name: "transient error retried", attempts: 1, max: 3, err: errors.New("connection reset"), wantRetry: true},
		{name: "attempts exhausted", attempts: 3, max: 3, err: errors.New("connection reset")},
		{name: "permanent error", attempts: 1, max: 3, err: fmt.Errorf("%w: bad payload", ErrPermanent)},
		{name: "manager default used when task has none", attempts: 2, max: 0, err: errors.New("timeout"), wantRetry: true},
		{name: "nil error", attempts: 1, max: 3, err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, delay := rm.ShouldRetry(&Task{Attempts: tt.attempts, MaxRetries: tt.max}, tt.err)
			assert.Equal(t, tt.wantRetry, retry)
			if !tt.wantRetry {
				assert.Zero(t, delay)
			}
		})
	}
}

func TestRetryManager_Backoff(t *testing.T) {
	base := 100 * time.Millisecond
	rm := NewRetryManager(10, base)

	assert.Equal(t, base, rm.calculateBackoff(0))

	for attempt := 1; attempt <= 6; attempt++ {
		exp := base * time.Duration(1<<(attempt-1))
		lower := exp * 3 / 4
		if lower > 16*base {
			lower = 16 * base
		}
		for i := 0; i < 20; i++ {
			got := rm.calculateBackoff(attempt)
			assert.GreaterOrEqual(t, got, lower, "attempt %d", attempt)
			assert.LessOrEqual(t, got, 16*base, "attempt %d", attempt)
			assert.LessOrEqual(t, got, exp*5/4, "attempt %d", attempt)
		}
	}
}

func TestRetryManager_TinyBaseDelayDoesNotPanic(t *testing.T) {
	rm := NewRetryManager(3, time.Nanosecond)
	assert.NotPanics(t, func() { rm.calculateBackoff(1) })
}

func TestTask_Getters(t *testing.T) {
	departure := time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC)
	task := &Task{Data: map[string]interface{}{
		"booking_id": float64(42),
		"cost":       1725.0,
		"open":       true,
		"code":       "JPHA08-250301",
		"departure":  departure.Format(time.RFC3339),
	}}

	assert.Equal(t, int64(42), task.GetInt("booking_id"))
	assert.InDelta(t, 1725.0, task.GetFloat("cost"), 1e-9)
	assert.True(t, task.GetBool("open"))
	assert.Equal(t, "JPHA08-250301", task.GetString("code"))
	assert.True(t, departure.Equal(task.GetTime("departure")))

	assert.Zero(t, task.GetInt("missing"))
	assert.Empty(t, task.GetString("booking_id"))
	assert.True(t, task.GetTime("code").IsZero())
}

func TestTask_Validate(t *testing.T) {
	assert.Error(t, (&Task{Type: TaskTypeBookingCreated}).Validate())
	assert.Error(t, (&Task{ID: "x"}).Validate())

	task := &Task{ID: generateTaskID(TaskTypeBookingCreated), Type: TaskTypeBookingCreated}
	require.NoError(t, task.Validate())
	assert.NotNil(t, task.Data)
	assert.True(t, strings.HasPrefix(task.ID, "booking_created_"))
}

func TestTaskHandler_HandleTask(t *testing.T) {
	departure := time.Date(2027, time.March, 1, 8, 0, 0, 0, time.UTC).Format(time.RFC3339)

	tests := []struct {
		name     string
		task     *Task
		checker  BookingChecker
		contains string
		silent   bool
		wantErr  error
	}{
		{
			name: "booking created",
			task: &Task{Type: TaskTypeBookingCreated, Data: map[string]interface{}{
				"booking_id": float64(1), "kind": "individual", "schedule_code": "JPHA08-250301",
				"tour_name": "Hokkaido", "departure": departure, "seats": float64(1), "cost": 1725.0,
			}},
			contains: "New booking #1 (individual)",
		},
		{
			name: "booking cancelled",
			task: &Task{Type: TaskTypeBookingCancelled, Data: map[string]interface{}{
				"booking_id": float64(1), "schedule_code": "JPHA08-250301", "seats": float64(1),
				"penalty": 1035.0, "penalty_rate": 0.6, "refund": 690.0,
			}},
			contains: "Penalty: $1035.00 (60%), refund: $690.00",
		},
		{
			name:     "schedule closed",
			task:     &Task{Type: TaskTypeScheduleStatusChanged, Data: map[string]interface{}{"schedule_code": "JPHA08-250301", "open": false, "reason": "departed"}},
			contains: "JPHA08-250301 is now closed for booking (departed)",
		},
		{
			name:     "reminder for active booking",
			task:     &Task{Type: TaskTypeDepartureReminder, Data: map[string]interface{}{"booking_id": float64(3), "departure": departure, "ledger_epoch": "run-2"}},
			checker:  stubChecker{epoch: "run-2", active: true},
			contains: "Reminder: booking #3 departs on 01-Mar-2027 08:00",
		},
		{
			name:    "reminder left from a previous run",
			task:    &Task{Type: TaskTypeDepartureReminder, Data: map[string]interface{}{"booking_id": float64(3), "departure": departure, "ledger_epoch": "run-1"}},
			checker: stubChecker{epoch: "run-2", active: true},
			silent:  true,
		},
		{
			name:    "reminder for cancelled booking",
			task:    &Task{Type: TaskTypeDepartureReminder, Data: map[string]interface{}{"booking_id": float64(3)}},
			checker: stubChecker{active: false},
			silent:  true,
		},
		{
			name:    "missing booking id is permanent",
			task:    &Task{Type: TaskTypeBookingCreated, Data: map[string]interface{}{}},
			wantErr: ErrPermanent,
		},
		{
			name:    "unknown type is permanent",
			task:    &Task{Type: "expire_booking", Data: map[string]interface{}{}},
			wantErr: ErrPermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			h := NewTaskHandler(notifier, tt.checker)

			err := h.HandleTask(tt.task)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, notifier.messages)
				return
			}
			require.NoError(t, err)
			if tt.silent {
				assert.Empty(t, notifier.messages)
				return
			}
			require.Len(t, notifier.messages, 1)
			assert.Contains(t, notifier.messages[0], tt.contains)
		})
	}
}

func TestTaskHandler_NotifierFailureIsRetryable(t *testing.T) {
	h := NewTaskHandler(&recordingNotifier{err: errors.New("telegram API error: 502 Bad Gateway")}, nil)

	err := h.HandleTask(&Task{Type: TaskTypeScheduleStatusChanged, Data: map[string]interface{}{"schedule_code": "X-1", "open": true}})
	require.Error(t, err)

	retry, _ := NewRetryManager(3, time.Millisecond).ShouldRetry(&Task{Attempts: 1, MaxRetries: 3}, err)
	assert.True(t, retry)
}

func TestTaskHandler_WithoutNotifierLogsOnly(t *testing.T) {
	h := NewTaskHandler(nil, nil)
	err := h.HandleTask(&Task{Type: TaskTypeScheduleStatusChanged, Data: map[string]interface{}{"schedule_code": "X-1", "open": true}})
	assert.NoError(t, err)
}
