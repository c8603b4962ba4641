package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/sirupsen/logrus"
)

// Task представляет задачу для очереди
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

// Константы типов задач
const (
	TaskTypeBookingCreated        = "booking_created"
	TaskTypeBookingCancelled      = "booking_cancelled"
	TaskTypeScheduleStatusChanged = "schedule_status_changed"
	TaskTypeDepartureReminder     = "departure_reminder"
)

const defaultTaskRetries = 3

// events публикует события реестра. Ошибки очереди не влияют на результат операции.
type events struct {
	queue          TaskPublisher
	reminderBefore time.Duration
	epoch          string
}

// taskID уникален между перезапусками: номера бронирований начинаются заново
func (e *events) taskID(taskType string, bookingID int64) string {
	epoch := e.epoch
	if len(epoch) > 8 {
		epoch = epoch[:8]
	}
	return fmt.Sprintf("%s_%s_%d", taskType, epoch, bookingID)
}

func (e *events) publish(ctx context.Context, task *Task) {
	if e == nil || e.queue == nil {
		return
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = defaultTaskRetries
	}
	if err := e.queue.Publish(ctx, task); err != nil {
		logrus.WithFields(logrus.Fields{"type": task.Type}).WithError(err).Warn("Failed to publish ledger event")
	}
}

func (e *events) bookingData(info *entity.BookingInfo) map[string]interface{} {
	names := make([]string, 0, len(info.Customers))
	for _, c := range info.Customers {
		names = append(names, c.Name)
	}
	return map[string]interface{}{
		"booking_id":    info.ID,
		"kind":          string(info.Kind),
		"schedule_code": info.ScheduledTour.Code,
		"tour_name":     info.ScheduledTour.TourName,
		"departure":     info.ScheduledTour.Departure.Format(time.RFC3339),
		"seats":         info.Seats,
		"cost":          info.Cost,
		"customers":     strings.Join(names, ", "),
		"ledger_epoch":  e.epoch,
	}
}

// bookingCreated публикует уведомление и откладывает напоминание до отправления
func (e *events) bookingCreated(ctx context.Context, info *entity.BookingInfo, now time.Time) {
	e.publish(ctx, &Task{
		ID:   e.taskID(TaskTypeBookingCreated, info.ID),
		Type: TaskTypeBookingCreated,
		Data: e.bookingData(info),
	})

	if e == nil || e.reminderBefore <= 0 {
		return
	}
	remindAt := info.ScheduledTour.Departure.Add(-e.reminderBefore)
	if !remindAt.After(now) {
		return
	}
	e.publish(ctx, &Task{
		ID:        e.taskID(TaskTypeDepartureReminder, info.ID),
		Type:      TaskTypeDepartureReminder,
		Data:      e.bookingData(info),
		ExecuteAt: remindAt,
	})
}

func (e *events) bookingCancelled(ctx context.Context, quote *CancellationQuote) {
	e.publish(ctx, &Task{
		ID:   e.taskID(TaskTypeBookingCancelled, quote.BookingID),
		Type: TaskTypeBookingCancelled,
		Data: map[string]interface{}{
			"booking_id":    quote.BookingID,
			"schedule_code": quote.ScheduleCode,
			"seats":         quote.SeatsReleased,
			"penalty":       quote.Penalty,
			"penalty_rate":  quote.PenaltyRate,
			"refund":        quote.Refund,
			"cancelled_at":  quote.CancelledAt.Format(time.RFC3339),
			"ledger_epoch":  e.epoch,
		},
	})
}

func (e *events) scheduleStatusChanged(ctx context.Context, code string, open bool, reason string) {
	e.publish(ctx, &Task{
		Type: TaskTypeScheduleStatusChanged,
		Data: map[string]interface{}{
			"schedule_code": code,
			"open":          open,
			"reason":        reason,
		},
	})
}
