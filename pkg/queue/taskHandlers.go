package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const notifyTimeout = 15 * time.Second

// Notifier доставляет сообщение оператору
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// BookingChecker сообщает, существует ли еще бронирование. epoch указывает реестр,
// выдавший номер: после перезапуска номера бронирований начинаются заново.
type BookingChecker interface {
	BookingActive(ctx context.Context, epoch string, bookingID int64) (bool, error)
}

// TaskHandler обрабатывает задачи из очереди
type TaskHandler struct {
	notifier Notifier
	bookings BookingChecker
}

// NewTaskHandler создает новый обработчик задач. Без notifier сообщения только пишутся в лог.
func NewTaskHandler(notifier Notifier, bookings BookingChecker) *TaskHandler {
	return &TaskHandler{
		notifier: notifier,
		bookings: bookings,
	}
}

// HandleTask обрабатывает задачу
func (h *TaskHandler) HandleTask(task *Task) error {
	logrus.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"type":     task.Type,
		"attempt":  task.Attempts,
		"max":      task.MaxRetries,
		"executes": task.ExecuteAt.Format(time.RFC3339),
	}).Debug("Handling task")

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	var (
		text string
		err  error
	)
	switch task.Type {
	case TaskTypeBookingCreated:
		text, err = bookingCreatedMessage(task)
	case TaskTypeBookingCancelled:
		text, err = bookingCancelledMessage(task)
	case TaskTypeScheduleStatusChanged:
		text, err = scheduleStatusMessage(task)
	case TaskTypeDepartureReminder:
		text, err = h.departureReminderMessage(ctx, task)
	default:
		return fmt.Errorf("%w: unknown task type %q", ErrPermanent, task.Type)
	}
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	return h.deliver(ctx, task, text)
}

func (h *TaskHandler) deliver(ctx context.Context, task *Task, text string) error {
	if h.notifier == nil {
		logrus.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).Info(text)
		return nil
	}
	if err := h.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("notify %s: %w", task.Type, err)
	}
	return nil
}

func bookingCreatedMessage(task *Task) (string, error) {
	id := task.GetInt("booking_id")
	if id == 0 {
		return "", fmt.Errorf("%w: booking_id is missing", ErrPermanent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New booking #%d (%s)\n", id, task.GetString("kind"))
	fmt.Fprintf(&b, "Tour: %s %s\n", task.GetString("schedule_code"), task.GetString("tour_name"))
	fmt.Fprintf(&b, "Departure: %s\n", formatDeparture(task))
	fmt.Fprintf(&b, "Seats: %d, cost: $%.2f", task.GetInt("seats"), task.GetFloat("cost"))
	if names := task.GetString("customers"); names != "" {
		fmt.Fprintf(&b, "\nCustomers: %s", names)
	}
	return b.String(), nil
}

func bookingCancelledMessage(task *Task) (string, error) {
	id := task.GetInt("booking_id")
	if id == 0 {
		return "", fmt.Errorf("%w: booking_id is missing", ErrPermanent)
	}

	return fmt.Sprintf("Booking #%d cancelled on %s\nSeats released: %d\nPenalty: $%.2f (%.0f%%), refund: $%.2f",
		id,
		task.GetString("schedule_code"),
		task.GetInt("seats"),
		task.GetFloat("penalty"),
		task.GetFloat("penalty_rate")*100,
		task.GetFloat("refund"),
	), nil
}

func scheduleStatusMessage(task *Task) (string, error) {
	code := task.GetString("schedule_code")
	if code == "" {
		return "", fmt.Errorf("%w: schedule_code is missing", ErrPermanent)
	}

	status := "closed"
	if task.GetBool("open") {
		status = "open"
	}
	msg := fmt.Sprintf("Scheduled tour %s is now %s for booking", code, status)
	if reason := task.GetString("reason"); reason != "" {
		msg += " (" + reason + ")"
	}
	return msg, nil
}

// departureReminderMessage пропускает напоминание, если бронирование уже отменено
func (h *TaskHandler) departureReminderMessage(ctx context.Context, task *Task) (string, error) {
	id := task.GetInt("booking_id")
	if id == 0 {
		return "", fmt.Errorf("%w: booking_id is missing", ErrPermanent)
	}

	if h.bookings != nil {
		active, err := h.bookings.BookingActive(ctx, task.GetString("ledger_epoch"), id)
		if err != nil {
			return "", fmt.Errorf("check booking %d: %w", id, err)
		}
		if !active {
			logrus.WithField("booking_id", id).Debug("Booking cancelled or from a previous run, reminder skipped")
			return "", nil
		}
	}

	return fmt.Sprintf("Reminder: booking #%d departs on %s (%s)\nCustomers: %s",
		id,
		formatDeparture(task),
		task.GetString("schedule_code"),
		task.GetString("customers"),
	), nil
}

func formatDeparture(task *Task) string {
	departure := task.GetTime("departure")
	if departure.IsZero() {
		return "unknown"
	}
	return departure.Format("02-Jan-2006 15:04")
}
