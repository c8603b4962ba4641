package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeBookingCreated        TaskType = "booking_created"
	TaskTypeBookingCancelled      TaskType = "booking_cancelled"
	TaskTypeScheduleStatusChanged TaskType = "schedule_status_changed"
	TaskTypeDepartureReminder     TaskType = "departure_reminder"
)

// Task represents a unit of work in the queue
type Task struct {
	ID         string                 `json:"id"`
	Type       TaskType               `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	CreatedAt  time.Time              `json:"created_at"`
	Attempts   int                    `json:"attempts"`
	MaxRetries int                    `json:"max_retries"`
}

// Validate checks if the task is valid
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task ID is required")
	}
	if strings.TrimSpace(string(t.Type)) == "" {
		return fmt.Errorf("task type is required")
	}
	if t.Data == nil {
		t.Data = make(map[string]interface{})
	}
	return nil
}

// GetString returns a string value from task data
func (t *Task) GetString(key string) string {
	if val, ok := t.Data[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt returns an int value from task data. JSON numbers arrive as float64.
func (t *Task) GetInt(key string) int64 {
	if val, ok := t.Data[key]; ok {
		switch v := val.(type) {
		case int:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}

func (t *Task) GetFloat(key string) float64 {
	if val, ok := t.Data[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0
}

func (t *Task) GetBool(key string) bool {
	if val, ok := t.Data[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// GetTime returns a time value from task data
func (t *Task) GetTime(key string) time.Time {
	if val, ok := t.Data[key]; ok {
		switch v := val.(type) {
		case time.Time:
			return v
		case string:
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// generateTaskID generates a unique task ID
func generateTaskID(taskType TaskType) string {
	return fmt.Sprintf("%s_%s", taskType, uuid.NewString())
}
