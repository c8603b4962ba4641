package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ds124wfegd/tourbooker/pkg/queue"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// QueueInspector дает доступ к состоянию очереди событий
type QueueInspector interface {
	GetQueueStats(ctx context.Context) (*queue.QueueStats, error)
	DLQ() queue.DLQHandler
	HealthCheck(ctx context.Context) error
}

type AdminHandler struct {
	queue QueueInspector
}

// NewAdminHandler создает обработчик; q == nil означает, что очередь отключена
func NewAdminHandler(q QueueInspector) *AdminHandler {
	return &AdminHandler{queue: q}
}

func (h *AdminHandler) dlq(c *gin.Context) (queue.DLQHandler, bool) {
	if h.queue == nil || h.queue.DLQ() == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Success: false, Error: "event queue is disabled"})
		return nil, false
	}
	return h.queue.DLQ(), true
}

// Health отвечает 503, если очередь включена, но redis недоступен
func (h *AdminHandler) Health(c *gin.Context) {
	status, queueStatus := http.StatusOK, "disabled"
	if h.queue != nil {
		queueStatus = "ok"
		if err := h.queue.HealthCheck(c.Request.Context()); err != nil {
			logrus.Warnf("Queue health check failed: %v", err)
			status, queueStatus = http.StatusServiceUnavailable, "unavailable"
		}
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"queue":  queueStatus,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *AdminHandler) GetQueueStats(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Success: false, Error: "event queue is disabled"})
		return
	}

	stats, err := h.queue.GetQueueStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Queue statistics retrieved", stats)
}

// GetFailedTasks возвращает задачи из DLQ
func (h *AdminHandler) GetFailedTasks(c *gin.Context) {
	dlq, ok := h.dlq(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	tasks, err := dlq.GetFailedTasks(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Failed tasks retrieved",
		Data:    tasks,
		Meta:    map[string]interface{}{"limit": limit, "count": len(tasks)},
	})
}

// RequeueFailedTask возвращает задачу из DLQ в основную очередь
func (h *AdminHandler) RequeueFailedTask(c *gin.Context) {
	dlq, ok := h.dlq(c)
	if !ok {
		return
	}

	taskID := c.Param("task_id")
	if err := dlq.RequeueFailedTask(c.Request.Context(), taskID); err != nil {
		h.writeDLQError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Task requeued",
		Meta:    map[string]interface{}{"task_id": taskID},
	})
}

func (h *AdminHandler) DeleteFailedTask(c *gin.Context) {
	dlq, ok := h.dlq(c)
	if !ok {
		return
	}

	taskID := c.Param("task_id")
	if err := dlq.DeleteFailedTask(c.Request.Context(), taskID); err != nil {
		h.writeDLQError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Task deleted",
		Meta:    map[string]interface{}{"task_id": taskID},
	})
}

func (h *AdminHandler) writeDLQError(c *gin.Context, err error) {
	if errors.Is(err, queue.ErrFailedTaskNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	writeError(c, err)
}
