package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultPrefix        = "tour_booking"
	defaultMaxRetries    = 3
	defaultBaseDelay     = 5 * time.Second
	defaultQueueTimeout  = 5 * time.Second
	defaultPollInterval  = 10 * time.Second
	defaultAlarmQueueLen = 1000
)

// RedisQueue implements Queue interface using Redis
type RedisQueue struct {
	client          *redis.Client
	mainQueue       string
	delayedQueue    string
	processingQueue string
	metricsKey      string
	retryManager    *RetryManager
	dlqHandler      DLQHandler
	config          *RedisQueueConfig
	mu              sync.Mutex
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// RedisQueueConfig contains configuration for RedisQueue
type RedisQueueConfig struct {
	// Все ключи строятся от префикса: <prefix>:tasks, <prefix>:tasks:delayed, ...
	Prefix string

	MaxRetries    int
	BaseDelay     time.Duration
	QueueTimeout  time.Duration
	PollInterval  time.Duration
	AlarmQueueLen int
	EnableDLQ     bool
	EnableMetrics bool
}

// DefaultRedisQueueConfig returns default configuration
func DefaultRedisQueueConfig() *RedisQueueConfig {
	return &RedisQueueConfig{
		Prefix:        defaultPrefix,
		MaxRetries:    defaultMaxRetries,
		BaseDelay:     defaultBaseDelay,
		QueueTimeout:  defaultQueueTimeout,
		PollInterval:  defaultPollInterval,
		AlarmQueueLen: defaultAlarmQueueLen,
		EnableDLQ:     true,
		EnableMetrics: true,
	}
}

// MainQueueKey is the list immediate tasks are pushed to.
func (c *RedisQueueConfig) MainQueueKey() string { return c.Prefix + ":tasks" }

// DLQKey is the sorted set holding tasks that exhausted their retries.
func (c *RedisQueueConfig) DLQKey() string { return c.Prefix + ":dlq" }

// NewRedisQueue creates a queue on top of an already connected client
func NewRedisQueue(client *redis.Client, cfg *RedisQueueConfig, retryManager *RetryManager, dlqHandler DLQHandler) (*RedisQueue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg == nil {
		cfg = DefaultRedisQueueConfig()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.QueueTimeout <= 0 {
		cfg.QueueTimeout = defaultQueueTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if retryManager == nil {
		retryManager = NewRetryManager(cfg.MaxRetries, cfg.BaseDelay)
	}
	if dlqHandler == nil && cfg.EnableDLQ {
		dlqHandler = NewDefaultDLQHandler(client, cfg.DLQKey(), cfg.MainQueueKey())
	}

	queue := &RedisQueue{
		client:          client,
		mainQueue:       cfg.MainQueueKey(),
		delayedQueue:    cfg.Prefix + ":tasks:delayed",
		processingQueue: cfg.Prefix + ":tasks:processing",
		metricsKey:      cfg.Prefix + ":metrics",
		retryManager:    retryManager,
		dlqHandler:      dlqHandler,
		config:          cfg,
		stopChan:        make(chan struct{}),
	}

	logrus.WithFields(logrus.Fields{
		"main":    queue.mainQueue,
		"delayed": queue.delayedQueue,
		"dlq":     cfg.DLQKey(),
	}).Info("RedisQueue initialized")

	return queue, nil
}

// Publish sends a task to the queue
func (r *RedisQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if err := r.prepareTask(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	taskData, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Отложенные задачи хранятся в sorted set со временем запуска в качестве score
	if task.ExecuteAt.After(time.Now()) {
		err = r.client.ZAdd(ctx, r.delayedQueue, &redis.Z{
			Score:  float64(task.ExecuteAt.Unix()),
			Member: taskData,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to publish delayed task: %w", err)
		}

		r.incrementMetric(ctx, "tasks_delayed")
		logrus.WithFields(logrus.Fields{
			"task_id":    task.ID,
			"type":       task.Type,
			"execute_at": task.ExecuteAt.Format(time.RFC3339),
		}).Debug("Task scheduled")
		return nil
	}

	if err := r.client.LPush(ctx, r.mainQueue, taskData).Err(); err != nil {
		return fmt.Errorf("failed to publish immediate task: %w", err)
	}

	r.incrementMetric(ctx, "tasks_queued")
	logrus.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).Debug("Task published")
	return nil
}

// Subscribe starts consuming tasks from the queue
func (r *RedisQueue) Subscribe(ctx context.Context, handler func(*Task) error) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	r.wg.Add(3)
	go r.processDelayedTasks(ctx)
	go r.processMainQueue(ctx, handler)
	go r.monitorQueue(ctx)

	logrus.Info("RedisQueue subscriber started")
	return nil
}

// processMainQueue processes tasks from the main queue
func (r *RedisQueue) processMainQueue(ctx context.Context, handler func(*Task) error) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Main queue processor stopped by context")
			return
		case <-r.stopChan:
			logrus.Info("Main queue processor stopped")
			return
		default:
			if err := r.processNext(ctx, handler); err != nil {
				logrus.WithError(err).Error("Error processing task")
				time.Sleep(time.Second)
			}
		}
	}
}

// processNext moves one task to the processing list, runs it and clears it
func (r *RedisQueue) processNext(ctx context.Context, handler func(*Task) error) error {
	taskData, err := r.client.BRPopLPush(ctx, r.mainQueue, r.processingQueue, r.config.QueueTimeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to move task to processing queue: %w", err)
	}

	var task Task
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		r.moveCorruptedToDLQ(ctx, taskData, err)
	} else if err := r.executeTaskWithRetry(ctx, &task, handler); err != nil {
		logrus.WithFields(logrus.Fields{
			"task_id":  task.ID,
			"type":     task.Type,
			"attempts": task.Attempts,
		}).WithError(err).Warn("Task failed")
		if r.dlqHandler != nil {
			r.dlqHandler.HandleFailedTask(ctx, &task, err)
			r.incrementMetric(ctx, "tasks_dlq")
		}
	} else {
		logrus.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).Debug("Task completed")
	}

	if err := r.client.LRem(ctx, r.processingQueue, 1, taskData).Err(); err != nil {
		logrus.WithError(err).Error("Failed to remove task from processing queue")
	}

	return nil
}

// processDelayedTasks moves ready delayed tasks to main queue
func (r *RedisQueue) processDelayedTasks(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			if err := r.moveReadyDelayedTasks(ctx); err != nil {
				logrus.WithError(err).Error("Failed to process delayed tasks")
			}
		}
	}
}

// moveReadyDelayedTasks moves ready delayed tasks to main queue
func (r *RedisQueue) moveReadyDelayedTasks(ctx context.Context) error {
	now := fmt.Sprintf("%d", time.Now().Unix())

	tasks, err := r.client.ZRangeByScore(ctx, r.delayedQueue, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get delayed tasks: %w", err)
	}

	if len(tasks) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, taskData := range tasks {
		pipe.LPush(ctx, r.mainQueue, taskData)
		pipe.ZRem(ctx, r.delayedQueue, taskData)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to move delayed tasks: %w", err)
	}

	logrus.WithField("count", len(tasks)).Debug("Moved delayed tasks to main queue")
	return nil
}

// executeTaskWithRetry executes a task with retry logic
func (r *RedisQueue) executeTaskWithRetry(ctx context.Context, task *Task, handler func(*Task) error) error {
	for {
		task.Attempts++

		err := handler(task)
		if err == nil {
			r.incrementMetric(ctx, "tasks_success")
			return nil
		}
		r.incrementMetric(ctx, "tasks_failure")

		shouldRetry, delay := r.retryManager.ShouldRetry(task, err)
		if !shouldRetry {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"task_id":     task.ID,
			"attempt":     task.Attempts,
			"max_retries": task.MaxRetries,
			"delay":       delay.String(),
		}).WithError(err).Warn("Retrying task")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopChan:
			return err
		case <-time.After(delay):
		}
	}
}

func (r *RedisQueue) moveCorruptedToDLQ(ctx context.Context, taskData string, cause error) {
	logrus.WithError(cause).Error("Failed to unmarshal task")
	if !r.config.EnableDLQ || r.dlqHandler == nil {
		return
	}

	failedTask := &Task{
		ID:        fmt.Sprintf("corrupted_%d", time.Now().UnixNano()),
		Type:      "corrupted",
		Data:      map[string]interface{}{"raw_data": taskData},
		CreatedAt: time.Now(),
	}
	r.dlqHandler.HandleFailedTask(ctx, failedTask, fmt.Errorf("corrupted task: %w", cause))
	r.incrementMetric(ctx, "tasks_dlq")
}

// prepareTask validates task structure and sets defaults
func (r *RedisQueue) prepareTask(task *Task) error {
	if task.Type == "" {
		return fmt.Errorf("task type is required")
	}
	if task.ID == "" {
		task.ID = generateTaskID(task.Type)
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = r.config.MaxRetries
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.ExecuteAt.IsZero() {
		task.ExecuteAt = task.CreatedAt
	}
	return task.Validate()
}

// monitorQueue warns when the main queue grows past the alarm threshold
func (r *RedisQueue) monitorQueue(ctx context.Context) {
	defer r.wg.Done()

	if !r.config.EnableMetrics {
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			stats, err := r.GetQueueStats(ctx)
			if err != nil {
				logrus.WithError(err).Warn("Failed to collect queue stats")
				continue
			}
			if r.config.AlarmQueueLen > 0 && stats.MainQueue > int64(r.config.AlarmQueueLen) {
				logrus.WithFields(logrus.Fields{
					"size":      stats.MainQueue,
					"threshold": r.config.AlarmQueueLen,
				}).Warn("Main queue size exceeds threshold")
			}
		}
	}
}

// incrementMetric increments a counter in the metrics hash
func (r *RedisQueue) incrementMetric(ctx context.Context, metric string) {
	if !r.config.EnableMetrics {
		return
	}
	r.client.HIncrBy(ctx, r.metricsKey, metric, 1)
}

// GetQueueStats returns current queue statistics
func (r *RedisQueue) GetQueueStats(ctx context.Context) (*QueueStats, error) {
	pipe := r.client.Pipeline()

	mainLen := pipe.LLen(ctx, r.mainQueue)
	delayedLen := pipe.ZCard(ctx, r.delayedQueue)
	processingLen := pipe.LLen(ctx, r.processingQueue)
	dlqLen := pipe.ZCard(ctx, r.config.DLQKey())

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get queue stats: %w", err)
	}

	return &QueueStats{
		MainQueue:       mainLen.Val(),
		DelayedQueue:    delayedLen.Val(),
		ProcessingQueue: processingLen.Val(),
		DLQ:             dlqLen.Val(),
		Timestamp:       time.Now(),
	}, nil
}

// DLQ exposes the dead letter handler for the admin API.
func (r *RedisQueue) DLQ() DLQHandler {
	return r.dlqHandler
}

// Close stops the consumers. The client belongs to the caller.
func (r *RedisQueue) Close() error {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()

	logrus.Info("RedisQueue closed")
	return nil
}

// HealthCheck performs a health check on the queue
func (r *RedisQueue) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// QueueStats contains statistics about queue state
type QueueStats struct {
	MainQueue       int64     `json:"main_queue"`
	DelayedQueue    int64     `json:"delayed_queue"`
	ProcessingQueue int64     `json:"processing_queue"`
	DLQ             int64     `json:"dlq"`
	Timestamp       time.Time `json:"timestamp"`
}
