package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/tourbooker/config"
	repository "github.com/ds124wfegd/tourbooker/internal/database/memory"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/ds124wfegd/tourbooker/internal/transport"
	"github.com/ds124wfegd/tourbooker/internal/worker"

	"github.com/ds124wfegd/tourbooker/pkg/queue"
	"github.com/ds124wfegd/tourbooker/pkg/redis"
	"github.com/ds124wfegd/tourbooker/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// bookingChecker отвечает очереди, активно ли еще бронирование.
// Задачи чужого реестра (до перезапуска) считаются неактивными.
type bookingChecker struct {
	bookings service.BookingService
	epoch    string
}

func (b bookingChecker) BookingActive(ctx context.Context, epoch string, bookingID int64) (bool, error) {
	if epoch != b.epoch {
		return false, nil
	}
	_, err := b.bookings.GetBooking(ctx, bookingID)
	if errors.Is(err, entity.ErrBookingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func NewServer(cfg *config.Config) {

	setupLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository()
	tourRepo := repository.NewTourRepository()
	scheduleRepo := repository.NewScheduledTourRepository()
	bookingRepo := repository.NewBookingRepository()
	ledger := service.NewLedger(time.Now)

	// Initialize Telegram bot
	var notifier queue.Notifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		notifier = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Timeout)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram notifications disabled, ledger events are only logged")
	}

	var (
		redisQueue    *queue.RedisQueue
		taskPublisher service.TaskPublisher
	)
	if cfg.QueueEnabled() {
		redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to connect to Redis: %v. Continuing without queue...", err)
		} else {
			defer redisClient.Close()

			queueConfig := queue.DefaultRedisQueueConfig()
			queueConfig.Prefix = cfg.Queue.Prefix
			queueConfig.MaxRetries = cfg.Queue.MaxRetries
			queueConfig.BaseDelay = cfg.Queue.BaseDelay
			queueConfig.EnableDLQ = cfg.Queue.EnableDLQ

			retryManager := queue.NewRetryManager(cfg.Queue.MaxRetries, cfg.Queue.BaseDelay)
			redisQueue, err = queue.NewRedisQueue(redisClient, queueConfig, retryManager, nil)
			if err != nil {
				logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
			} else {
				taskPublisher = service.NewQueueAdapter(redisQueue)
			}
		}
	}

	// Initialize services
	customerService := service.NewCustomerService(ledger, customerRepo, bookingRepo)
	tourService := service.NewTourService(ledger, tourRepo, scheduleRepo, bookingRepo, customerRepo, taskPublisher)
	bookingService := service.NewBookingService(ledger, bookingRepo, scheduleRepo, customerRepo, taskPublisher, cfg.App.ReminderBefore)

	if err := seedCatalog(ctx, cfg.Catalog, customerService, tourService); err != nil {
		logrus.Fatalf("Failed to load catalog: %v", err)
	}

	// Start queue consumer
	var queueInspector transport.QueueInspector
	if redisQueue != nil {
		queueInspector = redisQueue
		taskHandler := queue.NewTaskHandler(notifier, bookingChecker{bookings: bookingService, epoch: ledger.Epoch()})
		if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
			logrus.Errorf("Queue subscriber error: %v", err)
		}
		defer redisQueue.Close()
	}

	// Start departure worker
	departureWorker := worker.NewDepartureWorker(tourService, cfg.Worker.DepartureInterval)
	go departureWorker.Start(ctx)

	// Initialize handlers
	handlers := transport.Handlers{
		Customer: transport.NewCustomerHandler(customerService),
		Tour:     transport.NewTourHandler(tourService),
		Booking:  transport.NewBookingHandler(bookingService),
		Auth: transport.NewAuthHandler(transport.AuthConfig{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
			Secret:       []byte(cfg.JWT.Secret),
			TTL:          cfg.JWT.Expiration,
		}),
		Admin: transport.NewAdminHandler(queueInspector),
	}

	if cfg.IsProduction() || cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := transport.InitRoutes(handlers, transport.RouterConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.App.RequestTimeout,
		JWTSecret:      []byte(cfg.JWT.Secret),
	})

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("addr", ":"+cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
