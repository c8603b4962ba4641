package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DepartureCloser закрывает отправления, время которых наступило
type DepartureCloser interface {
	CloseDepartedTours(ctx context.Context) (int, error)
}

type DepartureWorker struct {
	closer   DepartureCloser
	interval time.Duration
}

func NewDepartureWorker(closer DepartureCloser, interval time.Duration) *DepartureWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DepartureWorker{
		closer:   closer,
		interval: interval,
	}
}

// Start блокируется до отмены ctx. Первый проход выполняется сразу при запуске.
func (w *DepartureWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("Departure worker started")
	w.closeDeparted(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Departure worker stopped")
			return
		case <-ticker.C:
			w.closeDeparted(ctx)
		}
	}
}

func (w *DepartureWorker) closeDeparted(ctx context.Context) {
	closed, err := w.closer.CloseDepartedTours(ctx)
	if err != nil {
		logrus.Errorf("Failed to close departed tours: %v", err)
		return
	}
	if closed > 0 {
		logrus.Infof("Closed %d departed tours", closed)
	}
}

// GetStats возвращает сведения о воркере
func (w *DepartureWorker) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"worker_type": "departure_closer",
		"interval":    w.interval.String(),
	}
}
