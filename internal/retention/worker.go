package retention

import (
	"context"
	"time"

	"github.com/shenikar/electricity_status_map/internal/config"
	"github.com/shenikar/electricity_status_map/internal/service"
	"github.com/sirupsen/logrus"
)

// Worker периодически удаляет сообщения старше окна хранения.
// Окно хранения заявлено в политике конфиденциальности приложения,
// поэтому очистка обязательна, а не декоративна.
type Worker struct {
	service  service.ReportService
	logger   *logrus.Logger
	window   time.Duration
	interval time.Duration
}

// NewWorker создает новый Worker очистки
func NewWorker(svc service.ReportService, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		service:  svc,
		logger:   logger,
		window:   time.Duration(cfg.RetentionHours) * time.Hour,
		interval: cfg.RetentionInterval,
	}
}

// Start запускает горутину периодической очистки.
// При нулевом или отрицательном окне очистка отключена.
func (w *Worker) Start(ctx context.Context) {
	if w.window <= 0 {
		w.logger.Info("Retention worker disabled (retention window is not positive)")
		return
	}

	w.logger.WithFields(logrus.Fields{
		"window":   w.window,
		"interval": w.interval,
	}).Info("Starting retention worker...")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		// Первый проход сразу при старте, чтобы не ждать целый интервал
		w.purge(ctx)

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping retention worker.")
				return
			case <-ticker.C:
				w.purge(ctx)
			}
		}
	}()
}

func (w *Worker) purge(ctx context.Context) {
	cutoff := time.Now().Add(-w.window)
	if _, err := w.service.PurgeExpired(ctx, cutoff); err != nil {
		w.logger.WithError(err).Error("Retention purge failed")
	}
}
