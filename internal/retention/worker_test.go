package retention

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shenikar/electricity_status_map/internal/config"
	"github.com/shenikar/electricity_status_map/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestWorker(t *testing.T, retentionHours int) (*Worker, *mocks.MockReportService) {
	ctrl := gomock.NewController(t)
	serviceMock := mocks.NewMockReportService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		RetentionHours:    retentionHours,
		RetentionInterval: time.Hour,
	}
	return NewWorker(serviceMock, logger, cfg), serviceMock
}

func TestPurge_UsesRetentionWindowCutoff(t *testing.T) {
	worker, serviceMock := newTestWorker(t, 24)
	ctx := context.Background()

	serviceMock.EXPECT().
		PurgeExpired(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (int64, error) {
			expected := time.Now().Add(-24 * time.Hour)
			assert.WithinDuration(t, expected, cutoff, time.Minute)
			return int64(2), nil
		}).
		Times(1)

	worker.purge(ctx)
}

func TestStart_DisabledWithoutWindow(t *testing.T) {
	worker, serviceMock := newTestWorker(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// При нулевом окне воркер не запускается и очистка не вызывается
	worker.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	// Отсутствие ожиданий на serviceMock означает, что любой вызов провалит тест
	_ = serviceMock
}
