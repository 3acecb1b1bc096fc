package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/electricity_status_map/internal/geocoder"
	geocoder_mocks "github.com/shenikar/electricity_status_map/internal/geocoder/mocks"
	"github.com/shenikar/electricity_status_map/internal/models"
	realtime_mocks "github.com/shenikar/electricity_status_map/internal/realtime/mocks"
	"github.com/shenikar/electricity_status_map/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestReportService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestReportService(t *testing.T) (*reportService, *mocks.MockReportRepository, *geocoder_mocks.MockGeocoder, *realtime_mocks.MockReportPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockReportRepository(ctrl)
	geoMock := geocoder_mocks.NewMockGeocoder(ctrl)
	publisherMock := realtime_mocks.NewMockReportPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewReportService(repoMock, geoMock, publisherMock, logger)
	return service.(*reportService), repoMock, geoMock, publisherMock
}

func TestCreateReport_Success(t *testing.T) {
	// Подготовка
	service, repoMock, geoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	reportID := uuid.New()
	input := &models.Report{
		Latitude:       40.7128,
		Longitude:      -74.0060,
		HasElectricity: true,
		Comment:        "Power back since noon",
	}

	// Ожидания
	geoMock.EXPECT().
		Reverse(ctx, input.Latitude, input.Longitude).
		Return(geocoder.Place{City: "New York", Country: "United States"}, nil).
		Times(1)

	repoMock.EXPECT().
		Create(ctx, input).
		DoAndReturn(func(_ context.Context, r *models.Report) error {
			r.ID = reportID
			r.CreatedAt = time.Now()
			return nil
		}).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, input).
		Return(nil).
		Times(1)

	// Действие
	err := service.CreateReport(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, reportID, input.ID)
	assert.Equal(t, "New York", input.City)
	assert.Equal(t, "United States", input.Country)
}

func TestCreateReport_GeocoderFailure_UsesSentinel(t *testing.T) {
	// Подготовка
	service, repoMock, geoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	input := &models.Report{
		Latitude:       40.7128,
		Longitude:      -74.0060,
		HasElectricity: false,
	}

	// Ожидания: геокодер падает, вставка все равно выполняется с sentinel-парой
	geoMock.EXPECT().
		Reverse(ctx, input.Latitude, input.Longitude).
		Return(geocoder.Place{}, fmt.Errorf("nominatim returned status 500")).
		Times(1)

	repoMock.EXPECT().
		Create(ctx, input).
		DoAndReturn(func(_ context.Context, r *models.Report) error {
			assert.Equal(t, geocoder.UnknownCity, r.City)
			assert.Equal(t, geocoder.UnknownCountry, r.Country)
			r.ID = uuid.New()
			return nil
		}).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, input).
		Return(nil).
		Times(1)

	// Действие
	err := service.CreateReport(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, geocoder.UnknownCity, input.City)
	assert.Equal(t, geocoder.UnknownCountry, input.Country)
}

func TestCreateReport_RepositoryFailure(t *testing.T) {
	// Подготовка
	service, repoMock, geoMock, _ := newTestReportService(t)
	ctx := context.Background()
	input := &models.Report{Latitude: 1, Longitude: 2, HasElectricity: true}

	// Ожидания: при ошибке вставки публикации в ленту быть не должно
	geoMock.EXPECT().
		Reverse(ctx, input.Latitude, input.Longitude).
		Return(geocoder.UnknownPlace(), nil).
		Times(1)

	repoMock.EXPECT().
		Create(ctx, input).
		Return(fmt.Errorf("connection refused")).
		Times(1)

	// Действие
	err := service.CreateReport(ctx, input)

	// Проверки
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not create report")
}

func TestCreateReport_PublisherFailure_NotFatal(t *testing.T) {
	// Подготовка
	service, repoMock, geoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	input := &models.Report{Latitude: 1, Longitude: 2, HasElectricity: true}

	// Ожидания: сообщение уже сохранено, сбой доставки не откатывает вставку
	geoMock.EXPECT().
		Reverse(ctx, input.Latitude, input.Longitude).
		Return(geocoder.UnknownPlace(), nil).
		Times(1)

	repoMock.EXPECT().
		Create(ctx, input).
		Return(nil).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, input).
		Return(fmt.Errorf("redis unavailable")).
		Times(1)

	// Действие
	err := service.CreateReport(ctx, input)

	// Проверки
	require.NoError(t, err)
}

func TestCreateReport_CommentClamped(t *testing.T) {
	// Подготовка
	service, repoMock, geoMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	input := &models.Report{
		Latitude:       1,
		Longitude:      2,
		HasElectricity: true,
		Comment:        strings.Repeat("a", 300),
	}

	// Ожидания
	geoMock.EXPECT().
		Reverse(ctx, input.Latitude, input.Longitude).
		Return(geocoder.UnknownPlace(), nil).
		Times(1)

	repoMock.EXPECT().
		Create(ctx, input).
		Return(nil).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, input).
		Return(nil).
		Times(1)

	// Действие
	err := service.CreateReport(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, input.Comment, 150)
}

func TestListReports_PassesFilter(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	expected := []*models.Report{{ID: uuid.New(), City: "Kyiv"}}

	// Ожидания
	repoMock.EXPECT().
		ListAll(ctx, "kyiv").
		Return(expected, nil).
		Times(1)

	// Действие
	reports, err := service.ListReports(ctx, "kyiv")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestListReports_RepositoryFailure(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		ListAll(ctx, "").
		Return(nil, fmt.Errorf("connection refused")).
		Times(1)

	// Действие
	reports, err := service.ListReports(ctx, "")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, reports)
}

func TestListMapReports_PassesWindowBoundary(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	since := time.Now().Add(-24 * time.Hour)
	expected := []*models.Report{{ID: uuid.New()}}

	// Ожидания: граница окна передается в репозиторий как есть,
	// фильтрация по ней выполняется на стороне бд
	repoMock.EXPECT().
		ListSince(ctx, since).
		Return(expected, nil).
		Times(1)

	// Действие
	reports, err := service.ListMapReports(ctx, since)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestGetStatistics_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	cached := &models.StatisticsReport{
		Overall: models.OverallStats{Total: 5, WithElectricity: 3, WithoutElectricity: 2, Percentage: 60},
	}

	// Ожидания
	repoMock.EXPECT().
		GetStatsFromCache(ctx).
		Return(cached, nil).
		Times(1)

	// Действие
	stats, err := service.GetStatistics(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, cached, stats)
}

func TestGetStatistics_CacheMiss_BuildsAndCaches(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	reports := []*models.Report{
		{Latitude: 40.71, Longitude: -74.00, HasElectricity: true},
		{Latitude: 40.74, Longitude: -74.03, HasElectricity: false},
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetStatsFromCache(ctx).
		Return(nil, nil).
		Times(1)

	// 2. Полная выборка из БД
	repoMock.EXPECT().
		ListAll(ctx, "").
		Return(reports, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetStatsCache(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	stats, err := service.GetStatistics(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.Total)
	require.Len(t, stats.Regions, 1)
	assert.Equal(t, "40.7,-74.0", stats.Regions[0].Region)
	assert.Equal(t, 50.0, stats.Regions[0].Percentage)
}

func TestGetStatistics_CacheErrorsNotFatal(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()

	// Ожидания: ошибки чтения и записи кеша не мешают построить статистику
	repoMock.EXPECT().
		GetStatsFromCache(ctx).
		Return(nil, fmt.Errorf("redis unavailable")).
		Times(1)

	repoMock.EXPECT().
		ListAll(ctx, "").
		Return([]*models.Report{}, nil).
		Times(1)

	repoMock.EXPECT().
		SetStatsCache(ctx, gomock.Any()).
		Return(fmt.Errorf("redis unavailable")).
		Times(1)

	// Действие
	stats, err := service.GetStatistics(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Overall.Total)
	assert.Equal(t, 0.0, stats.Overall.Percentage)
}

func TestPurgeExpired(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	cutoff := time.Now().Add(-24 * time.Hour)

	// Ожидания
	repoMock.EXPECT().
		DeleteOlderThan(ctx, cutoff).
		Return(int64(3), nil).
		Times(1)

	// Действие
	deleted, err := service.PurgeExpired(ctx, cutoff)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
