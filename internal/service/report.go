package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/electricity_status_map/internal/geocoder"
	"github.com/shenikar/electricity_status_map/internal/models"
	"github.com/shenikar/electricity_status_map/internal/realtime"
	"github.com/sirupsen/logrus"
)

// maxCommentLength - серверный предел длины комментария
const maxCommentLength = 150

// ReportRepository определяет контракт для работы с бд сообщений
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListAll(ctx context.Context, filter string) ([]*models.Report, error)
	ListSince(ctx context.Context, since time.Time) ([]*models.Report, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	GetStatsFromCache(ctx context.Context) (*models.StatisticsReport, error)
	SetStatsCache(ctx context.Context, stats *models.StatisticsReport) error
}

// ReportService определяет контракт бизнес-логики работы с сообщениями
type ReportService interface {
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, filter string) ([]*models.Report, error)
	ListMapReports(ctx context.Context, since time.Time) ([]*models.Report, error)
	GetStatistics(ctx context.Context) (*models.StatisticsReport, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type reportService struct {
	repo      ReportRepository
	geocoder  geocoder.Geocoder
	publisher realtime.ReportPublisher
	logger    *logrus.Logger
}

func NewReportService(repo ReportRepository, geo geocoder.Geocoder, publisher realtime.ReportPublisher, logger *logrus.Logger) ReportService {
	return &reportService{
		repo:      repo,
		geocoder:  geo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateReport сохраняет новое сообщение о наличии электричества.
// Геокодирование выполняется до вставки и не является обязательным: при любой
// ошибке геокодера подставляется sentinel-пара, сама вставка не блокируется.
func (s *reportService) CreateReport(ctx context.Context, report *models.Report) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "CreateReport",
		"lat":     report.Latitude,
		"lon":     report.Longitude,
	})
	log.Info("Attempting to create a new report")

	if len(report.Comment) > maxCommentLength {
		report.Comment = report.Comment[:maxCommentLength]
	}

	place, err := s.geocoder.Reverse(ctx, report.Latitude, report.Longitude)
	if err != nil {
		log.WithError(err).Warn("Reverse geocoding failed, using sentinel place")
		place = geocoder.UnknownPlace()
	}
	report.City = place.City
	report.Country = place.Country

	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return fmt.Errorf("service: could not create report: %w", err)
	}

	// Доставка в ленту изменений best-effort: сообщение уже сохранено
	if err := s.publisher.Publish(ctx, report); err != nil {
		log.WithError(err).Warn("Failed to publish report event")
	}

	log.WithField("report_id", report.ID).Info("Report created successfully")
	return nil
}

// ListReports возвращает всю историю сообщений для списочного представления,
// сначала самые новые, с необязательным подстрочным фильтром
func (s *reportService) ListReports(ctx context.Context, filter string) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
		"filter":  filter,
	})
	log.Info("Listing reports")

	reports, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	log.WithField("count", len(reports)).Info("Reports listed successfully")
	return reports, nil
}

// ListMapReports возвращает сообщения для карты: не старше since, в хронологическом порядке
func (s *reportService) ListMapReports(ctx context.Context, since time.Time) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListMapReports",
		"since":   since,
	})
	log.Info("Listing map reports")

	reports, err := s.repo.ListSince(ctx, since)
	if err != nil {
		log.WithError(err).Error("Failed to list map reports from repository")
		return nil, fmt.Errorf("service: could not list map reports: %w", err)
	}

	log.WithField("count", len(reports)).Info("Map reports listed successfully")
	return reports, nil
}

// GetStatistics возвращает агрегированную статистику по регионам.
// Срез кешируется в Redis с коротким TTL; ошибки кеша не фатальны.
func (s *reportService) GetStatistics(ctx context.Context) (*models.StatisticsReport, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "GetStatistics",
	})

	cached, err := s.repo.GetStatsFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read stats cache")
	}
	if cached != nil {
		log.Debug("Statistics served from cache")
		return cached, nil
	}

	reports, err := s.repo.ListAll(ctx, "")
	if err != nil {
		log.WithError(err).Error("Failed to list reports for statistics")
		return nil, fmt.Errorf("service: could not build statistics: %w", err)
	}

	stats := BuildStatistics(reports)

	if err := s.repo.SetStatsCache(ctx, stats); err != nil {
		log.WithError(err).Warn("Failed to write stats cache")
	}

	log.WithField("regions", len(stats.Regions)).Info("Statistics built successfully")
	return stats, nil
}

// PurgeExpired удаляет сообщения, созданные раньше cutoff
func (s *reportService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "PurgeExpired",
		"cutoff":  cutoff,
	})

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Failed to purge expired reports")
		return 0, fmt.Errorf("service: could not purge expired reports: %w", err)
	}

	if deleted > 0 {
		log.WithField("deleted", deleted).Info("Expired reports purged")
	}
	return deleted, nil
}
