package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/electricity_status_map/internal/models"
	"github.com/shenikar/electricity_status_map/internal/service"
)

const statsCacheKey = "stats:snapshot"

type ReportRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	statsTTL    time.Duration
}

func NewReportRepository(db *pgxpool.Pool, redisClient *redis.Client, statsTTL time.Duration) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
		statsTTL:    statsTTL,
	}
}

// Create создает новую запись о сообщении в бд
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO locations (latitude, longitude, has_electricity, comment, city, country)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;
	`
	var comment *string
	if report.Comment != "" {
		comment = &report.Comment
	}
	err := r.db.QueryRow(ctx, query,
		report.Latitude,
		report.Longitude,
		report.HasElectricity,
		comment,
		report.City,
		report.Country,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// escapeLikePattern экранирует спецсимволы шаблона LIKE во вводе пользователя.
// Фильтр - простая подстрока, символы % и _ в нем не должны работать как wildcards.
func escapeLikePattern(filter string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(filter)
}

// ListAll возвращает всю историю сообщений, сначала самые новые.
// Непустой filter ограничивает выборку подстрочным совпадением
// по комментарию, городу или стране без учета регистра.
func (r *ReportRepository) ListAll(ctx context.Context, filter string) ([]*models.Report, error) {
	query := `
		SELECT id, latitude, longitude, has_electricity, comment, city, country, created_at
		FROM locations
		WHERE $1 = ''
			OR comment ILIKE '%' || $1 || '%'
			OR city ILIKE '%' || $1 || '%'
			OR country ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, escapeLikePattern(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// ListSince возвращает сообщения, созданные не раньше since, в хронологическом порядке
func (r *ReportRepository) ListSince(ctx context.Context, since time.Time) ([]*models.Report, error) {
	query := `
		SELECT id, latitude, longitude, has_electricity, comment, city, country, created_at
		FROM locations
		WHERE created_at >= $1
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports since %s: %w", since, err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// DeleteOlderThan удаляет сообщения, созданные раньше cutoff, и возвращает число удаленных строк
func (r *ReportRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reports: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func scanReports(rows pgx.Rows) ([]*models.Report, error) {
	reports := make([]*models.Report, 0)
	for rows.Next() {
		report := &models.Report{}
		var comment *string
		err := rows.Scan(
			&report.ID,
			&report.Latitude,
			&report.Longitude,
			&report.HasElectricity,
			&comment,
			&report.City,
			&report.Country,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if comment != nil {
			report.Comment = *comment
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error report rows iteration: %w", err)
	}
	return reports, nil
}

// GetStatsFromCache пытается получить срез статистики из Redis
func (r *ReportRepository) GetStatsFromCache(ctx context.Context) (*models.StatisticsReport, error) {
	val, err := r.redisClient.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stats from cache: %w", err)
	}

	stats := &models.StatisticsReport{}
	if err := json.Unmarshal(val, stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats from cache: %w", err)
	}
	return stats, nil
}

// SetStatsCache сохраняет срез статистики в Redis
func (r *ReportRepository) SetStatsCache(ctx context.Context, stats *models.StatisticsReport) error {
	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, statsCacheKey, val, r.statsTTL).Err(); err != nil {
		return fmt.Errorf("failed to set stats in cache: %w", err)
	}
	return nil
}
