package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/electricity_status_map/internal/models"
)

const (
	// reportChannel - канал Redis Pub/Sub для событий о новых сообщениях
	reportChannel = "report_events"
)

// ReportEvent - событие ленты изменений, доставляемое подключенным клиентам
type ReportEvent struct {
	Type   string         `json:"type"`
	Report *models.Report `json:"report"`
}

// ReportPublisher - интерфейс для публикации новых сообщений в ленту изменений
type ReportPublisher interface {
	Publish(ctx context.Context, report *models.Report) error
}

// RedisReportPublisher - реализация ReportPublisher поверх Redis Pub/Sub
type RedisReportPublisher struct {
	redisClient *redis.Client
}

// NewRedisReportPublisher создает новый RedisReportPublisher
func NewRedisReportPublisher(client *redis.Client) *RedisReportPublisher {
	return &RedisReportPublisher{
		redisClient: client,
	}
}

// Publish публикует событие о вставке сообщения в канал Redis
func (p *RedisReportPublisher) Publish(ctx context.Context, report *models.Report) error {
	event := ReportEvent{
		Type:   "report_created",
		Report: report,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal report event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, reportChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish report event to Redis: %w", err)
	}
	return nil
}
