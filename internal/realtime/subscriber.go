package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// maxSeenIDs ограничивает размер множества уже доставленных идентификаторов
const maxSeenIDs = 1024

// Subscriber - воркер, читающий события ленты изменений из Redis и передающий их в хаб.
// Повторная доставка события с уже известным идентификатором сообщения игнорируется,
// чтобы клиент не получил один маркер дважды.
type Subscriber struct {
	redisClient *redis.Client
	hub         *Hub
	logger      *logrus.Logger

	seen      map[uuid.UUID]struct{}
	seenOrder []uuid.UUID
}

// NewSubscriber создает новый Subscriber
func NewSubscriber(redisClient *redis.Client, hub *Hub, logger *logrus.Logger) *Subscriber {
	return &Subscriber{
		redisClient: redisClient,
		hub:         hub,
		logger:      logger,
		seen:        make(map[uuid.UUID]struct{}),
		seenOrder:   make([]uuid.UUID, 0, maxSeenIDs),
	}
}

// Start запускает горутину подписки на канал событий
func (s *Subscriber) Start(ctx context.Context) {
	s.logger.Info("Starting realtime subscriber...")
	pubsub := s.redisClient.Subscribe(ctx, reportChannel)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Stopping realtime subscriber.")
				return
			case msg, ok := <-ch:
				if !ok {
					s.logger.Warn("Realtime subscription channel closed")
					return
				}
				s.handleMessage(msg.Payload)
			}
		}
	}()
}

func (s *Subscriber) handleMessage(payload string) {
	var event ReportEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.WithError(err).Error("Failed to unmarshal report event from Redis")
		return
	}
	if event.Report == nil {
		s.logger.Warn("Report event without payload, skipping")
		return
	}

	if s.alreadySeen(event.Report.ID) {
		s.logger.WithField("report_id", event.Report.ID).Debug("Duplicate report event dropped")
		return
	}

	s.hub.Broadcast([]byte(payload))
}

// alreadySeen отмечает идентификатор как доставленный и сообщает, был ли он известен раньше.
// Множество ограничено по размеру: самые старые идентификаторы вытесняются первыми.
func (s *Subscriber) alreadySeen(id uuid.UUID) bool {
	if _, ok := s.seen[id]; ok {
		return true
	}
	if len(s.seenOrder) >= maxSeenIDs {
		oldest := s.seenOrder[0]
		s.seenOrder = s.seenOrder[1:]
		delete(s.seen, oldest)
	}
	s.seen[id] = struct{}{}
	s.seenOrder = append(s.seenOrder, id)
	return false
}
