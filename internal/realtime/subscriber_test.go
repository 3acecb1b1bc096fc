package realtime

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/electricity_status_map/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSubscriber() (*Subscriber, *Hub) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	hub := NewHub(logger)
	return NewSubscriber(nil, hub, logger), hub
}

func eventPayload(t *testing.T, id uuid.UUID) string {
	t.Helper()
	payload, err := json.Marshal(ReportEvent{
		Type:   "report_created",
		Report: &models.Report{ID: id, Latitude: 50.45, Longitude: 30.52, HasElectricity: true},
	})
	require.NoError(t, err)
	return string(payload)
}

// drainBroadcast возвращает число событий, накопленных в канале хаба
func drainBroadcast(hub *Hub) int {
	count := 0
	for {
		select {
		case <-hub.broadcast:
			count++
		default:
			return count
		}
	}
}

func TestSubscriber_ForwardsNewEvent(t *testing.T) {
	subscriber, hub := newTestSubscriber()

	subscriber.handleMessage(eventPayload(t, uuid.New()))

	assert.Equal(t, 1, drainBroadcast(hub))
}

func TestSubscriber_DropsDuplicateEvent(t *testing.T) {
	subscriber, hub := newTestSubscriber()
	id := uuid.New()
	payload := eventPayload(t, id)

	// Повторная доставка события с известным идентификатором - no-op
	subscriber.handleMessage(payload)
	subscriber.handleMessage(payload)

	assert.Equal(t, 1, drainBroadcast(hub))
}

func TestSubscriber_DistinctEventsPass(t *testing.T) {
	subscriber, hub := newTestSubscriber()

	subscriber.handleMessage(eventPayload(t, uuid.New()))
	subscriber.handleMessage(eventPayload(t, uuid.New()))

	assert.Equal(t, 2, drainBroadcast(hub))
}

func TestSubscriber_IgnoresMalformedPayload(t *testing.T) {
	subscriber, hub := newTestSubscriber()

	subscriber.handleMessage("not json")
	subscriber.handleMessage(`{"type": "report_created"}`) // без вложенного report

	assert.Equal(t, 0, drainBroadcast(hub))
}

func TestSubscriber_SeenSetBounded(t *testing.T) {
	subscriber, hub := newTestSubscriber()

	// Переполняем множество доставленных идентификаторов
	for i := 0; i < maxSeenIDs+10; i++ {
		subscriber.handleMessage(eventPayload(t, uuid.New()))
		// Освобождаем буфер хаба, чтобы он не переполнился
		drainBroadcast(hub)
	}

	assert.LessOrEqual(t, len(subscriber.seen), maxSeenIDs)
	assert.LessOrEqual(t, len(subscriber.seenOrder), maxSeenIDs)
}

func TestAlreadySeen_EvictsOldestFirst(t *testing.T) {
	subscriber, _ := newTestSubscriber()

	first := uuid.New()
	require.False(t, subscriber.alreadySeen(first))
	require.True(t, subscriber.alreadySeen(first))

	// После вытеснения первый идентификатор снова считается новым
	for i := 0; i < maxSeenIDs; i++ {
		subscriber.alreadySeen(uuid.New())
	}
	assert.False(t, subscriber.alreadySeen(first))
}
