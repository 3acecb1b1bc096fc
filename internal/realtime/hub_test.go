package realtime

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestHub() *Hub {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return NewHub(logger)
}

// stoppedHub возвращает хаб с уже завершенным циклом Run
func stoppedHub(t *testing.T, clients ...*Client) *Hub {
	t.Helper()
	hub := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	for _, client := range clients {
		hub.attach(client)
	}
	cancel()
	<-hub.done
	return hub
}

// assertReturns проваливает тест, если fn не завершается за секунду
func assertReturns(t *testing.T, name string, fn func()) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		fn()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("%s blocked after hub shutdown", name)
	}
}

func TestHub_DetachAfterShutdownDoesNotBlock(t *testing.T) {
	client := &Client{send: make(chan []byte, 1)}
	hub := stoppedHub(t, client)
	client.hub = hub

	// Отцепление клиента после остановки хаба не должно зависать:
	// именно так завершается ReadPump при graceful shutdown
	assertReturns(t, "detach", func() { hub.detach(client) })
}

func TestHub_AttachAfterShutdownDoesNotBlock(t *testing.T) {
	hub := stoppedHub(t)
	client := &Client{hub: hub, send: make(chan []byte, 1)}

	assertReturns(t, "attach", func() { hub.attach(client) })
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_BroadcastAfterShutdownDoesNotBlock(t *testing.T) {
	hub := stoppedHub(t)

	// Заполняем буфер канала и убеждаемся, что публикация не зависает
	assertReturns(t, "broadcast", func() {
		for i := 0; i < 300; i++ {
			hub.Broadcast([]byte("event"))
		}
	})
}
