package progress

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franmoretti/pricewatch/internal/models"
)

func receiveEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubSubscribeSendsConnectedAck(t *testing.T) {
	hub := NewHub(slog.Default())

	id, events := hub.Subscribe()
	defer hub.Unsubscribe(id)

	ev := receiveEvent(t, events)
	assert.Equal(t, TypeConnected, ev.Type)
	assert.NotEmpty(t, ev.ID)
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub(slog.Default())

	idA, eventsA := hub.Subscribe()
	defer hub.Unsubscribe(idA)
	idB, eventsB := hub.Subscribe()
	defer hub.Unsubscribe(idB)

	// Drain the acks.
	receiveEvent(t, eventsA)
	receiveEvent(t, eventsB)

	hub.Publish(Started(3))

	evA := receiveEvent(t, eventsA)
	evB := receiveEvent(t, eventsB)
	assert.Equal(t, TypeStarted, evA.Type)
	assert.Equal(t, TypeStarted, evB.Type)
	assert.Equal(t, 3, evA.Total)
}

func TestHubSlowListenerDoesNotBlockPublish(t *testing.T) {
	hub := NewHub(slog.Default())

	id, _ := hub.Subscribe()
	defer hub.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		// Way past the buffer size; nobody is reading.
		for i := 0; i < listenerBuffer*3; i++ {
			hub.Publish(Progress(i+1, listenerBuffer*3, "sporting"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow listener")
	}
}

func TestHubPublishDuringUnsubscribe(t *testing.T) {
	hub := NewHub(slog.Default())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.Publish(Started(1))
				}
			}
		}()
	}

	// Churn listeners while the publishers run; a send on a channel
	// closed by Unsubscribe would panic the publishing goroutine.
	for i := 0; i < 5000; i++ {
		id, events := hub.Subscribe()
		go func() {
			for range events {
			}
		}()
		hub.Unsubscribe(id)
	}

	close(stop)
	wg.Wait()
	assert.Equal(t, 0, hub.ListenerCount())
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(slog.Default())

	id, events := hub.Subscribe()
	receiveEvent(t, events)

	hub.Unsubscribe(id)

	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, hub.ListenerCount())
}

func TestCompletedEventCountsOutcomes(t *testing.T) {
	results := []models.Outcome{
		{Source: models.Source{Name: "dia"}, Status: models.OutcomeSuccess},
		{Source: models.Source{Name: "coto"}, Status: models.OutcomeError, Err: "could not extract product price"},
		{Source: models.Source{Name: "sporting"}, Status: models.OutcomeSuccess},
	}

	ev := Completed(results)

	require.Equal(t, TypeCompleted, ev.Type)
	assert.Equal(t, 2, ev.Succeeded)
	assert.Equal(t, 1, ev.Failed)
	assert.Equal(t, "Scraping completado: 2 exitosos, 1 con errores", ev.Message)
	assert.Len(t, ev.Results, 3)
}

func TestProgressEventMessage(t *testing.T) {
	ev := Progress(2, 5, "Camiseta River")

	assert.Equal(t, TypeProgress, ev.Type)
	assert.Equal(t, "Procesando Camiseta River (2/5)", ev.Message)
	assert.Equal(t, 2, ev.Current)
	assert.Equal(t, 5, ev.Total)
	assert.False(t, ev.Timestamp.IsZero())
}
