// Package progress carries batch lifecycle notifications from the
// runner to whoever is watching: the SSE endpoint, the CLI, or an
// out-of-process consumer behind the Redis sink.
package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/franmoretti/pricewatch/internal/models"
)

type Type string

const (
	// TypeConnected is the synthetic acknowledgment a listener gets at
	// subscription time. No replay of earlier events is guaranteed.
	TypeConnected Type = "connected"
	TypeStarted   Type = "started"
	TypeProgress  Type = "progress"
	TypeSuccess   Type = "success"
	TypeError     Type = "error"
	TypeCompleted Type = "completed"
)

// Event is one lifecycle notification. Message is human-readable
// Spanish for direct display; the structured fields carry the same
// information for programmatic consumers.
type Event struct {
	ID        string                   `json:"id"`
	Type      Type                     `json:"type"`
	Message   string                   `json:"message"`
	Total     int                      `json:"total_count,omitempty"`
	Current   int                      `json:"current_index,omitempty"`
	Source    string                   `json:"source,omitempty"`
	Data      *models.ExtractionResult `json:"data,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Succeeded int                      `json:"succeeded,omitempty"`
	Failed    int                      `json:"failed,omitempty"`
	Results   []models.Outcome         `json:"results,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

func newEvent(t Type) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

func Connected() Event {
	ev := newEvent(TypeConnected)
	ev.Message = "Conectado al stream de eventos"
	return ev
}

func Started(total int) Event {
	ev := newEvent(TypeStarted)
	ev.Total = total
	ev.Message = fmt.Sprintf("Iniciando scraping de %d fuentes", total)
	return ev
}

func Progress(current, total int, source string) Event {
	ev := newEvent(TypeProgress)
	ev.Current = current
	ev.Total = total
	ev.Source = source
	ev.Message = fmt.Sprintf("Procesando %s (%d/%d)", source, current, total)
	return ev
}

func Success(source string, data *models.ExtractionResult) Event {
	ev := newEvent(TypeSuccess)
	ev.Source = source
	ev.Data = data
	ev.Message = fmt.Sprintf("%s actualizado: $%s", source, data.Price)
	return ev
}

func Failure(source, message string) Event {
	ev := newEvent(TypeError)
	ev.Source = source
	ev.Error = message
	ev.Message = fmt.Sprintf("Error en %s: %s", source, message)
	return ev
}

func Completed(results []models.Outcome) Event {
	ev := newEvent(TypeCompleted)
	ev.Results = results
	for _, r := range results {
		if r.Status == models.OutcomeSuccess {
			ev.Succeeded++
		} else {
			ev.Failed++
		}
	}
	ev.Message = fmt.Sprintf("Scraping completado: %d exitosos, %d con errores", ev.Succeeded, ev.Failed)
	return ev
}
