// Package sse frames relay events as text/event-stream.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"

	"jobcoach/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

var emptyPayload = []byte("{}")

type dataPayload struct {
	Content string `json:"content"`
}

// SetHeaders marks the response as an uncached, unbuffered event stream.
func SetHeaders(c fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

// Writer is a usecase.EventSink that flushes after every event.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w *bufio.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Send(ev usecase.Event) error {
	payload := emptyPayload
	if ev.Kind == usecase.EventData {
		b, err := json.Marshal(dataPayload{Content: ev.Content})
		if err != nil {
			return err
		}
		payload = b
	}

	if _, err := fmt.Fprintf(w.w, "event: %s\ndata: %s\n\n", ev.Kind, payload); err != nil {
		return err
	}
	return w.w.Flush()
}
