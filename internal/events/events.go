package events

import (
	"context"
	"time"
)

// DispatchRecorded describes one outbound upstream call. URL has secrets
// redacted.
type DispatchRecorded struct {
	ID         string
	Mode       string
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Error      string
	At         time.Time
}

type Publisher interface {
	PublishDispatch(ctx context.Context, evt DispatchRecorded)
	SubscribeDispatch() <-chan DispatchRecorded
}

type inMemory struct{ ch chan DispatchRecorded }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{ch: make(chan DispatchRecorded, buffer)}
}

// PublishDispatch drops the event when the buffer is full; dispatch never
// waits on diagnostics.
func (m *inMemory) PublishDispatch(_ context.Context, evt DispatchRecorded) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeDispatch() <-chan DispatchRecorded { return m.ch }
