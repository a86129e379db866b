// Package audit drains dispatch events into a persistent sink.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/listings-gateway/internal/events"
)

type Sink interface {
	RecordDispatch(ctx context.Context, rec events.DispatchRecorded) error
}

// Recorder consumes dispatch events until ctx is done. Sink failures are
// logged and never retried.
type Recorder struct {
	Pub  events.Publisher
	Sink Sink
	Log  *zap.Logger
}

func (r *Recorder) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	sub := r.Pub.SubscribeDispatch()
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec := <-sub:
			if err := r.Sink.RecordDispatch(ctx, rec); err != nil {
				log.Warn("record dispatch", zap.String("dispatch_id", rec.ID), zap.Error(err))
			}
		}
	}
}
