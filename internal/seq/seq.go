// Package seq hands out monotonically increasing fetch sequence numbers.
// Clients compare them to discard responses from superseded fetches.
package seq

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/yourorg/listings-gateway/internal/redisx"
)

type Sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// Memory is a process-local counter.
type Memory struct{ n atomic.Int64 }

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Next(context.Context) (int64, error) { return m.n.Add(1), nil }

// Redis shares one counter across gateway replicas.
type Redis struct {
	client *redisx.Client
	key    string
}

func NewRedis(client *redisx.Client, key string) *Redis {
	if key == "" {
		key = "gateway:fetch-seq"
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Next(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, r.key)
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", r.key, err)
	}
	return n, nil
}
