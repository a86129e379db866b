package httpapi

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/internal/seq"
	"github.com/yourorg/listings-gateway/upstream"
)

// Deps is shared by every gateway handler. Credentials are looked up on each
// request so rotated secrets take effect without a restart.
type Deps struct {
	Upstream    *upstream.Client
	Endpoints   upstream.Endpoints
	Credentials credentials.Source
	Policy      fallback.Policy
	Sequencer   seq.Sequencer
	Log         *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// direct resolves credentials and issues one GET against the provider.
func (d Deps) direct(ctx context.Context, path string, query url.Values) (*upstream.Response, error) {
	creds, err := credentials.Resolve(d.Credentials)
	if err != nil {
		return nil, err
	}
	return d.Upstream.Direct(ctx, creds, path, query)
}

func (d Deps) nextSequence(ctx context.Context) int64 {
	if d.Sequencer == nil {
		return 0
	}
	n, err := d.Sequencer.Next(ctx)
	if err != nil {
		d.logger().Warn("fetch sequence unavailable", zap.Error(err))
		return 0
	}
	return n
}

func (d Deps) degraded(kind fallback.Kind, err error) {
	d.logger().Warn("serving fallback data", zap.String("endpoint", string(kind)), zap.Error(err))
}
