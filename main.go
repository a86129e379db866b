package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/yourorg/listings-gateway/http"
	"github.com/yourorg/listings-gateway/internal/audit"
	"github.com/yourorg/listings-gateway/internal/config"
	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/internal/events"
	"github.com/yourorg/listings-gateway/internal/fallback"
	"github.com/yourorg/listings-gateway/internal/logger"
	"github.com/yourorg/listings-gateway/internal/redisx"
	"github.com/yourorg/listings-gateway/internal/seq"
	"github.com/yourorg/listings-gateway/internal/store"
	"github.com/yourorg/listings-gateway/upstream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "listings-gateway:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, dotenv := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	if dotenv {
		log.Info("loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub := events.NewInMemory(256)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.PostgresDSN != "" {
		st, err := store.Open(cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		rec := &audit.Recorder{Pub: pub, Sink: st, Log: log}
		g.Go(func() error { return rec.Run(gctx) })
	} else {
		// Nothing drains the bus; keep it from filling.
		g.Go(func() error {
			sub := pub.SubscribeDispatch()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-sub:
				}
			}
		})
	}

	var sequencer seq.Sequencer = seq.NewMemory()
	if cfg.RedisAddr != "" {
		rc := redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, using local fetch sequence", zap.Error(err))
		} else {
			sequencer = seq.NewRedis(rc, cfg.SequenceKey)
		}
	}

	client := upstream.NewClient(upstream.Options{
		Timeout:    cfg.Upstream.Timeout,
		RetryMax:   cfg.Upstream.RetryMax,
		RatePerSec: cfg.Upstream.RatePerSec,
		MaxBody:    cfg.Upstream.MaxBody,
		Logger:     log.Named("upstream"),
		Publisher:  pub,
	})

	policy, unknown := fallback.ParsePolicy(cfg.FallbackEndpoints)
	if len(unknown) > 0 {
		log.Warn("ignoring unknown FALLBACK_ENDPOINTS entries", zap.Strings("names", unknown))
	}

	router := BuildRouter(httpapi.Deps{
		Upstream:    client,
		Endpoints:   cfg.Upstream.Endpoints,
		Credentials: credentials.Env,
		Policy:      policy,
		Sequencer:   sequencer,
		Log:         log,
	}, cfg.RateLimitPerMin)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("listings-gateway listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
