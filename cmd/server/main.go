package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/build-info-service/internal/config"
	"github.com/iliyamo/build-info-service/internal/handler"
	"github.com/iliyamo/build-info-service/internal/middleware"
	"github.com/iliyamo/build-info-service/internal/model"
	"github.com/iliyamo/build-info-service/internal/queue"
	"github.com/iliyamo/build-info-service/internal/repository"
	"github.com/iliyamo/build-info-service/internal/router"
	publisher "github.com/iliyamo/build-info-service/internal/service"
)

const serviceName = "build-info-service"

func main() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, config.Load())
	stop()
	os.Exit(code)
}

// run serves until ctx is cancelled or the listener fails and returns the
// process exit code.  Every resource it opens is released before it
// returns.
func run(ctx context.Context, cfg config.Config) int {
	startedAt := time.Now()
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	loaded, loadErr := repository.TryLoadWithFallback(cfg.BuildInfoPath, cfg.BuildInfoFallbacks...)
	info := repository.OrDefault(loaded, loadErr)

	versionCache, closeCache := newVersionCache(config.LoadCacheConfig(), info, config.NewRedisClient)
	defer closeCache()

	h := handler.NewMetaHandler(info, startedAt)
	e := router.New(h, info.IsDebug(), versionCache)

	if cfg.AnnounceEnabled {
		go announce(cfg, info, startedAt, loadErr == nil)
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	banner(cfg.Port, info)

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("server failed")
			return 1
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
			return 1
		}
	}
	return 0
}

// newVersionCache builds the /api/version cache.  The Redis client is only
// created when caching is enabled; the returned func releases it.  A nil
// middleware means the route is served uncached.
func newVersionCache(cacheCfg config.CacheConfig, info model.BuildInfo, newClient func() *redis.Client) (echo.MiddlewareFunc, func()) {
	if !cacheCfg.Enabled {
		return nil, func() {}
	}
	rdb := newClient()
	if rdb == nil {
		return nil, func() {}
	}
	scope := info.APIVersion + ":" + info.GitCommit
	return middleware.NewRedisCache(cacheCfg, rdb, scope), func() { _ = rdb.Close() }
}

// announce publishes the startup announcement once; failures are logged by
// the publisher and otherwise ignored.
func announce(cfg config.Config, info model.BuildInfo, startedAt time.Time, fromFile bool) {
	host, _ := os.Hostname()
	ev := queue.NewBuildAnnouncedEvent(info, serviceName, host, cfg.Port, startedAt, fromFile)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = publisher.PublishBuildAnnounced(ctx, cfg.AMQPURL, ev)
}

func banner(port int, info model.BuildInfo) {
	analytics := "Disabled"
	if info.AnalyticsEnabled {
		analytics = "Enabled"
	}
	log.Info().
		Int("port", port).
		Str("environment", info.Environment).
		Str("build_mode", info.BuildMode).
		Str("analytics", analytics).
		Str("api_version", info.APIVersion).
		Str("build_date", info.BuildDate).
		Str("git_commit", info.GitCommit).
		Msg("server running")

	paths := make([]string, 0, len(router.Endpoints))
	for _, ep := range router.Endpoints {
		paths = append(paths, "GET "+ep.Path+" ("+ep.Description+")")
	}
	log.Info().Msg("available endpoints: " + strings.Join(paths, ", "))
}
