// Command announce-consumer records build announcements published by the
// service into a deployment log.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/build-info-service/internal/config"
	"github.com/iliyamo/build-info-service/internal/queue"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := queue.RunAnnouncementConsumer(ctx, cfg.AMQPURL, cfg.LogDir); err != nil {
		log.Error().Err(err).Msg("announce-consumer stopped")
		stop()
		os.Exit(1)
	}
}
