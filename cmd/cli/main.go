package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/kodjobs/internal/buildinfo"
	"github.com/dmitrijs2005/kodjobs/internal/client/assets"
	"github.com/dmitrijs2005/kodjobs/internal/client/cli"
	"github.com/dmitrijs2005/kodjobs/internal/client/config"
	"github.com/dmitrijs2005/kodjobs/internal/client/content"
	"github.com/dmitrijs2005/kodjobs/internal/client/notify"
	"github.com/dmitrijs2005/kodjobs/internal/client/seed"
	"github.com/dmitrijs2005/kodjobs/internal/client/services"
	"github.com/dmitrijs2005/kodjobs/internal/client/storage"
	"github.com/dmitrijs2005/kodjobs/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	store, err := storage.Open(ctx, storage.Options{
		Backend:   cfg.StoreBackend,
		DSN:       cfg.StoreDSN,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(ctx, "storage close failed", "error", err)
		}
	}()

	users, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}

	var uploader assets.Uploader
	switch cfg.AssetBackend {
	case "s3":
		uploader = assets.NewS3Uploader(assets.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	default:
		uploader = assets.NewLocalUploader()
	}

	session := services.NewSessionStore(store.KV,
		services.WithLogger(logger.With("component", "session")),
		services.WithNotifier(notify.Multi{
			notify.NewWriterNotifier(os.Stdout),
			notify.NewLogNotifier(logger.With("component", "notify")),
		}),
		services.WithDelay(cfg.AuthDelay),
		services.WithSeed(users),
		services.WithNamespace(cfg.Namespace),
	)
	session.Hydrate(ctx)

	app := cli.NewApp(session, uploader, content.Default(), logger)
	app.Run(ctx)

}
