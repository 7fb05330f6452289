package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mkalvans/farmline/internal/buildinfo"
	"github.com/mkalvans/farmline/internal/client/cli"
	"github.com/mkalvans/farmline/internal/client/config"
	"github.com/mkalvans/farmline/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
