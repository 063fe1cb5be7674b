package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/fist-o/expoadmin/internal/buildinfo"
	"github.com/fist-o/expoadmin/internal/client/cli"
	"github.com/fist-o/expoadmin/internal/client/config"
	"github.com/fist-o/expoadmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
