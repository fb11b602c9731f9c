package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophprofile/internal/client/cli"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(logging.Options{Format: logging.Format(cfg.LogFormat), Level: cfg.LogLevel})

	app, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
