package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/reverseauction/internal/buildinfo"
	"github.com/dmitrijs2005/reverseauction/internal/client/cli"
	"github.com/dmitrijs2005/reverseauction/internal/client/config"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	ctx := context.Background()

	app, closeFn, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closeFn()

	app.Run(ctx)

}
