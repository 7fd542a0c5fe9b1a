package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/reverseauction/internal/buildinfo"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/dmitrijs2005/reverseauction/internal/server"
	"github.com/dmitrijs2005/reverseauction/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
