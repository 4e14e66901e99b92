package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joefazee/findcountry/app"
	"github.com/joefazee/findcountry/app/countries"
	"github.com/joefazee/findcountry/app/database"
	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/nexus"
	"github.com/joefazee/findcountry/internal/restcountries"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	opts := []nexus.LoaderOption{}
	if file := os.Getenv("FINDCOUNTRY_CONFIG"); file != "" {
		opts = append(opts, nexus.WithFileName(file))
	}
	cfg, err := app.LoadConfig(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewZeroLogger(os.Stderr, logger.ParseLevel(cfg.LogLevel), logger.Fields{"service": "findcountry-cli"})

	db, err := database.Shared(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	detailCache, err := cache.NewCache[string](cfg.Cache)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := restcountries.NewClient(cfg.Fetch, nil, log)
	state := countries.NewListState(source, log)
	go state.Run(ctx)

	b := &browser{
		state:   state,
		service: countries.NewService(countries.NewRepository(db), source, detailCache, &cfg.Countries, log),
	}
	return newCLIApp(b).RunContext(ctx, os.Args)
}
