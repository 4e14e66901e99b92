package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/findcountry/app"
	"github.com/joefazee/findcountry/app/api"
	"github.com/joefazee/findcountry/app/countries"
	"github.com/joefazee/findcountry/app/database"
	apiDoc "github.com/joefazee/findcountry/app/doc"
	_ "github.com/joefazee/findcountry/docs"
	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/deps"
	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/internal/router"
	"github.com/joefazee/findcountry/internal/sanitizer"
)

// @title Find Country API
// @version 1.0
// @description Browse countries from restcountries: filter, sort, favorites, detail and locally stored country info.
// @x-logo {"url": "https://go.dev/images/go-logo-white.svg", "altText": "Go API Logo"}

// @contact.name API Support Team

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @servers.url http://localhost:8080/
// @servers.description Local Development Server
func main() {
	flag.String("config", "", "path to a configuration file")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.Fields{
		"service": "findcountry",
		"env":     cfg.Env,
	})

	db, err := database.Shared(&cfg.DB)
	if err != nil {
		log.Fatal(err, map[string]interface{}{"msg": "failed to connect to database"})
	}

	cacheService, err := cache.NewCache[string](cfg.Cache)
	if err != nil {
		log.Fatal(err, map[string]interface{}{"msg": "failed to create cache"})
	}

	source := restcountries.NewClient(cfg.Fetch, nil, log)
	container := deps.NewContainer(db, source, sanitizer.NewHTMLStripper(), log, cacheService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := countries.Init(container, &cfg.Countries)
	go state.Run(ctx)
	go func() {
		if _, err := state.Refresh(ctx); err != nil {
			log.Error(err, map[string]interface{}{"msg": "initial country fetch failed"})
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(log), api.CorsMiddleware())

	router.NewMounter(container).
		Public(r).
		Handle(http.MethodGet, "/healthz", api.HealthCheck).
		Mount(countries.Mount)

	apiDoc.Init(r, apiDoc.Options{
		Environment: cfg.Env,
		Host:        cfg.AppHost,
		Port:        cfg.AppPort,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting findcountry API server", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, map[string]interface{}{"msg": "server failed"})
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, map[string]interface{}{"msg": "graceful shutdown failed"})
	}
}
