// Package server wires the development backend: repositories, services, the
// realtime hub and the HTTP server, and runs them until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/dmitrijs2005/reverseauction/internal/server/api"
	"github.com/dmitrijs2005/reverseauction/internal/server/categories"
	"github.com/dmitrijs2005/reverseauction/internal/server/config"
	"github.com/dmitrijs2005/reverseauction/internal/server/hub"
	"github.com/dmitrijs2005/reverseauction/internal/server/listings"
	"github.com/dmitrijs2005/reverseauction/internal/server/shared/db"
	"github.com/dmitrijs2005/reverseauction/internal/server/users"
	"github.com/gin-gonic/gin"
)

const expiryInterval = time.Minute

type App struct {
	config          *config.Config
	logger          logging.Logger
	hub             *hub.Hub
	repositories    db.RepositoryManager
	userService     *users.Service
	listingService  *listings.Service
	categoryService *categories.Service
	handler         http.Handler
}

// NewApp builds the backend and seeds the admin account and starter categories
// configured in c. Data lives in PostgreSQL when c.DatabaseDSN is set and in
// memory otherwise.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	gin.SetMode(gin.ReleaseMode)

	rm, err := newRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, err
	}
	h := hub.New(logger)

	us := users.NewService(rm.Users(), c)
	cs := categories.NewService(rm.Categories(), h)
	ls := listings.NewService(rm.Listings(), cs, h)

	if c.AdminEmail != "" {
		if err := us.SeedAdmin(ctx, c.AdminName, c.AdminEmail, []byte(c.AdminPassword)); err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	if c.SeedCategories {
		if err := cs.Seed(ctx, categories.DefaultSeed); err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("seed categories: %w", err)
		}
	}

	return &App{
		config:          c,
		logger:          logger,
		hub:             h,
		repositories:    rm,
		userService:     us,
		listingService:  ls,
		categoryService: cs,
		handler:         api.NewRouter(api.NewHandler(us, ls, cs, h, logger)),
	}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config, logger logging.Logger) (db.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "using in-memory storage")
		return db.NewInMemoryRepositoryManager(), nil
	}
	rm, err := db.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info(ctx, "using postgres storage")
	return rm, nil
}

// Handler is the root HTTP handler, REST under /api and the websocket at /ws.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Close disconnects all realtime clients and releases the storage.
func (app *App) Close() {
	app.hub.Close()
	if err := app.repositories.Close(); err != nil {
		app.logger.Warn(context.Background(), "close storage", "error", err)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewServer(app.config.ListenAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// expireListings closes listings whose expiry passed, once per interval.
func (app *App) expireListings(ctx context.Context) {
	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.listingService.ExpireDue(ctx)
			if err != nil {
				app.logger.Warn(ctx, "expire listings", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "listings expired", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.expireListings(ctx)
	}()

	wg.Wait()
	app.Close()
}
