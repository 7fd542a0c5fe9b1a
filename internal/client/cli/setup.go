package cli

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/config"
	"github.com/dmitrijs2005/reverseauction/internal/client/feed"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/client/services"
	"github.com/dmitrijs2005/reverseauction/internal/client/session"
	"github.com/dmitrijs2005/reverseauction/internal/client/storage"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

// NewApp wires storage, the REST client, the session store, the realtime
// manager and the feed, then resumes a stored session. The returned func
// releases everything and must be called once the App is done.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, func(), error) {
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var store *session.Store
	api := client.New(client.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Token:   func() string { return store.Token() },
		Logger:  log,
	})
	store = session.NewStore(api, repo, log)
	api.SetUnauthorizedHandler(store.HandleUnauthorized)

	live := realtime.NewManager(realtime.ManagerOptions{
		URL:         cfg.RealtimeURL,
		MaxAttempts: cfg.ReconnectMaxAttempts,
		Delay:       cfg.ReconnectDelay,
		DialTimeout: cfg.DialTimeout,
		Logger:      log,
	})

	view := feed.New(feed.DefaultNotificationLimit)
	live.OnEvent(func(ev realtime.Event) {
		view.Apply(ev, store.Session().UserID)
	})
	unsubscribeLive := store.Subscribe(live.HandleSession)
	unsubscribeFeed := store.Subscribe(view.HandleSession)

	listings := services.NewListingService(api, log)
	categories := services.NewCategoryService(api)
	users := services.NewUserService(api)

	app := New(Deps{
		Store:      store,
		Listings:   listings,
		Categories: categories,
		Users:      users,
		Dashboard:  services.NewDashboardService(users, listings, categories, log),
		Feed:       view,
		Live:       live,
		Logger:     log,
		In:         in,
		Out:        out,
	})

	closeFn := func() {
		unsubscribeFeed()
		unsubscribeLive()
		if err := live.Close(); err != nil {
			log.Warn(context.Background(), "close realtime", "error", err)
		}
		if err := repo.Close(); err != nil {
			log.Warn(context.Background(), "close storage", "error", err)
		}
	}

	res, err := store.Resume(ctx)
	app.reportResume(res, err)

	return app, closeFn, nil
}

func (a *App) reportResume(res session.ResumeResult, err error) {
	switch res.Outcome {
	case session.Resumed:
		a.greetBack(res.User)
	case session.Expired:
		a.println("Your session has expired, please log in again.")
	default:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn(context.Background(), "resume session", "error", err)
			a.println("Could not restore your session:", client.Message(err))
		}
	}
}

func (a *App) greetBack(u *models.User) {
	if u == nil {
		return
	}
	a.printf("Welcome back, %s!\n", u.Name)
}
