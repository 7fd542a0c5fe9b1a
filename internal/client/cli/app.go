package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/feed"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/client/services"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

// AuthStore is the part of the session store the CLI drives.
type AuthStore interface {
	Session() models.Session
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (models.Session, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, info models.CompanyInfo) (models.User, error)
}

// LiveState reports the realtime connection state for the prompt.
type LiveState interface {
	State() realtime.State
}

type Deps struct {
	Store      AuthStore
	Listings   *services.ListingService
	Categories *services.CategoryService
	Users      *services.UserService
	Dashboard  *services.DashboardService
	Feed       *feed.Feed
	Live       LiveState
	Logger     logging.Logger
	In         io.Reader
	Out        io.Writer
}

type App struct {
	store      AuthStore
	listings   *services.ListingService
	categories *services.CategoryService
	users      *services.UserService
	dashboard  *services.DashboardService
	feed       *feed.Feed
	live       LiveState
	log        logging.Logger
	reader     *bufio.Reader
	out        io.Writer

	// history keeps notifications already shown at the prompt.
	history []feed.Notification
}

func New(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Feed == nil {
		d.Feed = feed.New(feed.DefaultNotificationLimit)
	}
	return &App{
		store:      d.Store,
		listings:   d.Listings,
		categories: d.Categories,
		users:      d.Users,
		dashboard:  d.Dashboard,
		feed:       d.Feed,
		live:       d.Live,
		log:        d.Logger,
		reader:     bufio.NewReader(d.In),
		out:        d.Out,
	}
}

// Run blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	a.println("Reverse auction marketplace (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return !a.store.Session().IsZero()
}

func (a *App) isAdmin() bool {
	return a.store.Session().IsAdmin
}

func (a *App) status() string {
	var parts []string
	sess := a.store.Session()
	if sess.User != nil {
		parts = append(parts, sess.User.Email)
		if sess.IsAdmin {
			parts = append(parts, "admin")
		} else if !sess.IsApproved {
			parts = append(parts, "pending approval")
		}
	}
	if a.live != nil && !sess.IsZero() {
		parts = append(parts, a.live.State().String())
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// notifications moves queued feed notifications into the shown history.
func (a *App) notifications() []string {
	fresh := a.feed.DrainNotifications()
	if len(fresh) == 0 {
		return nil
	}
	a.history = append(a.history, fresh...)
	if n := len(a.history) - feed.DefaultNotificationLimit; n > 0 {
		a.history = a.history[n:]
	}
	out := make([]string, len(fresh))
	for i, n := range fresh {
		out[i] = n.Text
	}
	return out
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
