// Package session owns the authenticated identity of a running client.
//
// The Store is the single writer of the Session: it persists credentials,
// resumes them at start, and notifies subscribers (the realtime manager, the
// CLI) whenever the Session changes. Readers use Token and State.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/storage"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

// ErrSessionExpired is returned by Resume when the server rejected the
// stored token.
var ErrSessionExpired = errors.New("session expired, please log in again")

// API is the part of the REST gateway the store needs.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// State is a snapshot for presentation.
type State struct {
	Session models.Session
	Loading bool
	Err     error
}

// Listener receives every published Session, including the empty one.
type Listener func(models.Session)

type Store struct {
	api  API
	repo storage.SessionRepository
	log  logging.Logger
	now  func() time.Time

	mu      sync.RWMutex
	session models.Session
	loading bool
	err     error

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewStore(api API, repo storage.SessionRepository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		api:       api,
		repo:      repo,
		log:       log.With("component", "session"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Session: s.session, Loading: s.loading, Err: s.err}
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) publish(sess models.Session) {
	s.lmu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.Unlock()

	for _, l := range ls {
		l(sess)
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
	return err
}

func (s *Store) set(sess models.Session) {
	s.mu.Lock()
	s.session = sess
	s.loading = false
	s.mu.Unlock()
	s.publish(sess)
}

// Login authenticates and, on success, persists and publishes the Session.
func (s *Store) Login(ctx context.Context, email, password string) (models.Session, error) {
	s.begin()
	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		s.log.Info(ctx, "login failed", "email", email, "error", err)
		return models.Session{}, s.fail(err)
	}
	return s.establish(ctx, resp)
}

// Register creates an account and signs it in; new accounts start unapproved.
func (s *Store) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	s.begin()
	var resp models.AuthResponse
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := s.api.Post(ctx, "/auth/register", req, &resp); err != nil {
		s.log.Info(ctx, "register failed", "email", email, "error", err)
		return models.Session{}, s.fail(err)
	}
	return s.establish(ctx, resp)
}

func (s *Store) establish(ctx context.Context, resp models.AuthResponse) (models.Session, error) {
	if resp.Token == "" || resp.User == nil {
		return models.Session{}, s.fail(&client.Error{Kind: client.ErrServer, Message: "invalid auth response"})
	}
	if err := s.repo.Save(ctx, storage.Credentials{Token: resp.Token, User: resp.User}); err != nil {
		s.log.Error(ctx, "persist session", "error", err)
		return models.Session{}, s.fail(err)
	}
	sess := models.NewSession(resp.Token, *resp.User)
	s.set(sess)
	s.log.Info(ctx, "signed in", "user_id", sess.UserID, "admin", sess.IsAdmin, "approved", sess.IsApproved)
	return sess, nil
}

// Logout clears storage and publishes the empty Session. Calling it while
// signed out is a no-op apart from the storage wipe.
func (s *Store) Logout(ctx context.Context) error {
	err := s.repo.Clear(ctx)
	if err != nil {
		s.log.Warn(ctx, "clear stored session", "error", err)
	}
	wasSignedIn := !s.Session().IsZero()
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	s.set(models.Session{})
	if wasSignedIn {
		s.log.Info(ctx, "signed out")
	}
	return err
}

// HandleUnauthorized drops the session after the server rejected the token.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	if s.Session().IsZero() {
		return
	}
	s.log.Warn(ctx, "token rejected by server, dropping session")
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clear stored session", "error", err)
	}
	s.set(models.Session{})
}

// UpdateUser replaces the cached profile without revalidating the token.
func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	cur := s.Session()
	if cur.IsZero() {
		return client.ErrUnauthorized
	}
	if err := s.repo.Save(ctx, storage.Credentials{Token: cur.Token, User: &u}); err != nil {
		return err
	}
	s.set(models.NewSession(cur.Token, u))
	return nil
}

// UpdateProfile saves company details on the server and caches the result.
func (s *Store) UpdateProfile(ctx context.Context, info models.CompanyInfo) (models.User, error) {
	if s.Session().IsZero() {
		return models.User{}, client.ErrUnauthorized
	}
	var u models.User
	if err := s.api.Put(ctx, "/auth/profile", map[string]any{"companyInfo": info}, &u); err != nil {
		return models.User{}, err
	}
	if err := s.UpdateUser(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
