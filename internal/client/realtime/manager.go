package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
)

// ManagerOptions are copied into every Channel the Manager creates.
type ManagerOptions struct {
	URL         string
	MaxAttempts int
	Delay       time.Duration
	DialTimeout time.Duration
	Dialer      Dialer
	Logger      logging.Logger
	OnState     func(State)
}

// Manager ties Channel lifetimes to the Session: a non-empty Session gets a
// fresh Channel, an empty one closes it. Event subscribers registered on the
// Manager are attached to every Channel it creates.
type Manager struct {
	opts ManagerOptions
	log  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	current *Channel
	token   string
	subs    []func(Event)
	closed  bool
}

func NewManager(opts ManagerOptions) *Manager {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{opts: opts, log: log, ctx: ctx, cancel: cancel}
}

// OnEvent registers fn on the current and all future Channels.
func (m *Manager) OnEvent(fn func(Event)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	ch := m.current
	m.mu.Unlock()
	if ch != nil {
		ch.OnEvent(fn)
	}
}

// Channel returns the live Channel or nil when signed out.
func (m *Manager) Channel() *Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// State of the current Channel; Disconnected when there is none.
func (m *Manager) State() State {
	if ch := m.Channel(); ch != nil {
		return ch.State()
	}
	return Disconnected
}

// HandleSession is the session listener. A token change replaces the Channel;
// a profile-only update with the same token keeps it.
func (m *Manager) HandleSession(sess models.Session) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if !sess.IsZero() && m.current != nil && m.token == sess.Token {
		m.mu.Unlock()
		return
	}
	old := m.current
	m.current = nil
	m.token = ""

	var next *Channel
	if !sess.IsZero() {
		next = NewChannel(Options{
			URL:         m.opts.URL,
			Token:       sess.Token,
			UserID:      sess.UserID,
			MaxAttempts: m.opts.MaxAttempts,
			Delay:       m.opts.Delay,
			DialTimeout: m.opts.DialTimeout,
			Dialer:      m.opts.Dialer,
			Logger:      m.log,
			OnState:     m.opts.OnState,
		})
		for _, fn := range m.subs {
			next.OnEvent(fn)
		}
		m.current = next
		m.token = sess.Token
	}
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	if next != nil {
		next.Start(m.ctx)
	}
}

// Close shuts the current Channel; later sessions are ignored.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	ch := m.current
	m.current = nil
	m.mu.Unlock()

	m.cancel()
	if ch != nil {
		return ch.Close()
	}
	return nil
}
