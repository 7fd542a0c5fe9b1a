// Package realtime keeps the push connection that delivers listing and
// category changes to a signed-in client.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/common"
	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/gorilla/websocket"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Reconnecting
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

const (
	DefaultMaxAttempts = 5
	DefaultDelay       = 5 * time.Second
	DefaultDialTimeout = 30 * time.Second
)

var ErrNotConnected = errors.New("realtime channel not connected")

type Options struct {
	URL    string
	Token  string
	UserID string

	// MaxAttempts bounds consecutive failed re-dials after the first dial;
	// 0 retries forever.
	MaxAttempts int
	Delay       time.Duration
	DialTimeout time.Duration

	Dialer  Dialer
	Logger  logging.Logger
	OnState func(State)
}

type HandlerID uint64

// Handler receives the raw payload of a named event.
type Handler func(data json.RawMessage)

type namedHandler struct {
	id HandlerID
	fn Handler
}

type typedHandler struct {
	id HandlerID
	fn func(Event)
}

// Channel is one connection lifetime: it dials, reconnects on failure and
// stops for good on Close or when attempts run out. All handlers run on a
// single goroutine in frame arrival order.
type Channel struct {
	opts Options
	log  logging.Logger

	mu     sync.Mutex
	state  State
	conn   Conn
	named  map[string][]namedHandler
	typed  []typedHandler
	nextID HandlerID

	wmu sync.Mutex

	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

func NewChannel(opts Options) *Channel {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{HandshakeTimeout: opts.DialTimeout}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Channel{
		opts:  opts,
		log:   log.With("component", "realtime", "user_id", opts.UserID),
		named: make(map[string][]namedHandler),
		done:  make(chan struct{}),
	}
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the channel has stopped for good.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	changed := c.state != s
	c.state = s
	c.mu.Unlock()
	if changed && c.opts.OnState != nil {
		c.opts.OnState(s)
	}
}

// On subscribes fn to frames named name.
func (c *Channel) On(name string, fn Handler) HandlerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.named[name] = append(c.named[name], namedHandler{id: c.nextID, fn: fn})
	return c.nextID
}

// OnEvent subscribes fn to every decoded Event.
func (c *Channel) OnEvent(fn func(Event)) HandlerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.typed = append(c.typed, typedHandler{id: c.nextID, fn: fn})
	return c.nextID
}

// Off removes a handler registered with On or OnEvent.
func (c *Channel) Off(id HandlerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, hs := range c.named {
		for i, h := range hs {
			if h.id == id {
				c.named[name] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
	for i, h := range c.typed {
		if h.id == id {
			c.typed = append(c.typed[:i:i], c.typed[i+1:]...)
			return
		}
	}
}

// Emit sends a frame to the server.
func (c *Channel) Emit(name string, data any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return c.write(conn, name, data)
}

func (c *Channel) write(conn Conn, name string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	b, err := json.Marshal(Frame{Event: name, Data: raw})
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, b)
}

// Start begins connecting in the background. Calling it again is a no-op.
func (c *Channel) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		c.mu.Lock()
		c.cancel = cancel
		c.mu.Unlock()
		go c.run(ctx)
	})
}

// Close stops the channel and waits for its goroutine. Safe to call more
// than once and before Start.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		started := true
		c.startOnce.Do(func() { started = false })
		if !started {
			close(c.done)
			return
		}

		c.mu.Lock()
		cancel := c.cancel
		c.mu.Unlock()
		cancel()

		// serve publishes conn under mu only while ctx is live
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		<-c.done
	})
	return nil
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(Disconnected)

	failures := 0
	c.setState(Connecting)
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var hs *HandshakeError
			if errors.As(err, &hs) && (hs.Status == http.StatusUnauthorized || hs.Status == http.StatusForbidden) {
				c.log.Warn(ctx, "realtime token rejected, giving up", "status", hs.Status)
				return
			}
			if c.opts.MaxAttempts > 0 && failures >= c.opts.MaxAttempts {
				c.log.Warn(ctx, "realtime reconnect attempts exhausted", "attempts", failures, "error", err)
				return
			}
			failures++
			c.log.Info(ctx, "realtime dial failed", "attempt", failures, "error", err)
			c.setState(Reconnecting)
			if !sleep(ctx, c.opts.Delay) {
				return
			}
			continue
		}

		failures = 0
		c.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		c.setState(Reconnecting)
		if !sleep(ctx, c.opts.Delay) {
			return
		}
	}
}

func (c *Channel) dial(ctx context.Context) (Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()

	header := http.Header{}
	if c.opts.Token != "" {
		header.Set(common.AuthorizationHeaderName, common.BearerToken(c.opts.Token))
	}
	return c.opts.Dialer.Dial(dctx, c.opts.URL, header)
}

// serve owns conn until it fails or ctx ends.
func (c *Channel) serve(ctx context.Context, conn Conn) {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	c.setState(Connected)
	c.log.Info(ctx, "realtime connected", "url", c.opts.URL)

	if err := c.write(conn, EventJoin, map[string]string{"userId": c.opts.UserID}); err != nil {
		c.log.Warn(ctx, "realtime join failed", "error", err)
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Info(ctx, "realtime connection lost", "error", err)
			}
			return
		}
		var f Frame
		if err := json.Unmarshal(msg, &f); err != nil || f.Event == "" {
			c.log.Warn(ctx, "realtime: dropping malformed frame", "error", err)
			continue
		}
		c.dispatch(ctx, f)
	}
}

func (c *Channel) dispatch(ctx context.Context, f Frame) {
	c.mu.Lock()
	named := append([]namedHandler(nil), c.named[f.Event]...)
	typed := append([]typedHandler(nil), c.typed...)
	c.mu.Unlock()

	for _, h := range named {
		h.fn(f.Data)
	}
	if len(typed) == 0 {
		return
	}

	ev, err := Decode(f)
	if err != nil {
		var unknown ErrUnknownEvent
		if !errors.As(err, &unknown) {
			c.log.Warn(ctx, "realtime: bad event payload", "event", f.Event, "error", err)
		}
		return
	}
	for _, h := range typed {
		h.fn(ev)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
