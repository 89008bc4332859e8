package livesync

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// RetryInterval is the fixed delay between reconnection attempts. Retries
// continue unbounded until an open succeeds.
const RetryInterval = 5 * time.Second

// Conn is the read side of an open websocket. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a connection to the listen endpoint. The real dialer wraps
// gorilla's; tests substitute their own.
type Dialer interface {
	Dial(url string) (Conn, error)
}

type wsDialer struct{}

func (wsDialer) Dial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

// Timer is a cancelable scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules retry timers; the real clock is time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Channel is the reconnecting push feed behind the runtime view. States run
// connecting, open, closed-retrying, connecting again; on every close
// exactly one retry timer is armed, and a successful open cancels it.
type Channel struct {
	url      string
	dialer   Dialer
	clock    Clock
	now      func() time.Time
	interval time.Duration

	mu         sync.Mutex
	state      State
	conn       Conn
	retryTimer Timer
	closed     bool

	// onChange, when set, observes every state replacement. The viewer
	// uses it to wake its render loop.
	onChange func(State)
}

// Option adjusts a Channel at construction.
type Option func(*Channel)

// WithDialer substitutes the websocket dialer.
func WithDialer(d Dialer) Option {
	return func(c *Channel) { c.dialer = d }
}

// WithClock substitutes the retry clock.
func WithClock(clock Clock, now func() time.Time) Option {
	return func(c *Channel) {
		c.clock = clock
		c.now = now
	}
}

// WithRetryInterval overrides the fixed reconnect interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Channel) { c.interval = d }
}

// WithOnChange registers the state observer at construction.
func WithOnChange(fn func(State)) Option {
	return func(c *Channel) { c.onChange = fn }
}

// NewChannel creates a channel for the listen URL, e.g.
// "ws://localhost:64637/listen". Nothing connects until Connect.
func NewChannel(url string, opts ...Option) *Channel {
	c := &Channel{
		url:      url,
		dialer:   wsDialer{},
		clock:    realClock{},
		now:      time.Now,
		interval: RetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect makes the first connection attempt. On failure the retry cycle
// starts; Connect itself never blocks on the retries.
func (c *Channel) Connect() {
	c.attempt()
}

// attempt dials once. Success cancels any pending retry and starts the read
// loop; failure arms the single retry timer.
func (c *Channel) attempt() {
	conn, err := c.dialer.Dial(c.url)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if err == nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.scheduleRetryLocked()
		c.mu.Unlock()
		log.Printf("livesync: connect %s: %v", c.url, err)
		return
	}

	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.conn = conn
	c.state.Connected = true
	state := c.state
	c.mu.Unlock()

	c.notify(state)
	go c.readLoop(conn)
}

// readLoop consumes frames until the connection drops, then flips the view
// to unavailable and arms the retry cycle.
func (c *Channel) readLoop(conn Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(conn, err)
			return
		}

		c.mu.Lock()
		next, tag, applyErr := Apply(c.state, frame, c.now())
		if applyErr != nil {
			c.mu.Unlock()
			log.Printf("livesync: bad frame: %v", applyErr)
			continue
		}
		if tag == "" {
			// Unrecognized tag: ignored without error.
			c.mu.Unlock()
			continue
		}
		c.state = next
		c.mu.Unlock()
		c.notify(next)
	}
}

func (c *Channel) handleClose(conn Conn, err error) {
	conn.Close()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Connected = false
	state := c.state
	c.scheduleRetryLocked()
	c.mu.Unlock()

	log.Printf("livesync: connection lost: %v", err)
	c.notify(state)
}

// scheduleRetryLocked arms the retry timer unless one is already pending.
// The existing-handle check keeps duplicate close events from stacking
// timers.
func (c *Channel) scheduleRetryLocked() {
	if c.retryTimer != nil || c.closed {
		return
	}
	c.retryTimer = c.clock.AfterFunc(c.interval, c.retryFire)
}

// retryFire runs one reconnection attempt. On failure it re-arms itself, so
// at any moment at most one retry timer exists.
func (c *Channel) retryFire() {
	c.mu.Lock()
	c.retryTimer = nil
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.attempt()
}

// State returns a snapshot of the runtime view.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close shuts the channel down for good: the retry cycle stops and any open
// connection closes.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// SetOnChange replaces the state observer. Used when the observer (the
// viewer's program) is built after the channel.
func (c *Channel) SetOnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Channel) notify(state State) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
