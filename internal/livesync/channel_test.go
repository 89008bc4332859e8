package livesync

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeConn feeds scripted frames to the read loop; closing drop ends it.
type fakeConn struct {
	frames chan []byte
	drop   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		drop:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case f := <-c.frames:
		return 1, f, nil
	case <-c.drop:
		return 0, nil, errors.New("connection dropped")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.drop) })
	return nil
}

// fakeDialer pops one scripted result per dial.
type fakeDialer struct {
	mu      sync.Mutex
	results []dialResult
	dials   int
}

type dialResult struct {
	conn *fakeConn
	err  error
}

func (d *fakeDialer) Dial(url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.results) == 0 {
		return nil, errors.New("no scripted result")
	}
	r := d.results[0]
	d.results = d.results[1:]
	if r.err != nil {
		return nil, r.err
	}
	return r.conn, nil
}

func (d *fakeDialer) script(r dialResult) {
	d.mu.Lock()
	d.results = append(d.results, r)
	d.mu.Unlock()
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// manualClock counts armed retry timers and fires them on demand.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *manualClock) fireOne(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	var due *manualTimer
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			due = timer
			break
		}
	}
	if due != nil {
		due.fired = true
	}
	c.mu.Unlock()

	if due == nil {
		t.Fatal("no live retry timer to fire")
	}
	due.f()
}

func waitForState(t *testing.T, states <-chan State, pred func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
		}
	}
}

func newTestChannel(dialer *fakeDialer, clock *manualClock, states chan State) *Channel {
	return NewChannel("ws://test/listen",
		WithDialer(dialer),
		WithClock(clock, func() time.Time { return time.Unix(0, 0) }),
		WithOnChange(func(s State) {
			select {
			case states <- s:
			default:
			}
		}))
}

func TestConnect_FailureArmsSingleRetry(t *testing.T) {
	dialer := &fakeDialer{}
	clock := &manualClock{}
	c := newTestChannel(dialer, clock, make(chan State, 16))
	defer c.Close()

	dialer.script(dialResult{err: errors.New("refused")})
	c.Connect()

	if clock.active() != 1 {
		t.Fatalf("expected one retry timer, got %d", clock.active())
	}

	// Every failed retry re-arms exactly one timer.
	for i := 0; i < 3; i++ {
		dialer.script(dialResult{err: errors.New("refused")})
		clock.fireOne(t)
		if clock.active() != 1 {
			t.Fatalf("retry %d: expected one timer, got %d", i, clock.active())
		}
	}
	if dialer.dialCount() != 4 {
		t.Errorf("expected 4 attempts, got %d", dialer.dialCount())
	}
}

func TestRetry_CanceledOnSuccessfulOpen(t *testing.T) {
	dialer := &fakeDialer{}
	clock := &manualClock{}
	states := make(chan State, 16)
	c := newTestChannel(dialer, clock, states)
	defer c.Close()

	dialer.script(dialResult{err: errors.New("refused")})
	c.Connect()

	conn := newFakeConn()
	dialer.script(dialResult{conn: conn})
	clock.fireOne(t)

	s := waitForState(t, states, func(s State) bool { return s.Connected })
	if !s.Connected {
		t.Fatal("expected connected state")
	}
	if clock.active() != 0 {
		t.Errorf("retry timer survived a successful open: %d", clock.active())
	}
}

func TestClose_MarksUnavailableAndArmsRetry(t *testing.T) {
	dialer := &fakeDialer{}
	clock := &manualClock{}
	states := make(chan State, 16)
	c := newTestChannel(dialer, clock, states)
	defer c.Close()

	conn := newFakeConn()
	dialer.script(dialResult{conn: conn})
	c.Connect()
	waitForState(t, states, func(s State) bool { return s.Connected })

	conn.Close()

	s := waitForState(t, states, func(s State) bool { return !s.Connected })
	if s.Connected {
		t.Fatal("expected unavailable state")
	}
	if clock.active() != 1 {
		t.Errorf("expected one retry timer after close, got %d", clock.active())
	}
}

func TestFrames_MergeIntoState(t *testing.T) {
	dialer := &fakeDialer{}
	clock := &manualClock{}
	states := make(chan State, 16)
	c := newTestChannel(dialer, clock, states)
	defer c.Close()

	conn := newFakeConn()
	dialer.script(dialResult{conn: conn})
	c.Connect()

	conn.frames <- []byte(`{"notify":{"message":"Standby"}}`)
	s := waitForState(t, states, func(s State) bool { return s.Notice != nil })
	if s.Notice.Message != "Standby" {
		t.Errorf("unexpected notice: %+v", s.Notice)
	}

	conn.frames <- []byte(`{"somethingNew":{}}`)
	conn.frames <- []byte(`{"updateStatus":{"statusId":10,"newState":20}}`)
	s = waitForState(t, states, func(s State) bool { return len(s.Statuses) > 0 })
	if s.Statuses[10] != 20 {
		t.Errorf("status delta lost: %v", s.Statuses)
	}
}

func TestShutdown_StopsRetrying(t *testing.T) {
	dialer := &fakeDialer{}
	clock := &manualClock{}
	c := newTestChannel(dialer, clock, make(chan State, 16))

	dialer.script(dialResult{err: errors.New("refused")})
	c.Connect()
	c.Close()

	if clock.active() != 0 {
		t.Errorf("retry timer survived shutdown: %d", clock.active())
	}
}
