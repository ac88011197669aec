package autoclicker

import (
	"errors"
	"sync"
	"time"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type fakeTimer struct {
	clock *fakeClock
	at    time.Time
	seq   int
	f     func()
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	for i, p := range t.clock.pending {
		if p == t {
			t.clock.pending = append(t.clock.pending[:i], t.clock.pending[i+1:]...)
			return true
		}
	}
	return false
}

// fakeClock fires timers only from Advance and FireNext, on the calling
// goroutine, without holding its own lock.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (c *fakeClock) popDue(limit time.Time, bounded bool) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := -1
	for i, p := range c.pending {
		if bounded && p.at.After(limit) {
			continue
		}
		if idx < 0 || p.at.Before(c.pending[idx].at) || (p.at.Equal(c.pending[idx].at) && p.seq < c.pending[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		if bounded {
			c.now = limit
		}
		return nil
	}
	t := c.pending[idx]
	c.pending = append(c.pending[:idx], c.pending[idx+1:]...)
	if t.at.After(c.now) {
		c.now = t.at
	}
	return t
}

// Advance moves time forward by d, firing every timer that comes due,
// including timers armed by the callbacks it fires.
func (c *fakeClock) Advance(d time.Duration) {
	limit := c.Now().Add(d)
	for {
		t := c.popDue(limit, true)
		if t == nil {
			return
		}
		t.f()
	}
}

// FireNext jumps to the earliest pending timer and fires it.
func (c *fakeClock) FireNext() bool {
	t := c.popDue(time.Time{}, false)
	if t == nil {
		return false
	}
	t.f()
	return true
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *fakeClock) NextIn() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return 0, false
	}
	next := c.pending[0].at
	for _, p := range c.pending[1:] {
		if p.at.Before(next) {
			next = p.at
		}
	}
	return next.Sub(c.now), true
}

type click struct {
	At     Point
	Button Button
}

type recordingEffector struct {
	mu     sync.Mutex
	clicks []click
	err    error
}

func (r *recordingEffector) Click(p Point, button Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.clicks = append(r.clicks, click{At: p, Button: button})
	return nil
}

func (r *recordingEffector) snapshot() []click {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]click, len(r.clicks))
	copy(out, r.clicks)
	return out
}

type fixedCursor struct {
	mu  sync.Mutex
	at  Point
	err error
}

func (c *fixedCursor) CurrentPointerPosition() (Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at, c.err
}

func (c *fixedCursor) moveTo(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = p
}

type fixedScreen struct {
	width, height int
	err           error
}

func (s fixedScreen) PrimaryDisplaySize() (int, int, error) {
	return s.width, s.height, s.err
}

var errRegistrationTaken = errors.New("hotkey already grabbed")

type fakeRegistrar struct {
	mu       sync.Mutex
	next     HotkeyHandle
	live     map[HotkeyHandle]KeySequence
	handlers map[HotkeyHandle]func()
	maxLive  int
	refuse   map[string]bool
	calls    []string

	failUnregister bool
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		live:     make(map[HotkeyHandle]KeySequence),
		handlers: make(map[HotkeyHandle]func()),
		refuse:   make(map[string]bool),
	}
}

func (r *fakeRegistrar) Register(seq KeySequence, activated func()) (HotkeyHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "register "+seq.String())
	if r.refuse[seq.String()] {
		return 0, errRegistrationTaken
	}
	r.next++
	r.live[r.next] = seq
	r.handlers[r.next] = activated
	if len(r.live) > r.maxLive {
		r.maxLive = len(r.live)
	}
	return r.next, nil
}

func (r *fakeRegistrar) Unregister(handle HotkeyHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq, ok := r.live[handle]
	if !ok {
		return errors.New("unknown handle")
	}
	if r.failUnregister {
		return errors.New("ungrab rejected")
	}
	r.calls = append(r.calls, "unregister "+seq.String())
	delete(r.live, handle)
	return nil
}

// fire delivers an activation for handle even if it was already released,
// the way a late event from an OS queue would.
func (r *fakeRegistrar) fire(handle HotkeyHandle) {
	r.mu.Lock()
	f := r.handlers[handle]
	r.mu.Unlock()
	if f != nil {
		f()
	}
}

func (r *fakeRegistrar) liveSequences() []KeySequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]KeySequence, 0, len(r.live))
	for _, seq := range r.live {
		out = append(out, seq)
	}
	return out
}

func drainNotices(ch <-chan Notice) []Notice {
	var out []Notice
	for {
		select {
		case n := <-ch:
			out = append(out, n)
		default:
			return out
		}
	}
}

func hasNotice(notices []Notice, kind NoticeKind) bool {
	for _, n := range notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

type mutableConfig struct {
	mu  sync.Mutex
	cfg ClickConfig
}

func (m *mutableConfig) ClickConfig() ClickConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *mutableConfig) set(edit func(*ClickConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edit(&m.cfg)
}
