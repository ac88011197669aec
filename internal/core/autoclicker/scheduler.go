package autoclicker

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type State uint8

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

const defaultNoticeBuffer = 64

type SchedulerDeps struct {
	Config   ConfigSource
	Effector ClickEffector
	Cursor   CursorProvider
	Screen   ScreenBoundsProvider
	Logger   Logger
}

type Option func(*Scheduler)

func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithNoticeBuffer(size int) Option {
	return func(s *Scheduler) {
		if size > 0 {
			s.notices = make(chan Notice, size)
		}
	}
}

type session struct {
	id         string
	cfg        ClickConfig
	delay      *DelayPolicy
	position   *PositionPolicy
	stop       StopCondition
	startedAt  time.Time
	clicksDone uint64
	failures   uint64
	lastPoint  Point
	hasClicked bool
	nextDelay  int64
}

// Scheduler drives clicking sessions. Start, Stop, Toggle and timer ticks
// are serialized on one mutex; a tick armed by an earlier session is
// discarded by generation.
type Scheduler struct {
	config   ConfigSource
	effector ClickEffector
	cursor   CursorProvider
	screen   ScreenBoundsProvider
	logger   Logger
	clock    Clock
	rng      *rand.Rand

	notices chan Notice
	dropped atomic.Uint64

	mu      sync.Mutex
	state   State
	gen     uint64
	timer   Timer
	session *session
	last    *SessionSummary
}

func NewScheduler(deps SchedulerDeps, opts ...Option) (*Scheduler, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config source is nil")
	}
	if deps.Effector == nil {
		return nil, fmt.Errorf("click effector is nil")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	s := &Scheduler{
		config:   deps.Config,
		effector: deps.Effector,
		cursor:   deps.Cursor,
		screen:   deps.Screen,
		logger:   deps.Logger,
		clock:    systemClock{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		notices:  make(chan Notice, defaultNoticeBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Notices delivers diagnostics and session lifecycle events. Delivery is
// best effort: when the buffer is full, notices are dropped and counted.
func (s *Scheduler) Notices() <-chan Notice {
	return s.notices
}

func (s *Scheduler) DroppedNotices() uint64 {
	return s.dropped.Load()
}

func (s *Scheduler) Publish(n Notice) {
	if n.Time.IsZero() {
		n.Time = s.clock.Now()
	}
	select {
	case s.notices <- n:
	default:
		s.dropped.Add(1)
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) IsRunning() bool {
	return s.State() == StateRunning
}

// Start begins a session with a fresh configuration snapshot. It reports
// false and changes nothing when a session is already running.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

// Stop ends the running session. It reports false when already idle.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(StopReasonManual)
}

// Toggle stops a running session or starts a new one, deciding from the
// state at the moment it holds the lock. It returns the resulting state.
func (s *Scheduler) Toggle() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.stopLocked(StopReasonManual)
	} else {
		s.startLocked()
	}
	return s.state
}

// Shutdown stops any running session and records it as a shutdown.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(StopReasonShutdown)
}

func (s *Scheduler) startLocked() bool {
	if s.state == StateRunning {
		return false
	}

	cfg := s.config.ClickConfig()
	sess := &session{
		id:        uuid.NewString(),
		cfg:       cfg,
		delay:     NewDelayPolicy(cfg.Delay, s.rng),
		position:  NewPositionPolicy(cfg.Position, s.screen, s.cursor, s.rng),
		stop:      NewStopCondition(cfg.Stop),
		startedAt: s.clock.Now(),
	}

	s.gen++
	s.session = sess
	s.state = StateRunning

	s.logger.Info("Clicking started",
		"session", sess.id,
		"button", cfg.Button,
		"stop", cfg.Stop.Mode,
		"limit", cfg.Stop.Limit,
		"delay", cfg.Delay.Mode,
		"position", cfg.Position.Mode,
	)
	s.Publish(Notice{Kind: NoticeSessionStarted, Message: "clicking started", Session: sess.summary(time.Time{}, "")})

	if sess.delay.Degenerate() {
		s.logger.Warn("Invalid random delay range, using fixed delay",
			"min_ms", cfg.Delay.MinMs,
			"max_ms", cfg.Delay.MaxMs,
			"fixed_ms", cfg.Delay.FixedMs,
		)
		s.Publish(Notice{
			Kind:    NoticeInvalidDelayRange,
			Message: fmt.Sprintf("random delay [%d,%d) ms is invalid; using fixed %d ms", cfg.Delay.MinMs, cfg.Delay.MaxMs, cfg.Delay.FixedMs),
		})
	}
	if cfg.Position.Mode == PositionRectangle && s.screen != nil {
		if w, h, err := s.screen.PrimaryDisplaySize(); err == nil && cfg.Position.Clamped(w, h) {
			b := cfg.Position.ResolvedBounds(w, h)
			s.logger.Warn("Rectangle exceeds screen, clamping", "width", w, "height", h, "bounds", b)
			s.Publish(Notice{
				Kind:    NoticeRectangleClamped,
				Message: fmt.Sprintf("rectangle clamped to x[%d,%d] y[%d,%d] on %dx%d", b.MinX, b.MaxX, b.MinY, b.MaxY, w, h),
			})
		}
	}

	s.armLocked(sess.delay.Next())
	return true
}

func (s *Scheduler) stopLocked(reason StopReason) bool {
	if s.state != StateRunning {
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.state = StateIdle

	sess := s.session
	summary := sess.summary(s.clock.Now(), reason)
	s.last = summary
	s.logger.Info("Clicking stopped",
		"session", sess.id,
		"reason", reason,
		"clicks", sess.clicksDone,
		"elapsed", summary.Duration(),
	)
	s.Publish(Notice{Kind: NoticeSessionEnded, Message: "clicking stopped (" + string(reason) + ")", Session: summary})
	return true
}

func (s *Scheduler) armLocked(delayMs int64) {
	if delayMs < 0 {
		delayMs = 0
	}
	if delayMs > MaxMilliseconds {
		delayMs = MaxMilliseconds
	}
	gen := s.gen
	s.session.nextDelay = delayMs
	s.timer = s.clock.AfterFunc(time.Duration(delayMs)*time.Millisecond, func() {
		s.onTick(gen)
	})
}

func (s *Scheduler) onTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || gen != s.gen {
		return
	}
	sess := s.session
	s.timer = nil

	elapsed := s.clock.Now().Sub(sess.startedAt).Milliseconds()
	if sess.stop.ShouldStop(sess.clicksDone, elapsed) {
		s.stopLocked(sess.stop.reason())
		return
	}

	if err := s.clickLocked(sess); err != nil {
		sess.failures++
		s.logger.Warn("Click failed", "session", sess.id, "err", err)
		s.Publish(Notice{Kind: NoticeClickFailed, Message: "click failed", Err: err})
	}
	sess.clicksDone++

	// A spent click budget ends the session now rather than one wait later.
	if sess.stop.Mode == StopClickCount && sess.stop.ShouldStop(sess.clicksDone, elapsed) {
		s.stopLocked(StopReasonClickLimit)
		return
	}
	s.armLocked(sess.delay.Next())
}

func (s *Scheduler) clickLocked(sess *session) error {
	target, err := sess.position.Resolve()
	if err != nil {
		return fmt.Errorf("resolve position: %w", err)
	}
	if err := s.effector.Click(target, sess.cfg.Button); err != nil {
		return fmt.Errorf("click at %d,%d: %w", target.X, target.Y, err)
	}
	sess.lastPoint = target
	sess.hasClicked = true
	s.logger.Debug("Click performed", "x", target.X, "y", target.Y, "total", sess.clicksDone+1)
	return nil
}

func (sess *session) summary(endedAt time.Time, reason StopReason) *SessionSummary {
	return &SessionSummary{
		ID:        sess.id,
		StartedAt: sess.startedAt,
		EndedAt:   endedAt,
		Clicks:    sess.clicksDone,
		Failures:  sess.failures,
		Reason:    reason,
		Config:    sess.cfg,
	}
}

// Snapshot is a point-in-time view for status displays.
type Snapshot struct {
	State      State
	SessionID  string
	Clicks     uint64
	Failures   uint64
	Elapsed    time.Duration
	LastPoint  Point
	HasClicked bool
	NextDelay  time.Duration
	Config     ClickConfig
	// Last describes the most recently ended session, if any.
	Last *SessionSummary
}

func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	if s.state != StateRunning || s.session == nil {
		return snap
	}
	sess := s.session
	snap.SessionID = sess.id
	snap.Clicks = sess.clicksDone
	snap.Failures = sess.failures
	snap.Elapsed = s.clock.Now().Sub(sess.startedAt)
	snap.LastPoint = sess.lastPoint
	snap.HasClicked = sess.hasClicked
	snap.NextDelay = time.Duration(sess.nextDelay) * time.Millisecond
	snap.Config = sess.cfg
	return snap
}
