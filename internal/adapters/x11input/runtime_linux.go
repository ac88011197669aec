//go:build linux

package x11input

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"autoclick/internal/core/autoclicker"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

type grab struct {
	keycodes  []xproto.Keycode
	mods      uint16
	activated func()
}

// Runtime drives an X11 display: it injects clicks through XTest, reads
// the pointer and screen, and grabs global hotkeys on the root window.
type Runtime struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	rootWin xproto.Window
	logger  autoclicker.Logger

	injectMu sync.Mutex

	mu          sync.Mutex
	nextHandle  autoclicker.HotkeyHandle
	grabs       map[autoclicker.HotkeyHandle]*grab
	lastRelease map[xproto.Keycode]xproto.Timestamp

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewRuntime(logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, err
	}
	keybind.Initialize(xu)

	return &Runtime{
		xu:          xu,
		conn:        conn,
		rootWin:     xu.RootWin(),
		logger:      logger,
		grabs:       make(map[autoclicker.HotkeyHandle]*grab),
		lastRelease: make(map[xproto.Keycode]xproto.Timestamp),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins delivering hotkey activations.
func (r *Runtime) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.eventLoop()
}

func (r *Runtime) Close() error {
	r.stopOnce.Do(func() {
		close(r.stopCh)

		r.mu.Lock()
		for handle, g := range r.grabs {
			r.ungrabLocked(g)
			delete(r.grabs, handle)
		}
		r.mu.Unlock()

		r.conn.Close()
		if r.started.Load() {
			<-r.doneCh
		}
	})
	return nil
}

func (r *Runtime) Click(p autoclicker.Point, button autoclicker.Button) error {
	detail, err := buttonIndex(button)
	if err != nil {
		return err
	}

	r.injectMu.Lock()
	defer r.injectMu.Unlock()

	if err := xproto.WarpPointerChecked(
		r.conn,
		xproto.WindowNone,
		r.rootWin,
		0,
		0,
		0,
		0,
		clampToInt16(p.X),
		clampToInt16(p.Y),
	).Check(); err != nil {
		return fmt.Errorf("warp pointer: %w", err)
	}

	for _, eventType := range []byte{xproto.ButtonPress, xproto.ButtonRelease} {
		if err := xtest.FakeInputChecked(
			r.conn,
			eventType,
			detail,
			xproto.TimeCurrentTime,
			r.rootWin,
			0,
			0,
			0,
		).Check(); err != nil {
			return fmt.Errorf("fake input: %w", err)
		}
	}
	r.conn.Sync()
	return nil
}

func (r *Runtime) CurrentPointerPosition() (autoclicker.Point, error) {
	reply, err := xproto.QueryPointer(r.conn, r.rootWin).Reply()
	if err != nil {
		return autoclicker.Point{}, err
	}
	return autoclicker.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

func (r *Runtime) PrimaryDisplaySize() (int, int, error) {
	screen := r.xu.Screen()
	if screen == nil {
		return 0, 0, fmt.Errorf("no default X11 screen")
	}
	return int(screen.WidthInPixels), int(screen.HeightInPixels), nil
}

func (r *Runtime) Register(seq autoclicker.KeySequence, activated func()) (autoclicker.HotkeyHandle, error) {
	if activated == nil {
		return 0, fmt.Errorf("activation callback is nil")
	}
	name, ok := keysymName(seq.Key)
	if !ok {
		return 0, fmt.Errorf("%w: no X11 keysym for %q", autoclicker.ErrUnsupported, seq.Key)
	}
	keycodes := uniqueKeycodes(keybind.StrToKeycodes(r.xu, name))
	if len(keycodes) == 0 {
		return 0, fmt.Errorf("failed to resolve X11 key %q", name)
	}

	g := &grab{keycodes: keycodes, mods: modMask(seq), activated: activated}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.grabLocked(g); err != nil {
		r.ungrabLocked(g)
		return 0, fmt.Errorf("grab %s: %w", seq, err)
	}
	r.nextHandle++
	r.grabs[r.nextHandle] = g
	r.logger.Debug("X11 hotkey grabbed", "key", seq.String(), "keycodes", keycodes)
	return r.nextHandle, nil
}

func (r *Runtime) Unregister(handle autoclicker.HotkeyHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grabs[handle]
	if !ok {
		return fmt.Errorf("unknown hotkey handle %d", handle)
	}
	r.ungrabLocked(g)
	delete(r.grabs, handle)
	return nil
}

func (r *Runtime) grabLocked(g *grab) error {
	for _, key := range g.keycodes {
		for _, lock := range lockMasks {
			if err := xproto.GrabKeyChecked(
				r.conn,
				false,
				r.rootWin,
				g.mods|lock,
				key,
				xproto.GrabModeAsync,
				xproto.GrabModeAsync,
			).Check(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runtime) ungrabLocked(g *grab) {
	for _, key := range g.keycodes {
		for _, lock := range lockMasks {
			xproto.UngrabKey(r.conn, key, r.rootWin, g.mods|lock)
		}
	}
}

func (r *Runtime) eventLoop() {
	defer close(r.doneCh)

	for {
		event, xerr := r.conn.WaitForEvent()
		if xerr != nil {
			select {
			case <-r.stopCh:
				return
			default:
			}
			r.logger.Warn("X11 event error", "err", xerr)
			continue
		}
		if event == nil {
			return
		}

		switch ev := event.(type) {
		case xproto.KeyPressEvent:
			if f := r.matchPress(ev); f != nil {
				f()
			}
		case xproto.KeyReleaseEvent:
			r.mu.Lock()
			r.lastRelease[ev.Detail] = ev.Time
			r.mu.Unlock()
		}
	}
}

// matchPress returns the callback for a grabbed key press. A press that
// shares its timestamp with the preceding release is auto-repeat.
func (r *Runtime) matchPress(ev xproto.KeyPressEvent) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.lastRelease[ev.Detail]; ok && t == ev.Time {
		return nil
	}
	state := ev.State & relevantMods
	for _, g := range r.grabs {
		if g.mods != state {
			continue
		}
		for _, key := range g.keycodes {
			if key == ev.Detail {
				return g.activated
			}
		}
	}
	return nil
}

func uniqueKeycodes(keycodes []xproto.Keycode) []xproto.Keycode {
	uniq := make(map[xproto.Keycode]struct{}, len(keycodes))
	for _, keycode := range keycodes {
		uniq[keycode] = struct{}{}
	}
	result := make([]xproto.Keycode, 0, len(uniq))
	for key := range uniq {
		result = append(result, key)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
