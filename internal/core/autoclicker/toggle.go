package autoclicker

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Toggler is the part of the scheduler a ToggleController drives.
type Toggler interface {
	Toggle() State
}

type ToggleOption func(*ToggleController)

// WithNoticeSink routes hotkey notices, typically to Scheduler.Publish.
func WithNoticeSink(sink func(Notice)) ToggleOption {
	return func(c *ToggleController) {
		if sink != nil {
			c.notify = sink
		}
	}
}

// ToggleController funnels the local key path and the global hotkey into
// one toggle. It owns at most one hotkey registration at a time.
type ToggleController struct {
	toggler   Toggler
	registrar HotkeyRegistrar
	logger    Logger
	notify    func(Notice)

	// gen invalidates activations from a released registration. It is read
	// without mu so a registrar may deliver while Unregister waits on it.
	gen atomic.Uint64

	mu         sync.Mutex
	binding    KeySequence
	handle     HotkeyHandle
	registered bool
	closed     bool
}

// NewToggleController creates a controller with no binding. registrar may be
// nil, in which case only HandleKey and Activate trigger toggles.
func NewToggleController(toggler Toggler, registrar HotkeyRegistrar, logger Logger, opts ...ToggleOption) (*ToggleController, error) {
	if toggler == nil {
		return nil, fmt.Errorf("toggler is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	c := &ToggleController{
		toggler:   toggler,
		registrar: registrar,
		logger:    logger,
		notify:    func(Notice) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Assign binds value, falling back to DefaultToggleKey when it is blank.
// A sequence that cannot be parsed is rejected and the current binding is
// kept. A sequence the registrar refuses is still bound for the local path.
// If the previous registration cannot be released, the new binding stays
// local so at most one global registration exists.
func (c *ToggleController) Assign(value string) error {
	if strings.TrimSpace(value) == "" {
		value = DefaultToggleKey
	}
	seq, err := ParseKeySequence(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("toggle controller closed")
	}

	if err := c.releaseLocked(); err != nil {
		c.binding = seq
		c.notify(Notice{
			Kind:    NoticeHotkeyReleaseFailed,
			Message: fmt.Sprintf("previous hotkey still held; %s works in this terminal only", seq),
			Err:     err,
		})
		return nil
	}
	c.binding = seq
	c.registerLocked(seq)
	return nil
}

// Reset restores DefaultToggleKey.
func (c *ToggleController) Reset() error {
	return c.Assign("")
}

func (c *ToggleController) Binding() KeySequence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binding
}

// HotkeyActive reports whether the current binding holds a global registration.
func (c *ToggleController) HotkeyActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// HandleKey toggles when seq matches the binding. It reports whether it did.
func (c *ToggleController) HandleKey(seq KeySequence) bool {
	c.mu.Lock()
	match := !c.closed && !c.binding.IsZero() && seq == c.binding
	c.mu.Unlock()
	if !match {
		return false
	}
	c.Activate()
	return true
}

// Activate toggles unconditionally. The scheduler decides from its state at
// the moment it takes its own lock.
func (c *ToggleController) Activate() State {
	state := c.toggler.Toggle()
	c.logger.Debug("Toggle activated", "state", state)
	return state
}

// Close releases the hotkey registration. Later Assign calls fail.
func (c *ToggleController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.releaseLocked()
}

func (c *ToggleController) registerLocked(seq KeySequence) {
	if c.registrar == nil {
		return
	}
	gen := c.gen.Load()
	handle, err := c.registrar.Register(seq, func() {
		if c.gen.Load() != gen {
			return
		}
		c.Activate()
	})
	if err != nil {
		c.logger.Warn("Global hotkey unavailable, local key only", "key", seq.String(), "err", err)
		c.notify(Notice{
			Kind:    NoticeHotkeyUnavailable,
			Message: fmt.Sprintf("global hotkey %s unavailable", seq),
			Err:     err,
		})
		return
	}
	c.handle = handle
	c.registered = true
	c.logger.Info("Global hotkey registered", "key", seq.String())
	c.notify(Notice{Kind: NoticeHotkeyRegistered, Message: "global hotkey " + seq.String()})
}

func (c *ToggleController) releaseLocked() error {
	c.gen.Add(1)
	if !c.registered {
		return nil
	}
	handle := c.handle
	c.handle = 0
	c.registered = false
	if err := c.registrar.Unregister(handle); err != nil {
		c.logger.Warn("Failed to release global hotkey", "key", c.binding.String(), "err", err)
		return fmt.Errorf("unregister hotkey %s: %w", c.binding, err)
	}
	return nil
}
