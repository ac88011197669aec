package dryrun

import (
	"fmt"
	"sync"

	"autoclick/internal/core/autoclicker"
)

const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Runtime stands in for a display: clicks are logged and move a virtual
// pointer, nothing reaches the real input stack.
type Runtime struct {
	logger autoclicker.Logger
	width  int
	height int

	mu      sync.Mutex
	pointer autoclicker.Point
	clicks  uint64
}

// NewRuntime creates a virtual display of width x height with the pointer
// at its centre. Non-positive sizes fall back to the defaults.
func NewRuntime(width, height int, logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Runtime{
		logger:  logger,
		width:   width,
		height:  height,
		pointer: autoclicker.Point{X: width / 2, Y: height / 2},
	}, nil
}

func (r *Runtime) Click(p autoclicker.Point, button autoclicker.Button) error {
	r.mu.Lock()
	r.pointer = p
	r.clicks++
	n := r.clicks
	r.mu.Unlock()

	r.logger.Debug("Dry-run click", "x", p.X, "y", p.Y, "button", button.String(), "n", n)
	return nil
}

func (r *Runtime) CurrentPointerPosition() (autoclicker.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointer, nil
}

func (r *Runtime) PrimaryDisplaySize() (int, int, error) {
	return r.width, r.height, nil
}

// MovePointer places the virtual pointer, as a user moving the mouse would.
func (r *Runtime) MovePointer(p autoclicker.Point) {
	r.mu.Lock()
	r.pointer = p
	r.mu.Unlock()
}

func (r *Runtime) Clicks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clicks
}

func (r *Runtime) Close() error {
	return nil
}
