package autoclicker

import "fmt"

type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", uint8(b))
	}
}

func ParseButton(value string) (Button, error) {
	switch normalizeToken(value) {
	case "left", "l", "":
		return ButtonLeft, nil
	case "right", "r":
		return ButtonRight, nil
	default:
		return ButtonLeft, fmt.Errorf("%w: unknown button %q (expected left|right)", ErrInvalidConfig, value)
	}
}

type Point struct {
	X int
	Y int
}

// Rect is an inclusive pixel rectangle.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

type StopMode uint8

const (
	StopForever StopMode = iota
	StopClickCount
	StopDuration
)

func (m StopMode) String() string {
	switch m {
	case StopForever:
		return "forever"
	case StopClickCount:
		return "count"
	case StopDuration:
		return "duration"
	default:
		return fmt.Sprintf("stop(%d)", uint8(m))
	}
}

type StopConfig struct {
	Mode StopMode
	// Limit is a click count for StopClickCount and milliseconds for StopDuration.
	Limit int64
}

type DelayMode uint8

const (
	DelayFixed DelayMode = iota
	DelayRandom
)

func (m DelayMode) String() string {
	switch m {
	case DelayFixed:
		return "fixed"
	case DelayRandom:
		return "random"
	default:
		return fmt.Sprintf("delay(%d)", uint8(m))
	}
}

type DelayConfig struct {
	Mode    DelayMode
	FixedMs int64
	MinMs   int64
	MaxMs   int64
	// StrictMin requires MinMs > 0 rather than MinMs >= 0 for a valid random range.
	StrictMin bool
}

type PositionMode uint8

const (
	PositionCursor PositionMode = iota
	PositionRectangle
)

func (m PositionMode) String() string {
	switch m {
	case PositionCursor:
		return "cursor"
	case PositionRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("position(%d)", uint8(m))
	}
}

type PositionConfig struct {
	Mode PositionMode
	X1   int
	Y1   int
	X2   int
	Y2   int
}

// ClickConfig is the immutable snapshot a session runs with.
type ClickConfig struct {
	Button   Button
	Stop     StopConfig
	Delay    DelayConfig
	Position PositionConfig
}

type ConfigSource interface {
	ClickConfig() ClickConfig
}

// StaticConfig serves the same ClickConfig to every session.
type StaticConfig ClickConfig

func (c StaticConfig) ClickConfig() ClickConfig {
	return ClickConfig(c)
}

type ScreenBoundsProvider interface {
	PrimaryDisplaySize() (width, height int, err error)
}

type CursorProvider interface {
	CurrentPointerPosition() (Point, error)
}

// ClickEffector moves the pointer to p and emits a press/release pair of button.
type ClickEffector interface {
	Click(p Point, button Button) error
}

type HotkeyHandle uint64

// HotkeyRegistrar installs process-external hotkeys. activated may be called
// from any goroutine until the handle is unregistered.
type HotkeyRegistrar interface {
	Register(seq KeySequence, activated func()) (HotkeyHandle, error)
	Unregister(handle HotkeyHandle) error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
