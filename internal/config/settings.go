// Package config layers defaults, config files, environment and flags into
// the settings a clicking session reads at start.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"autoclick/internal/core/autoclicker"
)

// Settings is the user-facing configuration surface. Magnitudes carry their
// own units and are converted when resolved.
type Settings struct {
	Button   string
	Stop     StopSettings
	Delay    DelaySettings
	Position PositionSettings
	Toggle   string
	Backend  string
	History  bool
}

type StopSettings struct {
	Mode  string
	Value float64
	Unit  string
}

type DelaySettings struct {
	Mode      string
	Value     float64
	Min       float64
	Max       float64
	Unit      string
	StrictMin bool
}

type PositionSettings struct {
	Mode string
	Rect [4]int
}

const (
	BackendAuto   = "auto"
	BackendX11    = "x11"
	BackendWin    = "windows"
	BackendDryRun = "dry-run"
)

// Defaults mirrors the initial state of the clicker window: left button,
// forever, no delay, at the cursor, toggled by F1.
func Defaults() Settings {
	return Settings{
		Button: "left",
		Stop: StopSettings{
			Mode:  "forever",
			Value: 10,
			Unit:  "s",
		},
		Delay: DelaySettings{
			Mode:  "fixed",
			Value: 0,
			Min:   0,
			Max:   0,
			Unit:  "s",
		},
		Position: PositionSettings{Mode: "cursor"},
		Toggle:   autoclicker.DefaultToggleKey,
		Backend:  BackendAuto,
		History:  true,
	}
}

func ParseStopMode(value string) (autoclicker.StopMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "forever", "none":
		return autoclicker.StopForever, nil
	case "count", "clicks", "click-count":
		return autoclicker.StopClickCount, nil
	case "duration", "time", "timed":
		return autoclicker.StopDuration, nil
	default:
		return autoclicker.StopForever, fmt.Errorf("%w: unknown stop mode %q (expected forever|count|duration)", autoclicker.ErrInvalidConfig, value)
	}
}

func ParseDelayMode(value string) (autoclicker.DelayMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "fixed":
		return autoclicker.DelayFixed, nil
	case "random", "range":
		return autoclicker.DelayRandom, nil
	default:
		return autoclicker.DelayFixed, fmt.Errorf("%w: unknown delay mode %q (expected fixed|random)", autoclicker.ErrInvalidConfig, value)
	}
}

func ParsePositionMode(value string) (autoclicker.PositionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "cursor":
		return autoclicker.PositionCursor, nil
	case "rect", "rectangle", "area":
		return autoclicker.PositionRectangle, nil
	default:
		return autoclicker.PositionCursor, fmt.Errorf("%w: unknown position mode %q (expected cursor|rectangle)", autoclicker.ErrInvalidConfig, value)
	}
}

func ParseBackend(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendX11, BackendWin, BackendDryRun:
		return v, nil
	case "dryrun", "none":
		return BackendDryRun, nil
	default:
		return "", fmt.Errorf("%w: unknown backend %q (expected auto|x11|windows|dry-run)", autoclicker.ErrInvalidConfig, value)
	}
}

// ParseRect reads "x1,y1,x2,y2". Corners may be given in any order.
func ParseRect(value string) ([4]int, error) {
	var rect [4]int
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return rect, fmt.Errorf("%w: rectangle %q needs x1,y1,x2,y2", autoclicker.ErrInvalidConfig, value)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return rect, fmt.Errorf("%w: rectangle %q: %v", autoclicker.ErrInvalidConfig, value, err)
		}
		rect[i] = n
	}
	return rect, nil
}

func FormatRect(rect [4]int) string {
	return fmt.Sprintf("%d,%d,%d,%d", rect[0], rect[1], rect[2], rect[3])
}

// Resolve converts the settings into the snapshot a session runs with.
// Negative or non-finite magnitudes and unknown names are rejected.
func (s Settings) Resolve() (autoclicker.ClickConfig, error) {
	var cfg autoclicker.ClickConfig
	var err error

	if cfg.Button, err = autoclicker.ParseButton(s.Button); err != nil {
		return autoclicker.ClickConfig{}, err
	}

	if cfg.Stop.Mode, err = ParseStopMode(s.Stop.Mode); err != nil {
		return autoclicker.ClickConfig{}, err
	}
	switch cfg.Stop.Mode {
	case autoclicker.StopClickCount:
		if err := checkMagnitude("stop value", s.Stop.Value); err != nil {
			return autoclicker.ClickConfig{}, err
		}
		if s.Stop.Value >= math.MaxInt64 {
			return autoclicker.ClickConfig{}, fmt.Errorf("%w: stop value %v is too large", autoclicker.ErrInvalidConfig, s.Stop.Value)
		}
		cfg.Stop.Limit = int64(s.Stop.Value)
	case autoclicker.StopDuration:
		ms, err := toMs("stop value", s.Stop.Value, s.Stop.Unit)
		if err != nil {
			return autoclicker.ClickConfig{}, err
		}
		cfg.Stop.Limit = ms
	}

	if cfg.Delay.Mode, err = ParseDelayMode(s.Delay.Mode); err != nil {
		return autoclicker.ClickConfig{}, err
	}
	if cfg.Delay.FixedMs, err = toMs("delay", s.Delay.Value, s.Delay.Unit); err != nil {
		return autoclicker.ClickConfig{}, err
	}
	cfg.Delay.StrictMin = s.Delay.StrictMin
	if cfg.Delay.Mode == autoclicker.DelayRandom {
		// An inverted or empty range is not an error: the session falls
		// back to the fixed delay and reports it.
		if cfg.Delay.MinMs, err = toMs("delay min", s.Delay.Min, s.Delay.Unit); err != nil {
			return autoclicker.ClickConfig{}, err
		}
		if cfg.Delay.MaxMs, err = toMs("delay max", s.Delay.Max, s.Delay.Unit); err != nil {
			return autoclicker.ClickConfig{}, err
		}
	}

	if cfg.Position.Mode, err = ParsePositionMode(s.Position.Mode); err != nil {
		return autoclicker.ClickConfig{}, err
	}
	cfg.Position.X1 = s.Position.Rect[0]
	cfg.Position.Y1 = s.Position.Rect[1]
	cfg.Position.X2 = s.Position.Rect[2]
	cfg.Position.Y2 = s.Position.Rect[3]

	return cfg, nil
}

// Validate checks everything Resolve checks plus the toggle key and backend.
func (s Settings) Validate() error {
	if _, err := s.Resolve(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Toggle) != "" {
		if _, err := autoclicker.ParseKeySequence(s.Toggle); err != nil {
			return fmt.Errorf("%w: toggle: %w", autoclicker.ErrInvalidConfig, err)
		}
	}
	if _, err := ParseBackend(s.Backend); err != nil {
		return err
	}
	return nil
}

func toMs(field string, value float64, unit string) (int64, error) {
	if err := checkMagnitude(field, value); err != nil {
		return 0, err
	}
	u, err := autoclicker.ParseTimeUnit(unit)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", autoclicker.ErrInvalidConfig, field, err)
	}
	if value*float64(autoclicker.ToMilliseconds(1, u)) > float64(autoclicker.MaxMilliseconds) {
		return 0, fmt.Errorf("%w: %s %v %s is too long", autoclicker.ErrInvalidConfig, field, value, u)
	}
	return autoclicker.ToMilliseconds(value, u), nil
}

func checkMagnitude(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s is not a finite number", autoclicker.ErrInvalidConfig, field)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s %v is negative", autoclicker.ErrInvalidConfig, field, value)
	}
	return nil
}
