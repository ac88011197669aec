package autoclicker

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxMilliseconds is the longest wait a time.Duration can hold, in ms.
const MaxMilliseconds = math.MaxInt64 / int64(time.Millisecond)

type TimeUnit uint8

const (
	Milliseconds TimeUnit = iota
	Seconds
	Minutes
)

func (u TimeUnit) String() string {
	switch u {
	case Milliseconds:
		return "ms"
	case Seconds:
		return "s"
	case Minutes:
		return "min"
	default:
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
}

// ToMilliseconds converts value in unit to whole milliseconds, truncating
// toward zero. Inputs are not validated.
func ToMilliseconds(value float64, unit TimeUnit) int64 {
	switch unit {
	case Seconds:
		return int64(value * 1000)
	case Minutes:
		return int64(value * 60000)
	default:
		return int64(value)
	}
}

func ParseTimeUnit(value string) (TimeUnit, error) {
	switch normalizeToken(value) {
	case "ms", "msec", "millisecond", "milliseconds", "millisecond(s)":
		return Milliseconds, nil
	case "s", "sec", "secs", "second", "seconds", "second(s)":
		return Seconds, nil
	case "m", "min", "mins", "minute", "minutes", "minute(s)":
		return Minutes, nil
	default:
		return Milliseconds, fmt.Errorf("%w %q (expected ms|s|min)", ErrUnknownUnit, value)
	}
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
