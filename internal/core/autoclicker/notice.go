package autoclicker

import (
	"fmt"
	"time"
)

type NoticeKind uint8

const (
	NoticeSessionStarted NoticeKind = iota
	NoticeSessionEnded
	NoticeInvalidDelayRange
	NoticeRectangleClamped
	NoticeClickFailed
	NoticeHotkeyRegistered
	NoticeHotkeyUnavailable
	NoticeHotkeyReleaseFailed
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSessionStarted:
		return "session-started"
	case NoticeSessionEnded:
		return "session-ended"
	case NoticeInvalidDelayRange:
		return "invalid-delay-range"
	case NoticeRectangleClamped:
		return "rectangle-clamped"
	case NoticeClickFailed:
		return "click-failed"
	case NoticeHotkeyRegistered:
		return "hotkey-registered"
	case NoticeHotkeyUnavailable:
		return "hotkey-unavailable"
	case NoticeHotkeyReleaseFailed:
		return "hotkey-release-failed"
	default:
		return fmt.Sprintf("notice(%d)", uint8(k))
	}
}

// Notice makes a degraded or lifecycle condition observable without
// interrupting clicking.
type Notice struct {
	Kind    NoticeKind
	Time    time.Time
	Message string
	Err     error
	// Session is set for NoticeSessionStarted and NoticeSessionEnded.
	Session *SessionSummary
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %s: %v", n.Kind, n.Message, n.Err)
	}
	return fmt.Sprintf("%s: %s", n.Kind, n.Message)
}

type SessionSummary struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Clicks    uint64
	Failures  uint64
	Reason    StopReason
	Config    ClickConfig
}

func (s SessionSummary) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
