package autoclicker

// StopCondition decides, before each click, whether the session is over.
type StopCondition struct {
	Mode  StopMode
	Limit int64
}

func NewStopCondition(cfg StopConfig) StopCondition {
	return StopCondition{Mode: cfg.Mode, Limit: cfg.Limit}
}

func (c StopCondition) ShouldStop(clicksDone uint64, elapsedMs int64) bool {
	switch c.Mode {
	case StopClickCount:
		if c.Limit <= 0 {
			return true
		}
		return clicksDone >= uint64(c.Limit)
	case StopDuration:
		return elapsedMs >= c.Limit
	default:
		return false
	}
}

// StopReason labels why a session ended.
type StopReason string

const (
	StopReasonManual     StopReason = "manual"
	StopReasonClickLimit StopReason = "click-limit"
	StopReasonTimeLimit  StopReason = "time-limit"
	StopReasonShutdown   StopReason = "shutdown"
)

func (c StopCondition) reason() StopReason {
	switch c.Mode {
	case StopClickCount:
		return StopReasonClickLimit
	case StopDuration:
		return StopReasonTimeLimit
	default:
		return StopReasonManual
	}
}
