package main

import (
	"context"
	"time"

	"autoclick/internal/core/autoclicker"
)

const recordTimeout = 2 * time.Second

type sessionRecorder interface {
	RecordSummary(ctx context.Context, summary autoclicker.SessionSummary) error
}

// noticeRouter records ended sessions. ended, if set, runs after each
// session end has been recorded.
type noticeRouter struct {
	logger   autoclicker.Logger
	recorder sessionRecorder
	ended    func()
}

// run consumes notices until stop closes, then drains what is buffered so
// the final session of a shutdown is still recorded.
func (r *noticeRouter) run(notices <-chan autoclicker.Notice, stop <-chan struct{}) {
	for {
		select {
		case n := <-notices:
			r.handle(n)
		case <-stop:
			for {
				select {
				case n := <-notices:
					r.handle(n)
				default:
					return
				}
			}
		}
	}
}

// handle records ended sessions. Other notices are already logged where
// they are raised.
func (r *noticeRouter) handle(n autoclicker.Notice) {
	if n.Kind != autoclicker.NoticeSessionEnded || n.Session == nil {
		return
	}
	s := *n.Session
	if r.recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.recorder.RecordSummary(ctx, s); err != nil {
			r.logger.Warn("Failed to record session", "session", s.ID, "err", err)
		} else {
			r.logger.Debug("Session recorded", "session", s.ID, "clicks", s.Clicks)
		}
		cancel()
	}
	if r.ended != nil {
		r.ended()
	}
}
