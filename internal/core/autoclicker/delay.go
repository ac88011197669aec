package autoclicker

import "math/rand"

// DelayPolicy yields the wait before each click of a session.
type DelayPolicy struct {
	cfg        DelayConfig
	rng        *rand.Rand
	degenerate bool
}

func NewDelayPolicy(cfg DelayConfig, rng *rand.Rand) *DelayPolicy {
	return &DelayPolicy{
		cfg:        cfg,
		rng:        rng,
		degenerate: cfg.Mode == DelayRandom && !validRandomRange(cfg),
	}
}

func validRandomRange(cfg DelayConfig) bool {
	if cfg.StrictMin && cfg.MinMs <= 0 {
		return false
	}
	return cfg.MinMs >= 0 && cfg.MaxMs > cfg.MinMs
}

// Degenerate reports a Random policy whose range is unusable and which
// therefore serves the fixed delay.
func (p *DelayPolicy) Degenerate() bool {
	return p.degenerate
}

// Next returns the next delay in milliseconds. Random mode draws from
// [MinMs, MaxMs) and falls back to FixedMs when the range is invalid.
func (p *DelayPolicy) Next() int64 {
	if p.cfg.Mode != DelayRandom || p.degenerate {
		return p.cfg.FixedMs
	}
	return p.cfg.MinMs + p.rng.Int63n(p.cfg.MaxMs-p.cfg.MinMs)
}
