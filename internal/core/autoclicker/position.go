package autoclicker

import (
	"fmt"
	"math/rand"
)

// PositionPolicy picks the target of each click.
type PositionPolicy struct {
	cfg    PositionConfig
	screen ScreenBoundsProvider
	cursor CursorProvider
	rng    *rand.Rand
}

func NewPositionPolicy(cfg PositionConfig, screen ScreenBoundsProvider, cursor CursorProvider, rng *rand.Rand) *PositionPolicy {
	return &PositionPolicy{cfg: cfg, screen: screen, cursor: cursor, rng: rng}
}

// Resolve returns the live pointer in cursor mode, or an independent uniform
// draw inside the clamped rectangle. Screen size is re-read on every call.
func (p *PositionPolicy) Resolve() (Point, error) {
	if p.cfg.Mode != PositionRectangle {
		if p.cursor == nil {
			return Point{}, fmt.Errorf("cursor provider is nil")
		}
		return p.cursor.CurrentPointerPosition()
	}

	if p.screen == nil {
		return Point{}, fmt.Errorf("screen bounds provider is nil")
	}
	width, height, err := p.screen.PrimaryDisplaySize()
	if err != nil {
		return Point{}, fmt.Errorf("primary display size: %w", err)
	}
	bounds := p.cfg.ResolvedBounds(width, height)
	return Point{
		X: bounds.MinX + p.rng.Intn(bounds.MaxX-bounds.MinX+1),
		Y: bounds.MinY + p.rng.Intn(bounds.MaxY-bounds.MinY+1),
	}, nil
}

// ResolvedBounds clamps each corner into [0,width-1]x[0,height-1] and orders
// them. A non-positive screen dimension collapses that axis to 0.
func (c PositionConfig) ResolvedBounds(width, height int) Rect {
	x1 := clampInt(c.X1, 0, width-1)
	x2 := clampInt(c.X2, 0, width-1)
	y1 := clampInt(c.Y1, 0, height-1)
	y2 := clampInt(c.Y2, 0, height-1)
	return Rect{
		MinX: min(x1, x2),
		MaxX: max(x1, x2),
		MinY: min(y1, y2),
		MaxY: max(y1, y2),
	}
}

// Clamped reports whether any corner lies outside the screen.
func (c PositionConfig) Clamped(width, height int) bool {
	outside := func(v, limit int) bool { return v < 0 || v > limit-1 }
	return outside(c.X1, width) || outside(c.X2, width) || outside(c.Y1, height) || outside(c.Y2, height)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
