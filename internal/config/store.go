package config

import (
	"fmt"
	"sync"

	"autoclick/internal/core/autoclicker"
)

// Loader rebuilds Settings from their sources.
type Loader func() (Settings, error)

// Store holds the live settings. It serves ClickConfig to the scheduler, so
// edits take effect at the next session start.
type Store struct {
	load Loader

	mu       sync.RWMutex
	settings Settings
	resolved autoclicker.ClickConfig
}

func NewStore(settings Settings, load Loader) (*Store, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	resolved, _ := settings.Resolve()
	return &Store{load: load, settings: settings, resolved: resolved}, nil
}

func (s *Store) ClickConfig() autoclicker.ClickConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update applies edit to a copy and keeps it only if it validates.
func (s *Store) Update(edit func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.settings
	edit(&next)
	if err := next.Validate(); err != nil {
		return s.settings, err
	}
	resolved, _ := next.Resolve()
	s.settings = next
	s.resolved = resolved
	return next, nil
}

// Reload re-reads all sources. On error the current settings stay.
func (s *Store) Reload() (Settings, error) {
	if s.load == nil {
		return s.Settings(), fmt.Errorf("config store has no loader")
	}
	next, err := s.load()
	if err != nil {
		return s.Settings(), err
	}
	return s.Update(func(cur *Settings) { *cur = next })
}

// FlipButton switches between left and right for the next session.
func (s *Store) FlipButton() (autoclicker.Button, error) {
	next, err := s.Update(func(cur *Settings) {
		if b, _ := autoclicker.ParseButton(cur.Button); b == autoclicker.ButtonLeft {
			cur.Button = autoclicker.ButtonRight.String()
		} else {
			cur.Button = autoclicker.ButtonLeft.String()
		}
	})
	if err != nil {
		return autoclicker.ButtonLeft, err
	}
	b, _ := autoclicker.ParseButton(next.Button)
	return b, nil
}
