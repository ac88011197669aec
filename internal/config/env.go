package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const envPrefix = "AUTOCLICK_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

var (
	dotEnvMu  sync.Mutex
	dotEnvSet = map[string]string{}
)

// LoadDotEnv loads .env files into the process environment. Variables set
// outside any .env file win; variables a previous call took from a .env file
// are refreshed, so a reload sees edits. Earlier paths win over later ones.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	dotEnvMu.Lock()
	defer dotEnvMu.Unlock()

	seen := map[string]bool{}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		for key, value := range values {
			if seen[key] {
				continue
			}
			seen[key] = true
			if cur, ok := os.LookupEnv(key); ok {
				if prev, owned := dotEnvSet[key]; !owned || prev != cur {
					continue
				}
			}
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set %s from %s: %w", key, path, err)
			}
			dotEnvSet[key] = value
		}
	}
	return nil
}

// ApplyEnv overlays AUTOCLICK_* variables onto s. A nil lookup reads the
// process environment.
func ApplyEnv(s *Settings, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"BUTTON", &s.Button},
		{"STOP", &s.Stop.Mode},
		{"STOP_UNIT", &s.Stop.Unit},
		{"DELAY", &s.Delay.Mode},
		{"DELAY_UNIT", &s.Delay.Unit},
		{"POSITION", &s.Position.Mode},
		{"TOGGLE", &s.Toggle},
		{"BACKEND", &s.Backend},
	}
	for _, f := range strs {
		if v, ok := get(f.name); ok {
			*f.dst = v
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"STOP_VALUE", &s.Stop.Value},
		{"DELAY_VALUE", &s.Delay.Value},
		{"DELAY_MIN", &s.Delay.Min},
		{"DELAY_MAX", &s.Delay.Max},
	}
	for _, f := range floats {
		v, ok := get(f.name)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, f.name, err)
		}
		*f.dst = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"DELAY_STRICT_MIN", &s.Delay.StrictMin},
		{"HISTORY", &s.History},
	}
	for _, f := range bools {
		v, ok := get(f.name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, f.name, err)
		}
		*f.dst = b
	}

	if v, ok := get("RECT"); ok {
		rect, err := ParseRect(v)
		if err != nil {
			return fmt.Errorf("%sRECT: %w", envPrefix, err)
		}
		s.Position.Rect = rect
	}
	return nil
}
