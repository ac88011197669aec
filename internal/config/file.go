package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the config file. Nil fields leave the lower layer
// untouched.
type FileConfig struct {
	Click    ClickFile    `toml:"click" yaml:"click"`
	Stop     StopFile     `toml:"stop" yaml:"stop"`
	Delay    DelayFile    `toml:"delay" yaml:"delay"`
	Position PositionFile `toml:"position" yaml:"position"`
	Toggle   ToggleFile   `toml:"toggle" yaml:"toggle"`
	Runtime  RuntimeFile  `toml:"runtime" yaml:"runtime"`
}

type ClickFile struct {
	Button *string `toml:"button" yaml:"button,omitempty"`
}

type StopFile struct {
	Mode  *string  `toml:"mode" yaml:"mode,omitempty"`
	Value *float64 `toml:"value" yaml:"value,omitempty"`
	Unit  *string  `toml:"unit" yaml:"unit,omitempty"`
}

type DelayFile struct {
	Mode      *string  `toml:"mode" yaml:"mode,omitempty"`
	Value     *float64 `toml:"value" yaml:"value,omitempty"`
	Min       *float64 `toml:"min" yaml:"min,omitempty"`
	Max       *float64 `toml:"max" yaml:"max,omitempty"`
	Unit      *string  `toml:"unit" yaml:"unit,omitempty"`
	StrictMin *bool    `toml:"strict_min" yaml:"strict_min,omitempty"`
}

type PositionFile struct {
	Mode *string `toml:"mode" yaml:"mode,omitempty"`
	Rect []int   `toml:"rect" yaml:"rect,omitempty"`
}

type ToggleFile struct {
	Key *string `toml:"key" yaml:"key,omitempty"`
}

type RuntimeFile struct {
	Backend *string `toml:"backend" yaml:"backend,omitempty"`
	History *bool   `toml:"history" yaml:"history,omitempty"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads a TOML config, or YAML when the path ends in .yaml/.yml.
// Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg FileConfig
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
		return cfg, nil
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Apply overlays the set fields of f onto s.
func (f FileConfig) Apply(s *Settings) error {
	if f.Click.Button != nil {
		s.Button = *f.Click.Button
	}
	if f.Stop.Mode != nil {
		s.Stop.Mode = *f.Stop.Mode
	}
	if f.Stop.Value != nil {
		s.Stop.Value = *f.Stop.Value
	}
	if f.Stop.Unit != nil {
		s.Stop.Unit = *f.Stop.Unit
	}
	if f.Delay.Mode != nil {
		s.Delay.Mode = *f.Delay.Mode
	}
	if f.Delay.Value != nil {
		s.Delay.Value = *f.Delay.Value
	}
	if f.Delay.Min != nil {
		s.Delay.Min = *f.Delay.Min
	}
	if f.Delay.Max != nil {
		s.Delay.Max = *f.Delay.Max
	}
	if f.Delay.Unit != nil {
		s.Delay.Unit = *f.Delay.Unit
	}
	if f.Delay.StrictMin != nil {
		s.Delay.StrictMin = *f.Delay.StrictMin
	}
	if f.Position.Mode != nil {
		s.Position.Mode = *f.Position.Mode
	}
	if f.Position.Rect != nil {
		if len(f.Position.Rect) != 4 {
			return fmt.Errorf("position.rect needs 4 values, got %d", len(f.Position.Rect))
		}
		copy(s.Position.Rect[:], f.Position.Rect)
	}
	if f.Toggle.Key != nil {
		s.Toggle = *f.Toggle.Key
	}
	if f.Runtime.Backend != nil {
		s.Backend = *f.Runtime.Backend
	}
	if f.Runtime.History != nil {
		s.History = *f.Runtime.History
	}
	return nil
}

// FileFromSettings produces a fully populated FileConfig.
func FileFromSettings(s Settings) FileConfig {
	rect := append([]int(nil), s.Position.Rect[:]...)
	return FileConfig{
		Click: ClickFile{Button: &s.Button},
		Stop: StopFile{
			Mode:  &s.Stop.Mode,
			Value: &s.Stop.Value,
			Unit:  &s.Stop.Unit,
		},
		Delay: DelayFile{
			Mode:      &s.Delay.Mode,
			Value:     &s.Delay.Value,
			Min:       &s.Delay.Min,
			Max:       &s.Delay.Max,
			Unit:      &s.Delay.Unit,
			StrictMin: &s.Delay.StrictMin,
		},
		Position: PositionFile{Mode: &s.Position.Mode, Rect: rect},
		Toggle:   ToggleFile{Key: &s.Toggle},
		Runtime:  RuntimeFile{Backend: &s.Backend, History: &s.History},
	}
}

// Save writes s to path in the format its extension selects. The file is
// replaced atomically.
func Save(path string, s Settings) error {
	cfg := FileFromSettings(s)

	var data []byte
	if isYAML(path) {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = out
	} else {
		var buf bytes.Buffer
		buf.WriteString("# autoclick configuration\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}
	return nil
}
