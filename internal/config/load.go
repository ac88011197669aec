package config

import "fmt"

// Sources names where layered settings come from.
type Sources struct {
	// File is the config path; empty skips the file layer.
	File string
	// DotEnv files are loaded into the environment before it is read.
	DotEnv []string
	Lookup LookupFunc
	// Overrides runs last, typically applying explicitly set CLI flags.
	Overrides func(*Settings) error
}

// Load builds Settings from defaults, then the file, then the environment,
// then Overrides, and validates the result.
func Load(src Sources) (Settings, error) {
	settings := Defaults()

	if src.File != "" {
		file, err := LoadFile(src.File)
		if err != nil {
			return Settings{}, err
		}
		if err := file.Apply(&settings); err != nil {
			return Settings{}, fmt.Errorf("config %s: %w", src.File, err)
		}
	}

	if err := LoadDotEnv(src.DotEnv...); err != nil {
		return Settings{}, err
	}
	if err := ApplyEnv(&settings, src.Lookup); err != nil {
		return Settings{}, err
	}

	if src.Overrides != nil {
		if err := src.Overrides(&settings); err != nil {
			return Settings{}, err
		}
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
