//go:build !linux && !windows

package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"autoclick/internal/core/autoclicker"
)

func openNativePlatform(backend string, _ *slog.Logger) (*platform, error) {
	return nil, fmt.Errorf("%w: backend %q (only dry-run works here)", autoclicker.ErrUnsupported, backend)
}

func startLocalKeys(_ string, _ localKeyTarget, _ *slog.Logger) (func() error, error) {
	return nil, nil
}

func listInputDevices(_ io.Writer) error {
	return fmt.Errorf("%w: input device listing", autoclicker.ErrUnsupported)
}

func captureKey(_ string, _ time.Duration, _ *slog.Logger) (autoclicker.KeySequence, error) {
	return autoclicker.KeySequence{}, fmt.Errorf("%w: key capture", autoclicker.ErrUnsupported)
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend."
}
