//go:build !windows

package wininput

import (
	"fmt"

	"autoclick/internal/core/autoclicker"
)

var errNotWindows = fmt.Errorf("%w: windows input runtime is only available on Windows", autoclicker.ErrUnsupported)

type Runtime struct{}

func NewRuntime(logger autoclicker.Logger) (*Runtime, error) {
	return nil, errNotWindows
}

func (r *Runtime) Close() error {
	return nil
}

func (r *Runtime) Click(p autoclicker.Point, button autoclicker.Button) error {
	return errNotWindows
}

func (r *Runtime) CurrentPointerPosition() (autoclicker.Point, error) {
	return autoclicker.Point{}, errNotWindows
}

func (r *Runtime) PrimaryDisplaySize() (int, int, error) {
	return 0, 0, errNotWindows
}

func (r *Runtime) Register(seq autoclicker.KeySequence, activated func()) (autoclicker.HotkeyHandle, error) {
	return 0, errNotWindows
}

func (r *Runtime) Unregister(handle autoclicker.HotkeyHandle) error {
	return errNotWindows
}
