//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"autoclick/internal/core/autoclicker"

	evdev "github.com/holoplot/go-evdev"
)

// KeyWatcher reads keyboards directly and reports every key press together
// with the modifiers held at that moment. It works without a display server
// grab, so it serves as the local key path on Wayland.
type KeyWatcher struct {
	devices []*evdev.InputDevice
	pressed func(autoclicker.KeySequence)
	logger  autoclicker.Logger

	stopCh    chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
	readersWG sync.WaitGroup
}

// NewKeyWatcher opens devicePath, or all physical keyboards when it is empty.
// pressed is called from reader goroutines.
func NewKeyWatcher(devicePath string, pressed func(autoclicker.KeySequence), logger autoclicker.Logger) (*KeyWatcher, error) {
	if pressed == nil {
		return nil, fmt.Errorf("press callback is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	devices, err := openKeyboards(devicePath)
	if err != nil {
		return nil, err
	}
	return &KeyWatcher{
		devices: devices,
		pressed: pressed,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

func (w *KeyWatcher) Start() {
	w.startOnce.Do(func() {
		for _, dev := range w.devices {
			name, _ := dev.Name()
			w.logger.Debug("Watching keyboard", "path", dev.Path(), "name", name)
			w.readersWG.Add(1)
			go w.readLoop(dev)
		}
	})
}

func (w *KeyWatcher) Close() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		closeInputDevices(w.devices)
		w.readersWG.Wait()
	})
	return nil
}

func (w *KeyWatcher) readLoop(dev *evdev.InputDevice) {
	defer w.readersWG.Done()

	path := dev.Path()
	tracker := newKeyTracker()
	for {
		events, err := dev.ReadSlice(64)
		if err != nil {
			if w.stopped() || isDeviceClosedError(err) {
				return
			}
			if isWouldBlockError(err) {
				if !sleepWithStop(w.stopCh, 10*time.Millisecond) {
					return
				}
				continue
			}
			w.logger.Warn("Read failed", "path", path, "err", err)
			if !sleepWithStop(w.stopCh, 100*time.Millisecond) {
				return
			}
			continue
		}

		for _, event := range events {
			if seq, ok := tracker.feed(event); ok {
				w.pressed(seq)
			}
		}
	}
}

func (w *KeyWatcher) stopped() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// CaptureNext waits for the next key press on devicePath (or every keyboard)
// and returns it as a sequence, modifiers included.
func CaptureNext(devicePath string, timeout time.Duration, logger autoclicker.Logger) (autoclicker.KeySequence, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	seqCh := make(chan autoclicker.KeySequence, 1)
	w, err := NewKeyWatcher(devicePath, func(seq autoclicker.KeySequence) {
		select {
		case seqCh <- seq:
		default:
		}
	}, logger)
	if err != nil {
		return autoclicker.KeySequence{}, err
	}
	defer w.Close()
	w.Start()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case seq := <-seqCh:
		return seq, nil
	case <-timer.C:
		return autoclicker.KeySequence{}, fmt.Errorf("timed out waiting for a key press")
	}
}

// keyTracker turns one device's EV_KEY stream into key sequences. Auto-repeat
// (value 2) and presses of unmapped keys are dropped.
type keyTracker struct {
	held map[evdev.EvCode]struct{}
}

func newKeyTracker() *keyTracker {
	return &keyTracker{held: make(map[evdev.EvCode]struct{})}
}

func (t *keyTracker) feed(event evdev.InputEvent) (autoclicker.KeySequence, bool) {
	if event.Type != evdev.EV_KEY {
		return autoclicker.KeySequence{}, false
	}
	switch event.Value {
	case 0:
		delete(t.held, event.Code)
		return autoclicker.KeySequence{}, false
	case 1:
	default:
		return autoclicker.KeySequence{}, false
	}

	if _, ok := modifierCodes[event.Code]; ok {
		t.held[event.Code] = struct{}{}
		return autoclicker.KeySequence{}, false
	}
	name, ok := KeyName(event.Code)
	if !ok {
		return autoclicker.KeySequence{}, false
	}
	return autoclicker.KeySequence{Mods: t.mods(), Key: name}, true
}

func (t *keyTracker) mods() autoclicker.Modifier {
	var mods autoclicker.Modifier
	for code := range t.held {
		mods |= modifierCodes[code]
	}
	return mods
}

func sleepWithStop(stopCh <-chan struct{}, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

// IsPermissionError reports whether err came from missing access to
// /dev/input, the usual case for users outside the input group.
func IsPermissionError(err error) bool {
	return errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM)
}
