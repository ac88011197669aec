//go:build windows

package wininput

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"autoclick/internal/core/autoclicker"
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
	wmApp    = 0x8000

	inputMouse = 0

	smCxScreen = 0
	smCyScreen = 1

	maxHotkeyID = 0xBFFF
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procSendInput          = user32.NewProc("SendInput")
	procSetCursorPos       = user32.NewProc("SetCursorPos")
	procGetCursorPos       = user32.NewProc("GetCursorPos")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")

	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

type point struct {
	X int32
	Y int32
}

type message struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type input struct {
	Type uint32
	Mi   mouseInput
}

// hotkeyRequest runs on the message loop thread, which owns every
// registration.
type hotkeyRequest struct {
	run  func()
	done chan struct{}
}

// Runtime injects clicks with SendInput and delivers RegisterHotKey
// activations from a dedicated message loop thread.
type Runtime struct {
	logger autoclicker.Logger

	injectMu sync.Mutex

	threadID uint32
	requests chan hotkeyRequest
	loopDone chan struct{}
	stopOnce sync.Once

	// Owned by the loop thread.
	nextID  int32
	hotkeys map[int32]func()
}

func NewRuntime(logger autoclicker.Logger) (*Runtime, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	r := &Runtime{
		logger:   logger,
		requests: make(chan hotkeyRequest, 8),
		loopDone: make(chan struct{}),
		hotkeys:  make(map[int32]func()),
	}

	ready := make(chan struct{})
	go r.messageLoop(ready)
	<-ready
	return r, nil
}

func (r *Runtime) Close() error {
	r.stopOnce.Do(func() {
		_, _, _ = procPostThreadMessageW.Call(uintptr(r.threadID), uintptr(wmQuit), 0, 0)
		<-r.loopDone
	})
	return nil
}

func (r *Runtime) Click(p autoclicker.Point, button autoclicker.Button) error {
	down, up, err := buttonFlags(button)
	if err != nil {
		return err
	}

	r.injectMu.Lock()
	defer r.injectMu.Unlock()

	ok, _, callErr := procSetCursorPos.Call(uintptr(int32(p.X)), uintptr(int32(p.Y)))
	if ok == 0 {
		return fmt.Errorf("SetCursorPos failed: %w", callErr)
	}

	inputs := []input{
		{Type: inputMouse, Mi: mouseInput{DwFlags: down}},
		{Type: inputMouse, Mi: mouseInput{DwFlags: up}},
	}
	sent, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if sent != uintptr(len(inputs)) {
		if callErr != nil && callErr != syscall.Errno(0) {
			return callErr
		}
		return fmt.Errorf("SendInput sent %d of %d inputs", sent, len(inputs))
	}
	return nil
}

func (r *Runtime) CurrentPointerPosition() (autoclicker.Point, error) {
	var pt point
	ok, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return autoclicker.Point{}, fmt.Errorf("GetCursorPos failed: %w", callErr)
	}
	return autoclicker.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func (r *Runtime) PrimaryDisplaySize() (int, int, error) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("GetSystemMetrics returned no primary display")
	}
	return int(int32(w)), int(int32(h)), nil
}

func (r *Runtime) Register(seq autoclicker.KeySequence, activated func()) (autoclicker.HotkeyHandle, error) {
	if activated == nil {
		return 0, fmt.Errorf("activation callback is nil")
	}
	vk, ok := VirtualKey(seq.Key)
	if !ok {
		return 0, fmt.Errorf("%w: no virtual key for %q", autoclicker.ErrUnsupported, seq.Key)
	}
	mods := hotkeyModifiers(seq)

	var (
		id     int32
		regErr error
	)
	if err := r.onLoop(func() {
		if r.nextID >= maxHotkeyID {
			regErr = fmt.Errorf("hotkey ids exhausted")
			return
		}
		r.nextID++
		ret, _, callErr := procRegisterHotKey.Call(0, uintptr(r.nextID), uintptr(mods), uintptr(vk))
		if ret == 0 {
			regErr = fmt.Errorf("RegisterHotKey %s: %w", seq, callErr)
			return
		}
		id = r.nextID
		r.hotkeys[id] = activated
	}); err != nil {
		return 0, err
	}
	if regErr != nil {
		return 0, regErr
	}
	r.logger.Debug("Windows hotkey registered", "key", seq.String(), "id", id)
	return autoclicker.HotkeyHandle(id), nil
}

func (r *Runtime) Unregister(handle autoclicker.HotkeyHandle) error {
	id := int32(handle)
	var unregErr error
	if err := r.onLoop(func() {
		if _, ok := r.hotkeys[id]; !ok {
			unregErr = fmt.Errorf("unknown hotkey handle %d", handle)
			return
		}
		delete(r.hotkeys, id)
		ret, _, callErr := procUnregisterHotKey.Call(0, uintptr(id))
		if ret == 0 {
			unregErr = fmt.Errorf("UnregisterHotKey: %w", callErr)
		}
	}); err != nil {
		return err
	}
	return unregErr
}

// onLoop runs fn on the message loop thread and waits for it.
func (r *Runtime) onLoop(fn func()) error {
	req := hotkeyRequest{run: fn, done: make(chan struct{})}
	select {
	case r.requests <- req:
	case <-r.loopDone:
		return fmt.Errorf("windows runtime closed")
	}
	_, _, _ = procPostThreadMessageW.Call(uintptr(r.threadID), uintptr(wmApp), 0, 0)
	select {
	case <-req.done:
		return nil
	case <-r.loopDone:
		return fmt.Errorf("windows runtime closed")
	}
}

func (r *Runtime) messageLoop(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.loopDone)
	defer r.unregisterAll()

	threadID, _, _ := procGetCurrentThreadID.Call()
	r.threadID = uint32(threadID)

	// Force creation of the thread's message queue before anyone posts to it.
	var msg message
	_, _, _ = procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, 0)
	close(ready)

	for {
		ret, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			r.logger.Warn("Windows message loop failed", "err", callErr)
			return
		case 0:
			return
		}

		switch msg.Message {
		case wmApp:
			r.drainRequests()
		case wmHotkey:
			if activated, ok := r.hotkeys[int32(msg.WParam)]; ok {
				activated()
			}
		}
	}
}

func (r *Runtime) drainRequests() {
	for {
		select {
		case req := <-r.requests:
			req.run()
			close(req.done)
		default:
			return
		}
	}
}

func (r *Runtime) unregisterAll() {
	r.drainRequests()
	for id := range r.hotkeys {
		_, _, _ = procUnregisterHotKey.Call(0, uintptr(id))
		delete(r.hotkeys, id)
	}
}
