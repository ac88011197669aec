package autoclicker

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrInvalidKeySequence = errors.New("invalid key sequence")
	ErrUnknownUnit        = errors.New("unknown time unit")
	ErrUnsupported        = errors.New("not supported on this platform")
)
