package audiocap

import "errors"

// Sentinel errors for the audio capture failure kinds this package can
// produce. Wrap with fmt.Errorf("...: %w", ErrXxx) to attach detail while
// keeping errors.Is usable by callers.
var (
	ErrDeviceNotFound    = errors.New("audiocap: device not found")
	ErrStreamBuildFailed = errors.New("audiocap: stream build failed")
	ErrStreamError       = errors.New("audiocap: stream error")
	ErrInvalidDeviceName = errors.New("audiocap: invalid device name")
)
