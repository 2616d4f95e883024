package dictation

import (
	"errors"

	"github.com/dictate-sh/dictate/internal/controller"
	"github.com/dictate-sh/dictate/internal/inject"
	"github.com/dictate-sh/dictate/internal/transport"
)

// Explain converts an internal error into a user-visible message plus a
// recovery hint, per spec §7. Callers that only need the message can
// discard the hint; err is still available through the normal error
// chain for logging.
func Explain(err error) (message, hint string) {
	if err == nil {
		return "", ""
	}

	switch {
	case errors.Is(err, transport.ErrAuthenticationFailed):
		return "authentication failed", "invalid API key — update in settings"
	case errors.Is(err, inject.ErrNoFocusedWindow):
		return "no focused window", "click the target field first"
	case errors.Is(err, inject.ErrPermissionDenied):
		return "permission denied", "grant accessibility permission"
	case errors.Is(err, inject.ErrNoTextToInject):
		return "nothing to inject", "dictate something first"
	case errors.Is(err, ErrNoTextToInject):
		return "nothing to inject", "dictate something first"
	case errors.Is(err, transport.ErrConnectionFailed):
		return "connection failed", "check your network connection and try again"
	case errors.Is(err, transport.ErrConnectionClosed):
		return "connection closed", "try again"
	case errors.Is(err, transport.ErrServerError):
		return "server error", "try again in a moment"
	case errors.Is(err, transport.ErrProtocolError), errors.Is(err, transport.ErrSerializationError):
		return "protocol error", "this is likely a bug; please report it"
	case errors.Is(err, transport.ErrInvalidConfig):
		return "invalid configuration", "check your config file for typos"
	case errors.Is(err, controller.ErrAPIKeyNotSet):
		return "no API key configured", "set an API key in settings"
	case errors.Is(err, controller.ErrSessionAlreadyActive):
		return "a session is already active", "release push-to-talk and try again"
	case errors.Is(err, controller.ErrNoActiveSession):
		return "no active session", "press push-to-talk to start one"
	case errors.Is(err, controller.ErrChannelClosed):
		return "dictation service is shutting down", ""
	default:
		var kbErr *inject.KeyboardSimulationFailedError
		if errors.As(err, &kbErr) {
			return "keyboard simulation failed", "grant accessibility permission, or switch to the clipboard strategy"
		}
		var cbErr *inject.ClipboardFailedError
		if errors.As(err, &cbErr) {
			return "clipboard access failed", "check that a clipboard tool is installed"
		}
		var winErr *inject.WindowDetectionFailedError
		if errors.As(err, &winErr) {
			return "could not detect the focused window", "click the target field first"
		}
		return err.Error(), ""
	}
}
