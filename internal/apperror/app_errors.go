package apperror

import "errors"

// Caller errors. Their messages are sent to clients verbatim.
var (
	ErrSessionNotFound   = errors.New("session-not-found")
	ErrSessionFull       = errors.New("session-full")
	ErrSessionNotPlaying = errors.New("session-not-playing")
	ErrWrongTurn         = errors.New("wrong-turn")
	ErrCellOccupied      = errors.New("cell-occupied")
)

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrUnknownAction    = errors.New("unknown action")
	ErrIDSpaceExhausted = errors.New("could not allocate a free session id")
	ErrArchiveDisabled  = errors.New("result archive is disabled")
)

// IsCallerError reports whether err is one of the errors reported back to the client.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionFull) ||
		errors.Is(err, ErrSessionNotPlaying) ||
		errors.Is(err, ErrWrongTurn) ||
		errors.Is(err, ErrCellOccupied)
}
