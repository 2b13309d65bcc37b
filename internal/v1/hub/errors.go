package hub

import "fmt"

// joinError is a semantic join failure (§7 kind 2): it never mutates
// registry state and is reported back to the requesting Session as a typed
// ERROR envelope, not logged as a fault.
type joinError struct {
	Code ErrorCode
}

func (e *joinError) Error() string {
	return fmt.Sprintf("join rejected: %s", e.Code)
}

func newJoinError(code ErrorCode) error {
	return &joinError{Code: code}
}

// asJoinError extracts the ErrorCode from a join failure, if it is one.
func asJoinError(err error) (ErrorCode, bool) {
	je, ok := err.(*joinError)
	if !ok {
		return "", false
	}
	return je.Code, true
}

// errorMessage gives the human-readable text paired with an ErrorCode in an
// outbound ERROR envelope.
func errorMessage(code ErrorCode) string {
	switch code {
	case ErrRoomNotFound:
		return "room does not exist"
	case ErrBroadcasterExists:
		return "room already has a broadcaster"
	case ErrUserExists:
		return "username already taken in this room"
	case ErrInvalidRole:
		return "role must be broadcaster or viewer"
	default:
		return "join rejected"
	}
}
