package domain

import "errors"

// Error kinds. Every domain error matches exactly one of these with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrReference = errors.New("dangling reference")
)

var (
	ErrUserNotFound   = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrPostNotFound   = &Error{Kind: ErrNotFound, Msg: "post not found"}
	ErrEmailExists    = &Error{Kind: ErrConflict, Msg: "email already exists"}
	ErrAuthorNotFound = &Error{Kind: ErrReference, Msg: "author not found"}
)

// Error is a classified domain failure. Its message is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is reports whether target is this error or its kind.
func (e *Error) Is(target error) bool {
	return target == e || target == e.Kind
}
