package apierr

import "fmt"

// Error carries the HTTP status and stable code a handler should emit for a
// failure originating below the transport layer. It wraps the underlying
// cause so sentinel checks keep working through errors.Is/As.
type Error struct {
	Status int
	Code   string
	Err    error
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
