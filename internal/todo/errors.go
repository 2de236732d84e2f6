package todo

import (
	"errors"
)

// Kind classifies a failure so the transport layer can pick a status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindBackend:
		return "backend"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNotFound is returned when no todo is stored under the requested id.
var ErrNotFound = &Error{Kind: KindNotFound, Msg: "Todo not found"}

func validationError(msg string, err error) error {
	return &Error{Kind: KindValidation, Msg: msg, Err: err}
}

func backendError(msg string, err error) error {
	return &Error{Kind: KindBackend, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
