package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// IsPermanent tells callers whether retrying the same request can ever
// succeed. Infrastructure faults are transient, business-rule failures
// are permanent.
func IsPermanent(err error) bool {
	errx, ok := err.(Error)
	if !ok {
		return false
	}

	switch errx.Code {
	case Unknown.Code, Unavailable, TooManyRequests:
		return false
	}

	return true
}
