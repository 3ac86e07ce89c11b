package errorx

import (
	"context"
	"errors"
	"fmt"
)

// Error carries the lottery service's string error code next to a
// human-oriented message. Local validation failures use CodeValidation and
// never reach the network.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

func New(code string, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Validation builds a local validation error. These are terminal before any
// request is issued.
func Validation(format string, a ...any) Error {
	return New(CodeValidation, format, a...)
}

func CodeOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

func IsValidation(err error) bool {
	return IsCode(err, CodeValidation)
}

// IsCanceled reports whether err is request supersession or navigation
// abort. Those are not failures and must never surface to the operator.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
