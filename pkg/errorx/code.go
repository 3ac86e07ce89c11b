package errorx

import "errors"

// Codes emitted by the lottery service.
const (
	CodeUnauthorized     = "ERR_UNAUTHORIZED"
	CodeNotFound         = "ERR_NOT_FOUND"
	CodeBadRequest       = "ERR_BAD_REQUEST"
	CodeConflict         = "ERR_CONFLICT"
	CodeInternal         = "ERR_INTERNAL"
	CodeLotteryFull      = "ERR_LOTTERY_FULL"
	CodeLotteryEnded     = "ERR_LOTTERY_ENDED"
	CodeLotteryNotActive = "ERR_LOTTERY_NOT_ACTIVE"
	CodeTokenInvalid     = "ERR_TOKEN_INVALID"
	CodeRateLimited      = "ERR_RATE_LIMITED"
	CodeTimeout          = "ERR_REQUEST_TIMEOUT"
)

// CodeValidation marks errors raised by client-side validation only.
const CodeValidation = "ERR_VALIDATION"

var Unknown = Error{Code: CodeInternal, Message: "Request failed"}

var messages = map[string]string{
	CodeUnauthorized:     "Unauthorized or invalid token",
	CodeNotFound:         "Record not found",
	CodeBadRequest:       "Invalid request parameters",
	CodeConflict:         "Record already exists",
	CodeInternal:         "Internal server error",
	CodeLotteryFull:      "The lottery is full",
	CodeLotteryEnded:     "The lottery has ended",
	CodeLotteryNotActive: "The lottery is not active",
	CodeTokenInvalid:     "Edit token is invalid or expired",
	CodeRateLimited:      "Too many requests",
	CodeTimeout:          "Request timed out",
}

// Describe maps err to the operator-facing text: known codes use the fixed
// table, unknown codes fall back to the server-supplied message, anything
// else becomes a generic string.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var e Error
	if errors.As(err, &e) {
		if msg, ok := messages[e.Code]; ok {
			return msg
		}
		if e.Message != "" {
			return e.Message
		}
	}

	return "An unknown error occurred"
}
