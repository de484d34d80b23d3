package client

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the API rejects the auth token with 403.
// The caller must clear its session and sign in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// GenericFailureMessage is shown when the server gave no usable message.
const GenericFailureMessage = "Something went wrong, please try again"

// OperationError is any gateway failure other than session expiry: a non-2xx
// response, a transport error, or an undecodable body.
type OperationError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *OperationError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the server message verbatim, or a generic notice.
func (e *OperationError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericFailureMessage
}

// ValidationError rejects input before anything is sent to the API.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Outcome tags the result of a gateway call for the presentation layer.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalid
	OutcomeAuthExpired
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeAuthExpired:
		return "auth_expired"
	default:
		return "failed"
	}
}

// Classify maps an error returned by the gateway to its Outcome.
func Classify(err error) Outcome {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrSessionExpired):
		return OutcomeAuthExpired
	case errors.As(err, &validationErr):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var (
		validationErr *ValidationError
		opErr         *OperationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return ErrSessionExpired.Error()
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &opErr):
		return opErr.UserMessage()
	default:
		return GenericFailureMessage
	}
}
