package notify

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidEventCode is returned by Emitter.On for a code outside
	// the allow-list.
	ErrInvalidEventCode = errors.New("invalid event code")
	// ErrInvalidListener is returned by Emitter.On for a nil listener.
	ErrInvalidListener = errors.New("invalid listener")
	// ErrInvalidEstimateResult marks a gas or gas-price estimator whose
	// result does not parse as a non-negative integer string.
	ErrInvalidEstimateResult = errors.New("invalid estimate result")
	// ErrInvalidSubmissionResult marks a SendTransaction result that is
	// not a transaction hash.
	ErrInvalidSubmissionResult = errors.New("invalid submission result")
)

// ValidationError reports malformed input at the API boundary.
type ValidationError struct {
	Field  string
	Expect string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: expected %s", e.Field, e.Expect)
}

// classifySubmissionError maps a submission failure onto an event code
// by best-effort substring inspection of the error text. Unrecognized
// text falls through to the generic txError bucket.
func classifySubmissionError(err error) (EventCode, string) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	switch {
	case msg == "":
		return EventTxError, "unknown error"
	case strings.Contains(msg, "User denied transaction signature"):
		return EventTxSendFail, msg
	case strings.Contains(msg, "transaction underpriced"):
		return EventTxUnderpriced, msg
	default:
		return EventTxError, msg
	}
}
