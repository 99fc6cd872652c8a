package mpesa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the input is not a parseable text message:
	// invalid UTF-8, blank, or longer than the engine accepts.
	ErrInvalidInput = errors.New("input is not a valid text message")

	// ErrUnrecognizedFormat means no transaction id was found before a
	// "confirmed" marker, or no grammar shape matched the message body.
	ErrUnrecognizedFormat = errors.New("message format not recognized")
)

// MalformedAmountError reports a captured numeric span that could not be
// normalized to a non-negative decimal.
type MalformedAmountError struct {
	Field string
	Raw   string
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("malformed amount in %s: %q", e.Field, e.Raw)
}

// MalformedTimestampError reports a captured date or date+time span that did
// not conform to the expected d/m/yy or d/m/yy h:mm AM/PM format.
type MalformedTimestampError struct {
	Raw string
	Err error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q: %v", e.Raw, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error { return e.Err }
