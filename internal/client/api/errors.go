package api

import (
	"errors"
	"fmt"
)

// TransportError marks failures below the envelope contract: the network was
// unreachable or the response body was not valid JSON. HTTP non-2xx statuses
// are NOT transport errors; they come back as unsuccessful envelopes.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
