package openapi

import "fmt"

// ErrorType classifies why an endpoint fetch was aborted.
type ErrorType string

const (
	// ErrorTransport covers non-2xx HTTP statuses and network failures.
	ErrorTransport ErrorType = "transport"

	// ErrorEnvelope covers successfully parsed bodies that report a
	// non-success application result code.
	ErrorEnvelope ErrorType = "envelope"

	// ErrorMalformedBody covers bodies that are neither valid JSON nor a
	// recognized XML envelope (truncated, empty, garbage).
	ErrorMalformedBody ErrorType = "malformed_body"
)

// FetchError describes an aborted endpoint fetch. It is always handled at
// the collection boundary: pagination stops, accumulated records are kept,
// and the pipeline continues with the next endpoint.
type FetchError struct {
	Source  string
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s fetch aborted (%s)", e.Source, e.Type)
	if e.Code != "" {
		msg += fmt.Sprintf(": result code %s", e.Code)
	}
	if e.Message != "" {
		msg += fmt.Sprintf(": %s", e.Message)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
