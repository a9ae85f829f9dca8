package transcriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// RemoteServiceError reports a non-success status from the transcription
// backend itself.
type RemoteServiceError struct {
	StatusCode int
	Message    string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service error %d: %s", e.StatusCode, e.Message)
}

// TransportError reports that the network call could not complete (DNS,
// connection reset, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsRemoteServiceError(err error) bool {
	var rse *RemoteServiceError
	return errors.As(err, &rse)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// classifyError maps go-openai client failures onto the error taxonomy.
// Context cancellation and deadline expiry pass through untouched so
// callers can tell cancellation apart from failure.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteServiceError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &RemoteServiceError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
		}
	}

	return &TransportError{Err: err}
}
