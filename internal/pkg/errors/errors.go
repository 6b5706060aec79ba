package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidTagFormat  = errors.New("invalid tag format")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrBookmarkExists    = errors.New("bookmark already exists")
	ErrCreateFailed      = errors.New("bookmark creation failed")
	ErrSchemaMismatch    = errors.New("unexpected bookmark format")
	ErrRequest           = errors.New("request failed")

	// The following are request errors the caller can tell apart.
	ErrNothingToUpdate        = fmt.Errorf("%w: no update parameters provided", ErrRequest)
	ErrMissingSecret          = fmt.Errorf("%w: required secret not set", ErrRequest)
	ErrUnsupportedContentType = fmt.Errorf("%w: unsupported content type", ErrRequest)
)

// RequestError carries the details of a failed call to a remote service.
type RequestError struct {
	Message    string
	StatusCode int
	// Payload is the decoded JSON error body, if the service sent one.
	Payload map[string]any
	Err     error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, msg)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookmarkNotFound)
}

func IsRequest(err error) bool {
	return errors.Is(err, ErrRequest)
}

// StatusCode returns the HTTP status of the first RequestError in err's chain.
func StatusCode(err error) (int, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		return reqErr.StatusCode, true
	}
	return 0, false
}
