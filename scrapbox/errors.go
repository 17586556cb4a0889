package scrapbox

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/s0up4200/sbc/gyazo"
)

// Common errors
var (
	// ErrNotFound indicates the page, project or file does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized indicates missing or rejected credentials
	ErrUnauthorized = errors.New("unauthorized: authentication required or rejected")
	// ErrMalformedResponse indicates a body that does not match any known shape
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnsupportedEmbedType indicates a recognized oEmbed variant that cannot be downloaded
	ErrUnsupportedEmbedType = errors.New("unsupported embed type")
	// ErrTransport indicates any other failed request
	ErrTransport = errors.New("transport error")
	// ErrInvalidArgument indicates a caller-supplied value the client refuses to send
	ErrInvalidArgument = errors.New("invalid argument")
)

// APIError represents a non-success HTTP status from Scrapbox or Gyazo
type APIError struct {
	StatusCode int
	Message    string
	URL        string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto one of the sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.IsNotFound():
		return ErrNotFound
	case e.IsUnauthorized():
		return ErrUnauthorized
	default:
		return ErrTransport
	}
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MalformedResponseError is returned when a response body cannot be decoded
// into the expected model.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

// Unwrap exposes both ErrMalformedResponse and the underlying decode error,
// such as a *gyazo.ValidationError.
func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// UnsupportedEmbedTypeError is returned when a Gyazo reference resolves to an
// oEmbed variant that has no single downloadable byte stream.
type UnsupportedEmbedTypeError struct {
	Type      gyazo.EmbedType
	Reference string
}

func (e *UnsupportedEmbedTypeError) Error() string {
	return fmt.Sprintf("Unsupported Gyazo oEmbed type: %s (%s)", e.Type, e.Reference)
}

func (e *UnsupportedEmbedTypeError) Unwrap() error {
	return ErrUnsupportedEmbedType
}
