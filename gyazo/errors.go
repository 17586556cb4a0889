package gyazo

import "fmt"

// ValidationError reports the first structural problem found while decoding
// an oEmbed response.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("gyazo oembed validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("gyazo oembed validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "field required"}
}
