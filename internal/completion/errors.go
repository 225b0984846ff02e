package completion

import "errors"

var (
	// ErrMalformedResponse is returned when the model output is not a JSON object
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrCompletion is returned when the completion call itself fails or yields no choice
	ErrCompletion = errors.New("completion request failed")
)
