package promotion

import "errors"

var (
	// ErrEmptyCode is returned when the submitted code is blank after trimming
	ErrEmptyCode = errors.New("promotion code is required")

	// ErrInvalidContext is returned when the evaluation context cannot be classified
	ErrInvalidContext = errors.New("invalid evaluation context")

	// ErrInvalidPromotion is returned when a table record is malformed
	ErrInvalidPromotion = errors.New("invalid promotion")
)
