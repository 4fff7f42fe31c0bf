package task

import "errors"

var (
	ErrNotFound   = errors.New("task not found")
	ErrValidation = errors.New("missing or invalid required field")
)
