package service

import "errors"

// Service methods wrap their failures in one of these so callers can tell
// the causes apart with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrSampling    = errors.New("sampling failed")
)
