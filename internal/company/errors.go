package company

import "errors"

var (
	ErrConfigNotFound = errors.New("company config not found")
	ErrInvalidConfig  = errors.New("invalid company config")
)
