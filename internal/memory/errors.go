package memory

import "errors"

var (
	ErrReadFailed  = errors.New("memory read failed")
	ErrWriteFailed = errors.New("memory write failed")
)
