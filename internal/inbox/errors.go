package inbox

import "errors"

var (
	ErrSourceNotFound = errors.New("email source not found")
	ErrSourceTooLarge = errors.New("email source exceeds size limit")
	ErrInvalidSource  = errors.New("invalid email source")
)
