package activity

import "errors"

// ErrInvalidInput indicates a malformed id, date or log input.
var ErrInvalidInput = errors.New("invalid activity input")
