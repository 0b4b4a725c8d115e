package tumble

import "errors"

var (
	ErrInvalidConfiguration = errors.New("tumble: invalid world configuration")
	ErrDuplicateBody        = errors.New("tumble: body already added to the world")
)
