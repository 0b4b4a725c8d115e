package simulation

import "errors"

var (
	ErrInvalidShape    = errors.New("simulation: invalid shape dimensions")
	ErrInvalidPosition = errors.New("simulation: invalid position")
)
