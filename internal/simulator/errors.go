package simulator

import "errors"

var (
	ErrNoEntry        = errors.New("graph has no entry node")
	ErrInvalidConfig  = errors.New("invalid simulation config")
	ErrAlreadyStarted = errors.New("simulation already in progress")
	ErrBusy           = errors.New("cannot reconfigure while a simulation is in progress")
)
