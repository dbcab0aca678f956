package graph

import "errors"

var (
	ErrEmptyID         = errors.New("empty identifier")
	ErrDuplicateID     = errors.New("duplicate identifier")
	ErrUnknownNode     = errors.New("node not found")
	ErrNegativeWeight  = errors.New("negative edge weight")
	ErrMultipleEntries = errors.New("more than one entry node")
	ErrMultipleExits   = errors.New("more than one exit node")
	ErrUnknownKind     = errors.New("unknown kind")
	ErrReservedID      = errors.New("reserved identifier")
)
