package elevsystem

import "errors"

var (
	ErrNotInitialized    = errors.New("elevator system not initialized")
	ErrInvalidFloorCount = errors.New("floor count must be positive")
	ErrInvalidLiftCount  = errors.New("lift count must be positive")
	ErrInvalidCapacity   = errors.New("lift capacity must be positive")
	ErrFloorOutOfRange   = errors.New("floor out of range")
	ErrSameFloor         = errors.New("start and destination are the same floor")
	ErrInvalidDirection  = errors.New("invalid direction code")
)
