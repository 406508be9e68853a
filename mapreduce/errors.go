package mapreduce

import "errors"

var (
	ErrInvalidMappers      = errors.New("mapper count must be positive")
	ErrInvalidReducers     = errors.New("reducer count must be positive")
	ErrNilCallback         = errors.New("map and reduce functions are required")
	ErrPartitionOutOfRange = errors.New("partition out of range")
	ErrStoreFrozen         = errors.New("store is frozen")
	ErrCallbackPanic       = errors.New("callback panicked")
)
