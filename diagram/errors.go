package diagram

import "errors"

// Common errors
var (
	ErrBlockNotFound       = errors.New("block not found")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrSelfConnection      = errors.New("cannot connect a block to itself")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrUnknownBlockType    = errors.New("unknown block type")
)
