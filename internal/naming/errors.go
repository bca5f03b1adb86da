package naming

import "errors"

var (
	// ErrInvalidEntryName indicates the entry name cannot be used as a file name and identifier
	ErrInvalidEntryName = errors.New("invalid entry name")
)
