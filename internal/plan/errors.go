package plan

import "errors"

var (
	// ErrDuplicateUnit indicates two entries in a plan map to the same build unit name
	ErrDuplicateUnit = errors.New("duplicate build unit")
	// ErrInvalidPlan indicates the plan document could not be decoded
	ErrInvalidPlan = errors.New("invalid plan")
)
