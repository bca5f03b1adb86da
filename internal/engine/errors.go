package engine

import "errors"

var (
	// ErrBuildFailed indicates esbuild reported errors for a descriptor
	ErrBuildFailed = errors.New("build failed")
)
