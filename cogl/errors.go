package cogl

import "errors"

var (
	// ErrBackendUnsupported is returned when no fragment backend can flush a
	// material.
	ErrBackendUnsupported = errors.New("cogl: no fragment backend supports this material")
	// ErrProgramCompile wraps driver compile failures.
	ErrProgramCompile = errors.New("cogl: program compile failed")
	// ErrPointSpriteUnsupported is returned when enabling point sprite
	// coordinates on a driver without point sprites.
	ErrPointSpriteUnsupported = errors.New("cogl: point sprites are not supported")
)
