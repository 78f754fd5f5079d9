package cpu

import "errors"

var (
	ErrNoSceneData = errors.New("cpu tracer: no scene data")
	ErrNoCamera    = errors.New("cpu tracer: block request does not specify a camera")
)
