package renderer

import "github.com/achilleasa/glint/asset/scene"

// Renderer options. The zero value renders with one tracer per logical core
// and the recursion depth defined by the scene.
type Options struct {
	// Number of cpu tracers. If zero, one tracer is started for each
	// logical core of the host.
	NumWorkers int

	// Max number of mirror bounces. Only applied when OverrideDepth is
	// set; otherwise the scene's MaxRecursionDepth is used.
	MaxDepth      int
	OverrideDepth bool
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{}
}

// Get the recursion depth to use when rendering sc.
func (opts Options) depthFor(sc *scene.Scene) int {
	if opts.OverrideDepth {
		return opts.MaxDepth
	}
	return sc.MaxRecursionDepth
}
