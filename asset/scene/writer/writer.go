package writer

import "github.com/achilleasa/glint/asset/scene"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write a compiled scene.
	Write(*scene.Scene) error
}

// Write a compiled scene to a zip archive. The archive holds a single
// scene.CompiledDataFile entry containing a gob-encoded scene.CompiledHeader
// followed by the gob-encoded scene. The scene must pass Scene.Validate.
func WriteScene(sc *scene.Scene, filename string) error {
	return newZipSceneWriter(filename).Write(sc)
}
