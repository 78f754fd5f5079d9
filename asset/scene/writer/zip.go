package writer

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/log"
)

type zipSceneWriter struct {
	logger   log.Logger
	filename string

	// Encodes the compiled scene entry.
	encode func(io.Writer, *scene.Scene) error
}

// Create a new zip scene writer.
func newZipSceneWriter(filename string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:   log.New("zip writer"),
		filename: filename,
		encode:   encodeCompiledScene,
	}
}

// Write a compiled scene to a zip archive. The archive contains a single
// gob-encoded entry prefixed by a format header. If the write fails, the
// partially written archive is removed.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	w.logger.Noticef(`writing compiled scene to "%s"`, w.filename)
	start := time.Now()

	f, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("zipSceneWriter: could not create %s: %s", w.filename, err.Error())
	}

	err = w.writeArchive(f, sc)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("zipSceneWriter: could not close %s: %s", w.filename, closeErr.Error())
	}
	if err != nil {
		os.Remove(w.filename)
		return err
	}

	w.logger.Noticef("wrote compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

func (w *zipSceneWriter) writeArchive(out io.Writer, sc *scene.Scene) error {
	zw := zip.NewWriter(out)
	entry, err := zw.Create(scene.CompiledDataFile)
	if err != nil {
		return err
	}

	if err = w.encode(entry, sc); err != nil {
		return err
	}

	return zw.Close()
}

func encodeCompiledScene(out io.Writer, sc *scene.Scene) error {
	encoder := gob.NewEncoder(out)
	if err := encoder.Encode(scene.CompiledHeader{Version: scene.CompiledFormatVersion}); err != nil {
		return fmt.Errorf("zipSceneWriter: could not encode header: %s", err.Error())
	}
	if err := encoder.Encode(sc); err != nil {
		return fmt.Errorf("zipSceneWriter: could not encode scene: %s", err.Error())
	}
	return nil
}
