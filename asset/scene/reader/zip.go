package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/achilleasa/glint/asset"
	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/log"
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read a compiled scene from a zip archive produced by the scene writer.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt so we need to
	// buffer the entire archive in memory.
	data, err := ioutil.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zipSceneReader: %s is not a valid zip archive: %s", sceneRes.Path(), err.Error())
	}

	var sc *scene.Scene
	for _, f := range zr.File {
		if f.Name != scene.CompiledDataFile {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		if sc, err = decodeCompiledScene(f); err != nil {
			return nil, err
		}
	}

	if sc == nil {
		return nil, fmt.Errorf("zipSceneReader: %s does not contain %s", sceneRes.Path(), scene.CompiledDataFile)
	}

	if err = sc.Validate(); err != nil {
		return nil, fmt.Errorf("zipSceneReader: %s", err.Error())
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func decodeCompiledScene(f *zip.File) (*scene.Scene, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := gob.NewDecoder(rc)

	var header scene.CompiledHeader
	if err = decoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("zipSceneReader: failed to load %s header: %s", f.Name, err.Error())
	}
	if header.Version != scene.CompiledFormatVersion {
		return nil, fmt.Errorf("zipSceneReader: unsupported compiled scene version %d; expected %d", header.Version, scene.CompiledFormatVersion)
	}

	sc := &scene.Scene{}
	if err = decoder.Decode(sc); err != nil {
		return nil, fmt.Errorf("zipSceneReader: failed to load %s: %s", f.Name, err.Error())
	}
	return sc, nil
}
