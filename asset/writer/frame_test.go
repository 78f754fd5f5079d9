package writer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})
	return img
}

func TestEncodePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePPM(&buf, testFrame()); err != nil {
		t.Fatal(err)
	}

	expHeader := "P6\n2 2\n255\n"
	expPayload := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 10, 20, 30,
	}
	exp := append([]byte(expHeader), expPayload...)

	if !bytes.Equal(buf.Bytes(), exp) {
		t.Fatalf("expected ppm data:\n%v\ngot:\n%v", exp, buf.Bytes())
	}
}

func TestWriteFrame(t *testing.T) {
	dir, err := ioutil.TempDir("", "glint-frame")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	img := testFrame()

	// PNG
	pngFile := filepath.Join(dir, "frame.PNG")
	if err = WriteFrame(img, pngFile); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(pngFile)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		r1, g1, b1, _ := decoded.At(pt.X, pt.Y).RGBA()
		r2, g2, b2, _ := img.At(pt.X, pt.Y).RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 {
			t.Fatalf("expected decoded pixel %v to match the source frame", pt)
		}
	}

	// PPM
	ppmFile := filepath.Join(dir, "frame.ppm")
	if err = WriteFrame(img, ppmFile); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(ppmFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len("P6\n2 2\n255\n")+12 {
		t.Fatalf("unexpected ppm file size %d", len(data))
	}

	// Unsupported
	expError := `writer: unsupported image format ".bmp"`
	if err = WriteFrame(img, filepath.Join(dir, "frame.bmp")); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}
