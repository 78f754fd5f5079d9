package writer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Write a rendered frame to a file. The image format is selected by the file
// extension; supported formats are binary PPM (.ppm) and PNG (.png).
func WriteFrame(img *image.RGBA, filename string) error {
	var encode func(io.Writer, *image.RGBA) error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".ppm":
		encode = EncodePPM
	case ".png":
		encode = func(w io.Writer, img *image.RGBA) error {
			return png.Encode(w, img)
		}
	default:
		return fmt.Errorf("writer: unsupported image format %q", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("writer: could not create %s: %s", filename, err.Error())
	}

	err = encode(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Encode frame as a binary (P6) PPM image with a max color value of 255.
// The alpha channel is discarded.
func EncodePPM(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			offset := 3 * (x - bounds.Min.X)
			row[offset+0] = c.R
			row[offset+1] = c.G
			row[offset+2] = c.B
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}
