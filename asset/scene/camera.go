package scene

import (
	"fmt"

	"github.com/achilleasa/glint/types"
)

// The image plane extents at the camera's near distance.
type NearPlane struct {
	Left, Right, Bottom, Top float32
}

// A pinhole camera. Primary rays are generated by stepping over the near
// plane in pixel-sized increments starting from its top-left corner.
type Camera struct {
	Position types.Vec3
	Gaze     types.Vec3
	Up       types.Vec3

	NearPlane    NearPlane
	NearDistance float32

	// Frame dimensions and output file.
	Width     uint32
	Height    uint32
	ImageName string
}

// Camera basis and per-pixel steps derived from the camera settings.
type cameraFrame struct {
	topLeft  types.Vec3
	rightPix types.Vec3
	downPix  types.Vec3
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera %q (%dx%d)\n  pos : (%3.3f, %3.3f, %3.3f)\n  gaze: (%3.3f, %3.3f, %3.3f)\n  up  : (%3.3f, %3.3f, %3.3f)",
		c.ImageName, c.Width, c.Height,
		c.Position[0], c.Position[1], c.Position[2],
		c.Gaze[0], c.Gaze[1], c.Gaze[2],
		c.Up[0], c.Up[1], c.Up[2],
	)
}

// Validate camera settings.
func (c *Camera) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("camera: invalid image resolution %dx%d", c.Width, c.Height)
	}
	if c.Gaze.Cross(c.Up).IsZero() {
		return fmt.Errorf("camera: gaze and up vectors must not be parallel")
	}
	if c.NearPlane.Right == c.NearPlane.Left || c.NearPlane.Top == c.NearPlane.Bottom {
		return fmt.Errorf("camera: near plane has zero area")
	}
	return nil
}

func (c *Camera) frame() cameraFrame {
	gaze := c.Gaze.Normalize()
	u := gaze.Cross(c.Up).Normalize()
	v := u.Cross(gaze)

	center := c.Position.Add(gaze.Mul(c.NearDistance))
	pixW := (c.NearPlane.Right - c.NearPlane.Left) / float32(c.Width)
	pixH := (c.NearPlane.Top - c.NearPlane.Bottom) / float32(c.Height)

	return cameraFrame{
		topLeft:  center.Add(u.Mul(c.NearPlane.Left)).Add(v.Mul(c.NearPlane.Top)),
		rightPix: u.Mul(pixW),
		downPix:  v.Mul(-pixH),
	}
}

// Generate the primary ray passing through the center of pixel (x, y). Pixel
// (0, 0) is the top-left corner of the frame. The ray direction is not
// normalized.
func (c *Camera) PrimaryRay(x, y uint32) types.Ray {
	return c.frame().ray(c.Position, x, y)
}

// Generate primary rays for all pixels of row y.
func (c *Camera) PrimaryRays(y uint32, out []types.Ray) []types.Ray {
	f := c.frame()
	out = out[:0]
	for x := uint32(0); x < c.Width; x++ {
		out = append(out, f.ray(c.Position, x, y))
	}
	return out
}

func (f cameraFrame) ray(origin types.Vec3, x, y uint32) types.Ray {
	pixel := f.topLeft.
		Add(f.rightPix.Mul(float32(x) + 0.5)).
		Add(f.downPix.Mul(float32(y) + 0.5))
	return types.NewRay(origin, pixel.Sub(origin))
}
