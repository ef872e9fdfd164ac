package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// ErrDegenerateCamera is returned when a camera config cannot span an image plane
var ErrDegenerateCamera = errors.New("degenerate camera")

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Point3 // Camera position (eye)
	LookAt      core.Point3 // Point the camera is looking at
	Up          core.Vec3   // World up direction; zero means core.Up
	Width       int         // Image width in pixels
	AspectRatio float64     // Aspect ratio (width/height)
	VFov        float64     // Vertical field of view in degrees
}

// Height returns the image height implied by the width and aspect ratio
func (c CameraConfig) Height() int {
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate rejects configurations that would produce a zero-area or undefined viewport
func (c CameraConfig) Validate() error {
	up := c.up()
	forward := c.Center.Subtract(c.LookAt)

	// Comparisons are written so that NaN fails them
	switch {
	case !c.Center.IsFinite() || !c.LookAt.IsFinite() || !up.IsFinite():
		return fmt.Errorf("%w: center %v, look-at %v and up %v must be finite", ErrDegenerateCamera, c.Center, c.LookAt, up)
	case forward.NearZero():
		return fmt.Errorf("%w: center %v equals look-at %v", ErrDegenerateCamera, c.Center, c.LookAt)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical fov %g outside (0, 180)", ErrDegenerateCamera, c.VFov)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 1):
		return fmt.Errorf("%w: aspect ratio %g must be positive and finite", ErrDegenerateCamera, c.AspectRatio)
	case up.Cross(forward.Normalize()).NearZero():
		return fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerateCamera, up)
	}
	return nil
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base

	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}

	return result
}

func (c CameraConfig) up() core.Vec3 {
	if c.Up == (core.Vec3{}) {
		return core.Up
	}
	return c.Up
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera, deriving the image plane once from the config
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis; forward points from the target back to the eye
	forward := config.Center.Subtract(config.LookAt).Normalize()
	right := config.up().Cross(forward).Normalize()
	up := forward.Cross(right)

	origin := config.Center
	horizontal := right.Multiply(viewportWidth)
	vertical := up.Multiply(viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(forward)

	return &Camera{
		config:          config,
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// GetRay generates a ray for image-plane coordinates (s, t) where 0 <= s,t <= 1.
// (0, 0) is the bottom-left corner of the image.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
