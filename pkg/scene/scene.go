package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/geometry"
	"github.com/df07/go-progressive-raytracer/pkg/material"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

var (
	// ErrUnknownScene is returned when a scene name matches no built-in scene or file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned by Validate for scenes that cannot be rendered
	ErrInvalidScene = errors.New("invalid scene")
)

// Background is the sky gradient seen by rays that leave the scene
type Background struct {
	Horizon core.Color // Color looking straight down
	Zenith  core.Color // Color looking straight up
}

// DefaultBackground returns a white horizon blending into a light blue sky
func DefaultBackground() Background {
	return Background{
		Horizon: core.NewVec3(1.0, 1.0, 1.0),
		Zenith:  core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     Background
	Shapes         geometry.ShapeList // Objects in the scene
}

// Hit returns the closest hit over all shapes in the scene
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return s.Shapes.Hit(ray, tMin, tMax)
}

// GetCamera returns the scene's camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (horizon, zenith core.Color) {
	return s.Background.Horizon, s.Background.Zenith
}

// AddSphere adds a sphere to the scene and returns it
func (s *Scene) AddSphere(center core.Point3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.Shapes.Add(sphere)
	return sphere
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return countPrimitives(s.Shapes)
}

func countPrimitives(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case geometry.ShapeList:
		count := 0
		for _, child := range obj {
			count += countPrimitives(child)
		}
		return count
	case *geometry.ShapeList:
		if obj == nil {
			return 0
		}
		return countPrimitives(*obj)
	default:
		return 1
	}
}

// SetWidth changes the image width and rebuilds the camera, keeping the aspect ratio
func (s *Scene) SetWidth(width int) error {
	config := renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{Width: width})
	camera, err := renderer.NewCamera(config)
	if err != nil {
		return err
	}
	s.CameraConfig = config
	s.Camera = camera
	return nil
}

// Validate rejects scenes the renderer cannot draw. A scene that passes can be
// rendered without further checks.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	width, height := s.CameraConfig.Width, s.CameraConfig.Height()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidScene, width, height)
	}
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidScene, s.SamplingConfig.SamplesPerPixel)
	}
	if s.SamplingConfig.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth %d must be positive", ErrInvalidScene, s.SamplingConfig.MaxDepth)
	}

	return validateShapes(s.Shapes)
}

func validateShapes(shapes geometry.ShapeList) error {
	for i, shape := range shapes {
		switch obj := shape.(type) {
		case *geometry.Sphere:
			if obj == nil {
				return fmt.Errorf("%w: shape %d is a nil sphere", ErrInvalidScene, i)
			}
			if obj.Radius == 0 || math.IsNaN(obj.Radius) || math.IsInf(obj.Radius, 0) {
				return fmt.Errorf("%w: shape %d: sphere radius %g", ErrInvalidScene, i, obj.Radius)
			}
			if !obj.Center.IsFinite() {
				return fmt.Errorf("%w: shape %d: sphere center %v", ErrInvalidScene, i, obj.Center)
			}
			if obj.Material == nil {
				return fmt.Errorf("%w: shape %d: sphere has no material", ErrInvalidScene, i)
			}
		case geometry.ShapeList:
			if err := validateShapes(obj); err != nil {
				return err
			}
		case *geometry.ShapeList:
			if obj == nil {
				return fmt.Errorf("%w: shape %d is a nil shape list", ErrInvalidScene, i)
			}
			if err := validateShapes(*obj); err != nil {
				return err
			}
		case nil:
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		}
	}
	return nil
}

// mustCamera builds the camera for a built-in scene, whose config is known to be valid
func mustCamera(config renderer.CameraConfig) *renderer.Camera {
	camera, err := renderer.NewCamera(config)
	if err != nil {
		panic(fmt.Sprintf("built-in scene camera: %v", err))
	}
	return camera
}
