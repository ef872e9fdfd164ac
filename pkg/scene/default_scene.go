package scene

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

// NewDefaultScene creates three spheres (diffuse, glass, metal) resting on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	// Default camera configuration
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(3, -2, 2), // Above and to the left of the spheres
		LookAt:      core.NewVec3(-1, 0, 0), // Look at the center sphere
		Up:          core.NewVec3(0, 0, 1),  // Z is up
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0, // Narrow view to frame the three spheres
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:         mustCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     DefaultBackground(),
	}

	// Create materials
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(core.NewVec3(-1, 0, -100.5), 100, ground)
	s.AddSphere(core.NewVec3(-1, 0, 0), 0.5, center)

	// Hollow glass bubble: the negative radius flips the inner shell's normals
	s.AddSphere(core.NewVec3(-1, -1, 0), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, -1, 0), -0.45, glass)

	s.AddSphere(core.NewVec3(-1, 1, 0), 0.5, gold)

	return s
}

// NewSingleSphereScene creates one diffuse sphere in front of a camera at the origin
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(-1, 0, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:         mustCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     DefaultBackground(),
	}

	s.AddSphere(core.NewVec3(-1, 0, 0), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	return s
}
