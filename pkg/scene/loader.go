package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

// vector decodes a three element YAML sequence such as [0.5, 0.7, 1.0]
type vector core.Vec3

func (v *vector) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("line %d: malformed vector: %w", node.Line, err)
	}
	if len(values) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(values))
	}
	*v = vector(core.NewVec3(values[0], values[1], values[2]))
	return nil
}

type cameraFile struct {
	Center      vector  `yaml:"center"`
	LookAt      vector  `yaml:"look_at"`
	Up          vector  `yaml:"up"`
	VFov        float64 `yaml:"vfov"`
	AspectRatio float64 `yaml:"aspect_ratio"`
	Width       int     `yaml:"width"`
}

type renderFile struct {
	SamplesPerPixel int   `yaml:"samples_per_pixel"`
	MaxDepth        int   `yaml:"max_depth"`
	Seed            int64 `yaml:"seed"`
}

type backgroundFile struct {
	Horizon vector `yaml:"horizon"`
	Zenith  vector `yaml:"zenith"`
}

type materialFile struct {
	Type   string  `yaml:"type"`
	Albedo vector  `yaml:"albedo"`
	Fuzz   float64 `yaml:"fuzz"`
	IR     float64 `yaml:"ir"`
}

type objectFile struct {
	Type     string  `yaml:"type"`
	Center   vector  `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

type sceneFile struct {
	Camera     cameraFile              `yaml:"camera"`
	Render     renderFile              `yaml:"render"`
	Background backgroundFile          `yaml:"background"`
	Materials  map[string]materialFile `yaml:"materials"`
	Objects    []objectFile            `yaml:"objects"`
}

// defaultSceneFile holds the values used for any field a scene file leaves out
func defaultSceneFile() sceneFile {
	sampling := renderer.DefaultSamplingConfig()
	background := DefaultBackground()

	return sceneFile{
		Camera: cameraFile{
			Center:      vector(core.Vec3{}),
			LookAt:      vector(core.NewVec3(-1, 0, 0)),
			Up:          vector(core.Up),
			VFov:        90,
			AspectRatio: 16.0 / 9.0,
			Width:       400,
		},
		Render: renderFile{
			SamplesPerPixel: sampling.SamplesPerPixel,
			MaxDepth:        sampling.MaxDepth,
			Seed:            sampling.Seed,
		},
		Background: backgroundFile{
			Horizon: vector(background.Horizon),
			Zenith:  vector(background.Zenith),
		},
	}
}

// Load reads a YAML scene file
func Load(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := Parse(data, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("shapes", s.GetPrimitiveCount()).
		Msg("loaded scene file")

	return s, nil
}

// Parse builds a scene from YAML. Each named material is constructed once and
// shared by every object that references it.
func Parse(data []byte, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	file := defaultSceneFile()

	// Misspelled keys are errors rather than silently defaulted fields
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	cameraConfig := renderer.CameraConfig{
		Center:      core.Vec3(file.Camera.Center),
		LookAt:      core.Vec3(file.Camera.LookAt),
		Up:          core.Vec3(file.Camera.Up),
		Width:       file.Camera.Width,
		AspectRatio: file.Camera.AspectRatio,
		VFov:        file.Camera.VFov,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	materials := make(map[string]material.Material, len(file.Materials))
	for name, entry := range file.Materials {
		mat, err := material.NewMaterial(material.Kind(entry.Type), material.Params{
			Albedo:          core.Vec3(entry.Albedo),
			Fuzz:            entry.Fuzz,
			RefractiveIndex: entry.IR,
		})
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	s := &Scene{
		Camera:       camera,
		CameraConfig: cameraConfig,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: file.Render.SamplesPerPixel,
			MaxDepth:        file.Render.MaxDepth,
			Seed:            file.Render.Seed,
		},
		Background: Background{
			Horizon: core.Vec3(file.Background.Horizon),
			Zenith:  core.Vec3(file.Background.Zenith),
		},
	}

	for i, object := range file.Objects {
		if object.Type != "sphere" {
			return nil, fmt.Errorf("object %d: unknown object type %q", i, object.Type)
		}
		mat, ok := materials[object.Material]
		if !ok {
			return nil, fmt.Errorf("object %d: %w: %q is not defined", i, material.ErrUnknownMaterial, object.Material)
		}
		s.AddSphere(core.Vec3(object.Center), object.Radius, mat)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}
