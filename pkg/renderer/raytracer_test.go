package renderer

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/geometry"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// Scanline progress is debug output
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// testScene is a minimal Scene backed by a shape list
type testScene struct {
	geometry.ShapeList
	camera  *Camera
	horizon core.Color
	zenith  core.Color
}

func (s *testScene) GetCamera() *Camera { return s.camera }

func (s *testScene) GetBackgroundColors() (core.Color, core.Color) {
	return s.horizon, s.zenith
}

func newTestScene(t *testing.T, width int, aspect float64, shapes ...geometry.Shape) *testScene {
	t.Helper()
	camera, err := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(-1, 0, 0),
		Width:       width,
		AspectRatio: aspect,
		VFov:        90,
	})
	require.NoError(t, err)

	return &testScene{
		ShapeList: geometry.ShapeList(shapes),
		camera:    camera,
		horizon:   core.NewVec3(1, 1, 1),
		zenith:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// countingMaterial records how many times it is asked to scatter
type countingMaterial struct {
	scatter func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool)
	calls   int
}

func (m *countingMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (material.ScatterResult, bool) {
	m.calls++
	return m.scatter(rayIn, hit)
}

func expectedGradient(direction core.Vec3, horizon, zenith core.Color) core.Color {
	t := 0.5 * (direction.Normalize().Z + 1.0)
	return horizon.Multiply(1.0 - t).Add(zenith.Multiply(t))
}

func TestRayColor_EmptySceneIsGradient(t *testing.T) {
	scene := newTestScene(t, 4, 1)
	raytracer := NewRaytracer(scene, 4, 4)

	directions := []core.Vec3{
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, -3),
		core.NewVec3(1, 2, 0.5),
		core.NewVec3(-0.3, 0.1, -0.8),
	}

	for _, direction := range directions {
		ray := core.NewRay(core.NewVec3(0, 0, 0), direction)
		assert.Equal(t, expectedGradient(direction, scene.horizon, scene.zenith), raytracer.RayColor(ray, 50))
	}

	// Straight up is the zenith and straight down is the horizon
	assert.Equal(t, scene.zenith, raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), 1))
	assert.Equal(t, scene.horizon, raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 1))
}

func TestRayColor_ZeroDepthIsBlack(t *testing.T) {
	scene := newTestScene(t, 4, 1)
	raytracer := NewRaytracer(scene, 4, 4)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	assert.Equal(t, core.Vec3{}, raytracer.RayColor(ray, 0))
}

func TestRayColor_SingleBounceOffDiffuseSphereIsBlack(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(-1, 0, 0), 0.5, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)))
	scene := newTestScene(t, 4, 1, sphere)
	raytracer := NewRaytracer(scene, 4, 4)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(-1, 0, 0))

	hit, isHit := scene.Hit(ray, MinHitDistance, 1e9)
	require.True(t, isHit)
	assert.True(t, hit.FrontFace)
	assertVecNear(t, core.NewVec3(1, 0, 0), hit.Normal, 1e-12)

	// One bounce is spent on the sphere; the scattered ray has no depth left
	assert.Equal(t, core.Vec3{}, raytracer.RayColor(ray, 1))
}

func TestRayColor_ScatterCountBoundedByDepth(t *testing.T) {
	trapped := &countingMaterial{
		scatter: func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool) {
			// Bounce back along the normal, which always faces the inside of the shell
			return material.ScatterResult{
				Scattered:   core.NewRay(hit.Point, hit.Normal),
				Attenuation: core.NewVec3(0.9, 0.9, 0.9),
			}, true
		},
	}
	shell := geometry.NewSphere(core.NewVec3(0, 0, 0), 10, trapped)
	scene := newTestScene(t, 4, 1, shell)
	raytracer := NewRaytracer(scene, 4, 4)

	for _, depth := range []int{1, 2, 7, 50} {
		trapped.calls = 0
		color := raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0.2, 0.1)), depth)

		assert.Equal(t, core.Vec3{}, color, "depth %d", depth)
		assert.Equal(t, depth, trapped.calls, "depth %d", depth)
	}
}

func TestRayColor_AbsorbedRayIsBlack(t *testing.T) {
	absorber := &countingMaterial{
		scatter: func(core.Ray, material.HitRecord) (material.ScatterResult, bool) {
			return material.ScatterResult{}, false
		},
	}
	scene := newTestScene(t, 4, 1, geometry.NewSphere(core.NewVec3(-2, 0, 0), 1, absorber))
	raytracer := NewRaytracer(scene, 4, 4)

	color := raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(-1, 0, 0)), 50)
	assert.Equal(t, core.Vec3{}, color)
	assert.Equal(t, 1, absorber.calls)
}

func TestRayColor_AttenuationMultipliesBackground(t *testing.T) {
	attenuation := core.NewVec3(0.5, 0.25, 1.0)
	skyward := &countingMaterial{
		scatter: func(rayIn core.Ray, hit material.HitRecord) (material.ScatterResult, bool) {
			return material.ScatterResult{
				Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 0, 1)),
				Attenuation: attenuation,
			}, true
		},
	}
	scene := newTestScene(t, 4, 1, geometry.NewSphere(core.NewVec3(-2, 0, 0), 1, skyward))
	raytracer := NewRaytracer(scene, 4, 4)

	color := raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(-1, 0, 0)), 2)
	assertVecNear(t, attenuation.MultiplyVec(scene.zenith), color, 1e-12)

	// Without a second bounce to reach the sky nothing is gathered
	assert.Equal(t, core.Vec3{}, raytracer.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(-1, 0, 0)), 1))
}

func TestVec3ToColor(t *testing.T) {
	raytracer := NewRaytracer(newTestScene(t, 4, 1), 4, 4)

	tests := []struct {
		name     string
		input    core.Color
		expected uint8
	}{
		{"black", core.NewVec3(0, 0, 0), 0},
		{"quarter maps through gamma to half", core.NewVec3(0.25, 0.25, 0.25), 128},
		{"white clamps below 256", core.NewVec3(1, 1, 1), 255},
		{"overbright clamps", core.NewVec3(4, 4, 4), 255},
		{"just above zero", core.NewVec3(1e-6, 1e-6, 1e-6), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := raytracer.vec3ToColor(tt.input)
			assert.Equal(t, tt.expected, c.R)
			assert.Equal(t, tt.expected, c.G)
			assert.Equal(t, tt.expected, c.B)
			assert.Equal(t, uint8(255), c.A)
		})
	}
}

func TestRenderPass_TopRowIsStoredFirst(t *testing.T) {
	scene := newTestScene(t, 8, 2)
	scene.horizon = core.NewVec3(0, 0, 0)
	scene.zenith = core.NewVec3(1, 1, 1)

	raytracer := NewRaytracer(scene, 8, 4)
	raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 4, MaxDepth: 5, Seed: 1})

	fb, _ := raytracer.RenderPass()
	require.Equal(t, 8*4, len(fb.Pixels))

	// The top of the view looks further toward the bright zenith
	for x := 0; x < fb.Width; x++ {
		assert.Greater(t, fb.RGBAAt(x, 0).R, fb.RGBAAt(x, fb.Height-1).R, "column %d", x)
	}
}

func TestRenderPass_Stats(t *testing.T) {
	raytracer := NewRaytracer(newTestScene(t, 6, 2), 6, 3)
	raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 5, MaxDepth: 3, Seed: 9})

	fb, stats := raytracer.RenderPass()
	assert.Equal(t, 6, fb.Width)
	assert.Equal(t, 3, fb.Height)
	assert.Equal(t, 18, stats.TotalPixels)
	assert.Equal(t, 90, stats.TotalSamples)
	assert.Equal(t, 5.0, stats.AverageSamples)
	assert.Equal(t, 3, stats.MaxDepth)

	for _, p := range fb.Pixels {
		assert.Equal(t, uint8(255), UnpackRGBA(p).A)
	}
}

func diffuseTestScene(t *testing.T) *testScene {
	ground := geometry.NewSphere(core.NewVec3(-1, 0, -100.5), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := geometry.NewSphere(core.NewVec3(-1, 0, 0), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	return newTestScene(t, 8, 4.0/3.0, ground, center)
}

func TestRenderPass_SameSeedIsReproducible(t *testing.T) {
	render := func(seed int64) []uint32 {
		raytracer := NewRaytracer(diffuseTestScene(t), 8, 6)
		raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: 10, Seed: seed})
		fb, _ := raytracer.RenderPass()
		return fb.Pixels
	}

	first := render(7)
	assert.Equal(t, first, render(7))
	assert.NotEqual(t, first, render(8))
}

func TestRenderPass_MoreSamplesReduceVariance(t *testing.T) {
	const runs = 12
	const width, height = 8, 6

	meanPixelVariance := func(samples int) float64 {
		values := make([][]float64, width*height)
		for seed := int64(0); seed < runs; seed++ {
			raytracer := NewRaytracer(diffuseTestScene(t), width, height)
			raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: samples, MaxDepth: 10, Seed: 100 + seed})
			fb, _ := raytracer.RenderPass()

			for i, p := range fb.Pixels {
				c := UnpackRGBA(p)
				values[i] = append(values[i], float64(c.R)+float64(c.G)+float64(c.B))
			}
		}

		variances := make([]float64, len(values))
		for i, v := range values {
			variances[i] = stat.Variance(v, nil)
		}
		return stat.Mean(variances, nil)
	}

	noisy := meanPixelVariance(1)
	smooth := meanPixelVariance(32)
	assert.Greater(t, noisy, 0.0)
	assert.Less(t, smooth, noisy)
}

func TestSetSamplingConfig_ResetsSequence(t *testing.T) {
	raytracer := NewRaytracer(diffuseTestScene(t), 8, 6)
	config := SamplingConfig{SamplesPerPixel: 2, MaxDepth: 10, Seed: 3}

	raytracer.SetSamplingConfig(config)
	first, _ := raytracer.RenderPass()

	raytracer.SetSamplingConfig(config)
	second, _ := raytracer.RenderPass()

	assert.Equal(t, first.Pixels, second.Pixels)
}

// constantSampler returns the same value for every draw
type constantSampler struct {
	value float64
}

func (s constantSampler) Get1D() float64 { return s.value }

func (s constantSampler) Get3D() core.Vec3 { return core.NewVec3(s.value, s.value, s.value) }

func TestRenderPass_ScriptedSamplerFixesPixelPositions(t *testing.T) {
	const width, height, depth = 4, 2, 5
	scene := newTestScene(t, width, 2)

	raytracer := NewRaytracer(scene, width, height)
	raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 1, MaxDepth: depth})
	raytracer.SetSampler(constantSampler{value: 0.5})

	fb, stats := raytracer.RenderPass()
	assert.Equal(t, 0.0, stats.MeanVariance)

	uScale := 1.0 / float64(width-1)
	vScale := 1.0 / float64(height-1)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			ray := scene.camera.GetRay((float64(i)+0.5)*uScale, (float64(j)+0.5)*vScale)
			expected := raytracer.vec3ToColor(raytracer.RayColor(ray, depth))
			assert.Equal(t, expected, fb.RGBAAt(i, height-1-j), "pixel %d,%d", i, j)
		}
	}
}

func TestRenderPass_StatsReportLuminanceVariance(t *testing.T) {
	render := func(samples int) RenderStats {
		raytracer := NewRaytracer(diffuseTestScene(t), 8, 6)
		raytracer.SetSamplingConfig(SamplingConfig{SamplesPerPixel: samples, MaxDepth: 10, Seed: 5})
		_, stats := raytracer.RenderPass()
		return stats
	}

	// A single sample has nothing to vary against
	assert.Equal(t, 0.0, render(1).MeanVariance)
	assert.Greater(t, render(16).MeanVariance, 0.0)
}
