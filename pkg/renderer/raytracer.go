package renderer

import (
	"image/color"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/geometry"
)

// MinHitDistance keeps a scattered ray from re-hitting the surface it left
const MinHitDistance = 0.001

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Seed for the render's random sequence
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Scene is what the raytracer needs from a scene.
// Hit must return the closest hit over all of the scene's shapes.
type Scene interface {
	geometry.Shape
	GetCamera() *Camera
	GetBackgroundColors() (horizon, zenith core.Color)
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene   Scene
	width   int
	height  int
	config  SamplingConfig
	sampler core.Sampler
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	rt := &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
	}
	rt.SetSamplingConfig(DefaultSamplingConfig())
	return rt
}

// SetSamplingConfig updates the sampling configuration and restarts the
// random sequence from the config's seed
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
	rt.sampler = core.NewSeededSampler(config.Seed)
}

// SetSampler replaces the random source, e.g. with a scripted one in tests
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// backgroundGradient returns the sky color seen along a ray that hit nothing
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Color {
	horizon, zenith := rt.scene.GetBackgroundColors()

	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the up component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Z + 1.0)

	// Linear interpolation: (1-t)*horizon + t*zenith
	return horizon.Multiply(1.0 - t).Add(zenith.Multiply(t))
}

// RayColor returns the color carried back along a ray, following at most depth bounces.
// Each bounce multiplies the running throughput by the surface attenuation, which
// is the same product the recursive form attenuation * color(scattered, depth-1)
// computes, without growing the stack.
func (rt *Raytracer) RayColor(r core.Ray, depth int) core.Color {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := rt.scene.Hit(r, MinHitDistance, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(rt.backgroundGradient(r))
		}

		scatter, didScatter := hit.Material.Scatter(r, *hit, rt.sampler)
		if !didScatter {
			return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		r = scatter.Scattered
	}

	// Bounce limit reached, no more light is gathered
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// vec3ToColor converts a linear color to RGBA with gamma 2 correction and clamping.
// The 0.999 ceiling keeps 256*c below 256.
func (rt *Raytracer) vec3ToColor(colorVec core.Color) color.RGBA {
	colorVec = colorVec.Sqrt().Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}

// RenderPass renders every pixel with multi-sampling and returns the framebuffer
func (rt *Raytracer) RenderPass() (*Framebuffer, RenderStats) {
	fb := NewFramebuffer(rt.width, rt.height)
	camera := rt.scene.GetCamera()
	startTime := time.Now()

	// Jittered pixel coordinates are divided by (dimension - 1)
	uScale := 1.0 / float64(max(rt.width-1, 1))
	vScale := 1.0 / float64(max(rt.height-1, 1))

	stats := RenderStats{
		TotalPixels: rt.width * rt.height,
		MaxDepth:    rt.config.MaxDepth,
	}

	// Camera-space rows count up from the bottom of the image
	for j := 0; j < rt.height; j++ {
		for i := 0; i < rt.width; i++ {
			var ps PixelStats

			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				u := (float64(i) + rt.sampler.Get1D()) * uScale
				v := (float64(j) + rt.sampler.Get1D()) * vScale

				ps.AddSample(rt.RayColor(camera.GetRay(u, v), rt.config.MaxDepth))
			}

			fb.SetRGBA(i, rt.height-1-j, rt.vec3ToColor(ps.GetColor()))
			stats.addPixel(&ps)
		}

		log.Debug().
			Int("scanline", j+1).
			Int("of", rt.height).
			Msg("rendered scanline")
	}

	stats.finalize(time.Since(startTime))
	return fb, stats
}
