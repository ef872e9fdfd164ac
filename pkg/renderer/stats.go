package renderer

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxDepth       int           // Bounce limit used for every sample
	MeanVariance   float64       // Per-pixel luminance variance averaged over the image
	Duration       time.Duration // Wall time of the pass

	varianceSum float64
}

func (s *RenderStats) addPixel(ps *PixelStats) {
	s.TotalSamples += ps.SampleCount
	s.varianceSum += ps.LuminanceVariance()
}

func (s *RenderStats) finalize(elapsed time.Duration) {
	s.Duration = elapsed
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
		s.MeanVariance = s.varianceSum / float64(s.TotalPixels)
	}
}

// MarshalZerologObject lets stats be logged with Event.Object
func (s RenderStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("pixels", s.TotalPixels).
		Int("samples", s.TotalSamples).
		Float64("samples_per_pixel", s.AverageSamples).
		Int("max_depth", s.MaxDepth).
		Float64("luminance_variance", s.MeanVariance).
		Dur("duration", s.Duration)
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Color // RGB accumulator for final result
	LuminanceAccum   float64    // Luminance accumulator
	LuminanceSqAccum float64    // Luminance squared for variance
	SampleCount      int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// LuminanceVariance returns the population variance of the sample luminances
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return math.Max(0, meanSq-mean*mean)
}
