package renderer

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

func TestPixelStats_AverageColor(t *testing.T) {
	var ps PixelStats
	assert.Equal(t, core.Vec3{}, ps.GetColor())

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))
	ps.AddSample(core.NewVec3(0, 0, 1))
	ps.AddSample(core.NewVec3(1, 1, 1))

	assert.Equal(t, 4, ps.SampleCount)
	assertVecNear(t, core.NewVec3(0.5, 0.5, 0.5), ps.GetColor(), 1e-12)
}

func TestPixelStats_LuminanceVariance(t *testing.T) {
	var ps PixelStats
	assert.Equal(t, 0.0, ps.LuminanceVariance())

	// Constant samples have no variance
	for i := 0; i < 10; i++ {
		ps.AddSample(core.NewVec3(0.3, 0.3, 0.3))
	}
	assert.InDelta(t, 0.0, ps.LuminanceVariance(), 1e-12)

	// Alternating black and white has variance 1/4
	var noisy PixelStats
	for i := 0; i < 10; i++ {
		noisy.AddSample(core.NewVec3(0, 0, 0))
		noisy.AddSample(core.NewVec3(1, 1, 1))
	}
	assert.InDelta(t, 0.25, noisy.LuminanceVariance(), 1e-9)
}

func TestRenderStats_Finalize(t *testing.T) {
	stats := RenderStats{TotalPixels: 4, TotalSamples: 10, varianceSum: 2}
	stats.finalize(time.Second)

	assert.Equal(t, 2.5, stats.AverageSamples)
	assert.Equal(t, 0.5, stats.MeanVariance)
	assert.Equal(t, time.Second, stats.Duration)

	var empty RenderStats
	empty.finalize(0)
	assert.Equal(t, 0.0, empty.AverageSamples)
	assert.Equal(t, 0.0, empty.MeanVariance)
}

func TestRenderStats_AddPixel(t *testing.T) {
	var noisy PixelStats
	noisy.AddSample(core.NewVec3(0, 0, 0))
	noisy.AddSample(core.NewVec3(1, 1, 1))

	var flat PixelStats
	flat.AddSample(core.NewVec3(0.5, 0.5, 0.5))

	stats := RenderStats{TotalPixels: 2}
	stats.addPixel(&noisy)
	stats.addPixel(&flat)
	stats.finalize(0)

	assert.Equal(t, 3, stats.TotalSamples)
	assert.InDelta(t, 0.125, stats.MeanVariance, 1e-9)
}

func TestRenderStats_LogObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	stats := RenderStats{TotalPixels: 6, TotalSamples: 12, AverageSamples: 2, MaxDepth: 50, MeanVariance: 0.25}
	logger.Info().Object("stats", stats).Msg("done")

	out := buf.String()
	assert.Contains(t, out, `"pixels":6`)
	assert.Contains(t, out, `"samples":12`)
	assert.Contains(t, out, `"samples_per_pixel":2`)
	assert.Contains(t, out, `"max_depth":50`)
	assert.Contains(t, out, `"luminance_variance":0.25`)
}
