package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-progressive-raytracer/pkg/renderer"
	"github.com/df07/go-progressive-raytracer/pkg/scene"
)

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Render struct {
		Scene   string `help:"Built-in scene name or path to a YAML scene file." default:"default"`
		Width   int    `help:"Image width in pixels; 0 keeps the scene's width."`
		Samples int    `help:"Samples per pixel; 0 keeps the scene's setting."`
		Depth   int    `help:"Maximum bounces per sample; 0 keeps the scene's setting."`
		Seed    int64  `help:"Random seed; negative keeps the scene's seed." default:"-1"`
		Out     string `help:"Directory renders are written under." default:"output" type:"path"`
	} `cmd:"" default:"1" help:"Render a scene to a PNG file."`

	Scenes struct {
		Dir string `help:"Directory to search for YAML scene files." default:"scenes" type:"path"`
	} `cmd:"" help:"List the available scenes."`
}

// renderOptions are the command line overrides applied on top of a scene's settings
type renderOptions struct {
	Width   int
	Samples int
	Depth   int
	Seed    int64
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("pathtracer"),
		kong.Description("a recursive Monte-Carlo path tracer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	switch ctx.Command() {
	case "render":
		opts := renderOptions{
			Width:   CLI.Render.Width,
			Samples: CLI.Render.Samples,
			Depth:   CLI.Render.Depth,
			Seed:    CLI.Render.Seed,
		}
		path, err := renderCommand(CLI.Render.Scene, CLI.Render.Out, opts)
		if err != nil {
			log.Fatal().Err(err).Str("scene", CLI.Render.Scene).Msg("render failed")
		}
		log.Info().Str("path", path).Msg("render saved")
	case "scenes":
		if err := scenesCommand(CLI.Scenes.Dir); err != nil {
			log.Fatal().Err(err).Msg("could not list scenes")
		}
	}
}

func renderCommand(sceneType, outRoot string, opts renderOptions) (string, error) {
	var cameraOverrides renderer.CameraConfig
	if opts.Width > 0 {
		cameraOverrides.Width = opts.Width
	}

	selectedScene, err := createScene(sceneType, cameraOverrides)
	if err != nil {
		return "", err
	}
	applyRenderOptions(selectedScene, opts)

	if err := selectedScene.Validate(); err != nil {
		return "", err
	}

	outputDir := filepath.Join(outRoot, createOutputDir(sceneType))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	width := selectedScene.CameraConfig.Width
	height := selectedScene.CameraConfig.Height()

	log.Info().
		Str("scene", sceneType).
		Int("width", width).
		Int("height", height).
		Int("samples", selectedScene.SamplingConfig.SamplesPerPixel).
		Int("max_depth", selectedScene.SamplingConfig.MaxDepth).
		Int64("seed", selectedScene.SamplingConfig.Seed).
		Int("primitives", selectedScene.GetPrimitiveCount()).
		Msg("starting render")

	raytracer := renderer.NewRaytracer(selectedScene, width, height)
	raytracer.SetSamplingConfig(selectedScene.SamplingConfig)

	fb, stats := raytracer.RenderPass()
	log.Info().Object("stats", stats).Msg("render completed")

	// Create timestamped filename
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	if err := renderer.SavePNG(filename, fb); err != nil {
		return "", err
	}
	return filename, nil
}

func applyRenderOptions(s *scene.Scene, opts renderOptions) {
	if opts.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.Samples
	}
	if opts.Depth > 0 {
		s.SamplingConfig.MaxDepth = opts.Depth
	}
	if opts.Seed >= 0 {
		s.SamplingConfig.Seed = opts.Seed
	}
}

func scenesCommand(dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, info := range scenes {
		fmt.Printf("%-28s %-8s %s\n", info.ID, info.Type, info.Description)
	}
	return nil
}

// createScene builds a built-in scene by name, or loads a YAML scene file by
// path or by name from the scenes directory
func createScene(sceneType string, cameraOverrides renderer.CameraConfig) (*scene.Scene, error) {
	if scene.IsBuiltIn(sceneType) {
		return scene.NewBuiltIn(sceneType, cameraOverrides)
	}

	if path, ok := findSceneFile(sceneType); ok {
		return scene.Load(path, cameraOverrides)
	}

	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, sceneType)
}

// findSceneFile resolves a scene argument to an existing YAML file
func findSceneFile(sceneType string) (string, bool) {
	if sceneType == "" {
		return "", false
	}

	candidates := []string{sceneType}
	if !isSceneFile(sceneType) {
		candidates = append(candidates,
			filepath.Join("scenes", sceneType+".yaml"),
			filepath.Join("scenes", sceneType+".yml"))
	}

	for _, candidate := range candidates {
		if !isSceneFile(candidate) {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// createOutputDir returns the per-scene directory name renders are grouped under
func createOutputDir(sceneType string) string {
	if scene.IsBuiltIn(sceneType) {
		return sceneType
	}

	base := filepath.Base(sceneType)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "scene"
	}
	return name
}
