package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/df07/go-progressive-raytracer/pkg/renderer"
)

// Builder constructs a built-in scene with optional camera overrides
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Name passed to --scene
	Name        string // Display name
	Description string // Optional description
	Type        string // "builtin" or "file"
	FilePath    string // Path to the scene file (file type only)
}

type builtIn struct {
	info  SceneInfo
	build Builder
}

var builtIns = map[string]builtIn{
	"default": {
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, hollow glass and gold spheres on a ground sphere",
			Type:        "builtin",
		},
		build: NewDefaultScene,
	},
	"spheregrid": {
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "20x20 grid of rainbow-colored metallic spheres",
			Type:        "builtin",
		},
		build: NewSphereGridScene,
	},
	"single": {
		info: SceneInfo{
			ID:          "single",
			Name:        "Single Sphere",
			Description: "One diffuse sphere in front of the camera",
			Type:        "builtin",
		},
		build: NewSingleSphereScene,
	},
}

// NewBuiltIn creates the built-in scene registered under name
func NewBuiltIn(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	entry, ok := builtIns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return entry.build(cameraOverrides...), nil
}

// IsBuiltIn reports whether name is a built-in scene
func IsBuiltIn(name string) bool {
	_, ok := builtIns[name]
	return ok
}

// ListBuiltInScenes returns the built-in scenes sorted by ID
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, entry := range builtIns {
		scenes = append(scenes, entry.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// ListSceneFiles scans dir for YAML scene files. A missing directory is not an error.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("failed to parse scene metadata")
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	return append(ListBuiltInScenes(), files...), nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene file:
//
//	# Scene: Three Spheres
//	# Description: The classic diffuse, glass and metal trio
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	// Extract filename without extension for fallback values
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	// Read header comments to extract metadata
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok {
			sceneInfo.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(value)
		}
	}

	return sceneInfo, scanner.Err()
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
