package renderer

import (
	"fmt"
	"image/png"
	"os"
)

// SavePNG writes the framebuffer to path as an 8-bit RGBA PNG
func SavePNG(path string, fb *Framebuffer) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}

	if err := png.Encode(file, fb.Image()); err != nil {
		// Don't leave a truncated image behind
		file.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
