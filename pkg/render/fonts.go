// fonts.go - Font management with per-family TTF lookup and embedded fallback.
// Uses golang.org/x/image/font for OpenType rendering. A campaign names a
// single font family; unknown families fall back to the embedded Go Regular
// font rather than failing the render.
package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager resolves font family names to parsed OpenType fonts.
type FontManager struct {
	fallback *opentype.Font
	families map[string]*opentype.Font
}

// NewFontManager creates a font manager. fontDir may contain .ttf/.otf
// files; each registers under its lowercased base name (arial.ttf → "arial").
// An empty or unreadable dir leaves only the embedded fallback.
func NewFontManager(fontDir string) (*FontManager, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	fm := &FontManager{
		fallback: fallback,
		families: make(map[string]*opentype.Font),
	}

	if fontDir != "" {
		if err := fm.loadDir(fontDir); err != nil {
			log.Printf("Warning: could not load fonts from %s: %v, using default only", fontDir, err)
		}
	}
	return fm, nil
}

func (fm *FontManager) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Printf("Warning: could not read font %s: %v", e.Name(), err)
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			log.Printf("Warning: could not parse font %s: %v", e.Name(), err)
			continue
		}
		family := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		fm.families[family] = parsed
	}
	return nil
}

// GetFace returns a font.Face for the family at the given size. Unknown
// families use the embedded fallback.
func (fm *FontManager) GetFace(family string, size float64) (font.Face, error) {
	parsed, ok := fm.families[strings.ToLower(family)]
	if !ok {
		parsed = fm.fallback
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
