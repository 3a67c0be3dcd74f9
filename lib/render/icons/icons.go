// Package icons resolves marker and language cells to small raster
// icons. Lookups never fail: anything unknown or unreadable resolves
// to a transparent placeholder.
package icons

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"hiddengems-bot/lib/scrapers/hiddengems"

	"golang.org/x/image/draw"
)

// language tag -> icon asset filename
var languageIcons = map[string]string{
	"php":        "php-logo-256.png",
	"python":     "python-logo-256.png",
	"cpp":        "cpp-logo-256.png",
	"c":          "c-logo-256.png",
	"rust":       "rust-logo-256.png",
	"go":         "go-logo-256.png",
	"ts":         "ts-logo-256.png",
	"ruby":       "ruby-logo-256.png",
	"java":       "java-logo-256.png",
	"js":         "js-logo-256.png",
	"csharp":     "csharp-logo-256.png",
	"powershell": "powershell-logo-256.png",
	"dart":       "dart-logo-256.png",
	"fsharp":     "fsharp-logo-256.png",
	"julia":      "julia-logo-256.png",
	"lua":        "lua-logo-256.png",
	"perl":       "perl-logo-256.png",
	hiddengems.NoLanguage: "no-logo-256.png",
}

type Registry struct {
	languageDir string
	twemojiDir  string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewRegistry builds a registry reading language logos and twemoji
// rasters from the given directories. Either directory may be missing,
// lookups then degrade to the transparent placeholder.
func NewRegistry(languageDir, twemojiDir string) *Registry {
	return &Registry{
		languageDir: languageDir,
		twemojiDir:  twemojiDir,
		cache:       map[string]image.Image{},
	}
}

// Transparent returns a fully transparent size x size placeholder.
func Transparent(size int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, size, size))
}

// Language resolves a technology tag to its logo, scaled to
// size x size. Unknown tags resolve to the no-language icon, a missing
// asset resolves to the transparent placeholder.
func (r *Registry) Language(tag string, size int) image.Image {
	key := strings.ToLower(strings.TrimSpace(tag))
	if key == "" {
		key = hiddengems.NoLanguage
	}
	filename, ok := languageIcons[key]
	if !ok {
		filename = languageIcons[hiddengems.NoLanguage]
	}
	return r.load(filepath.Join(r.languageDir, filename), size)
}

// Marker resolves a glyph (e.g. "⭐") to its twemoji raster, scaled to
// size x size, falling back to the transparent placeholder.
func (r *Registry) Marker(marker string, size int) image.Image {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return Transparent(size)
	}

	codepoints := make([]string, 0, len(marker))
	for _, c := range marker {
		codepoints = append(codepoints, fmt.Sprintf("%x", c))
	}
	filename := strings.Join(codepoints, "_") + ".png"
	return r.load(filepath.Join(r.twemojiDir, filename), size)
}

func (r *Registry) load(path string, size int) image.Image {
	cacheKey := fmt.Sprintf("%s@%d", path, size)

	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.cache[cacheKey]; ok {
		return img
	}

	img := readScaled(path, size)
	r.cache[cacheKey] = img
	return img
}

func readScaled(path string, size int) image.Image {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to open icon asset", "path", path, "err", err)
		}
		return Transparent(size)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		slog.Warn("failed to decode icon asset", "path", path, "err", err)
		return Transparent(size)
	}

	if src.Bounds().Dx() == size && src.Bounds().Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
