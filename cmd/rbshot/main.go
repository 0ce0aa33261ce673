// Command rbshot renders a JSON scene into an image file.
//
// Usage:
//
//	rbshot -scene scene.json -output shot.png
//	rbshot -scene - -output shot.webp -glyph-cache 512 -v < scene.json
//
// The output format follows the file extension: .png, .bmp, .tga or .webp.
// Image ops in the scene load their paths relative to the scene file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/renderbuf"
	"github.com/gogpu/renderbuf/glyph"
	"github.com/gogpu/renderbuf/imageio"
	"github.com/gogpu/renderbuf/recording"
)

type config struct {
	scene      string
	width      int
	height     int
	output     string
	font       string
	glyphCache int
	shaper     string
	verify     bool
	verbose    bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.scene, "scene", "", "scene file (JSON), - for stdin")
	flag.IntVar(&cfg.width, "width", 0, "image width (default: scene width)")
	flag.IntVar(&cfg.height, "height", 0, "image height (default: scene height)")
	flag.StringVar(&cfg.output, "output", "shot.png", "output file (.png, .bmp, .tga, .webp)")
	flag.StringVar(&cfg.font, "font", "", "TrueType/OpenType font for text ops (default: Go Regular)")
	flag.IntVar(&cfg.glyphCache, "glyph-cache", 0, "glyph cache size in entries, 0 for unbounded")
	flag.StringVar(&cfg.shaper, "shaper", "kerning", "text layout: advance, kerning or gotext")
	flag.BoolVar(&cfg.verify, "verify", false, "reload the output and check its size")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	renderbuf.SetLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("rbshot failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	if cfg.scene == "" {
		return errors.New("no -scene given")
	}
	if _, err := imageio.FormatFromPath(cfg.output); err != nil {
		return err
	}

	sceneOpts, err := sceneOptions(cfg)
	if err != nil {
		return err
	}
	rec, err := loadScene(cfg.scene, sceneOpts...)
	if err != nil {
		return err
	}

	w, h := rec.Width(), rec.Height()
	if cfg.width > 0 {
		w = cfg.width
	}
	if cfg.height > 0 {
		h = cfg.height
	}

	cache := glyph.NewCache(cacheConfig(cfg.glyphCache))
	shaper, err := newShaper(cfg.shaper)
	if err != nil {
		return err
	}
	buf := renderbuf.New(w, h)
	r := renderbuf.NewRasterizer(buf, renderbuf.WithGlyphCache(cache), renderbuf.WithShaper(shaper))

	if err := rec.Playback(r); err != nil {
		// Skipped commands leave the rest of the scene intact.
		logger.Warn("some commands were skipped", "err", err)
	}
	st := cache.Stats()
	logger.Debug("glyph cache", "len", st.Len, "hits", st.Hits, "misses", st.Misses,
		"evictions", st.Evictions, "hit_rate", st.HitRate())

	if err := imageio.Save(cfg.output, buf); err != nil {
		return err
	}
	logger.Info("saved", "path", cfg.output, "width", w, "height", h)

	if cfg.verify {
		return verify(cfg.output, w, h)
	}
	return nil
}

func sceneOptions(cfg config) ([]recording.SceneOption, error) {
	dir := "."
	if cfg.scene != "-" {
		dir = filepath.Dir(cfg.scene)
	}
	opts := []recording.SceneOption{
		recording.WithImageLoader(func(path string) (image.Image, error) {
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			return imageio.Load(path)
		}),
	}
	if cfg.font != "" {
		data, err := os.ReadFile(cfg.font)
		if err != nil {
			return nil, err
		}
		f, err := glyph.ParseFont(data)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", cfg.font, err)
		}
		opts = append(opts, recording.WithFont(f))
	}
	return opts, nil
}

func loadScene(path string, opts ...recording.SceneOption) (*recording.Recording, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return recording.DecodeScene(r, opts...)
}

func cacheConfig(size int) glyph.CacheConfig {
	cfg := glyph.DefaultCacheConfig()
	if size > 0 {
		cfg.Policy = glyph.NewLRU(size)
	}
	return cfg
}

func newShaper(name string) (glyph.Shaper, error) {
	switch name {
	case "advance":
		return nil, nil
	case "kerning":
		return glyph.KerningShaper{}, nil
	case "gotext":
		return glyph.NewGoTextShaper(), nil
	default:
		return nil, fmt.Errorf("unknown shaper %q", name)
	}
}

func verify(path string, w, h int) error {
	got, err := imageio.Load(path)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if gw, gh := got.Size(); gw != w || gh != h {
		return fmt.Errorf("verify: %s is %dx%d, want %dx%d", path, gw, gh, w, h)
	}
	return nil
}
