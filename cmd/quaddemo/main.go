// Command quaddemo renders the demo scene headlessly and writes it to a PNG
// file. -backend picks the device: software (default), wgpu for an
// offscreen Vulkan render read back to the CPU, or auto for the best one
// that opens.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/batch"
	"github.com/gogpu/batch/backend"
	_ "github.com/gogpu/batch/backend/wgpu" // registers the wgpu backend
	"github.com/gogpu/batch/config"
	"github.com/gogpu/batch/internal/demo"
	"github.com/gogpu/batch/text"
)

func main() {
	fs := flag.NewFlagSet("quaddemo", flag.ExitOnError)
	flags := config.BindFlags(fs)
	verbose := fs.Bool("v", false, "log buffer and frame activity")
	scroll := fs.Float64("scroll", 0, "scroll offset in pixels (negative scrolls down)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatalf("quaddemo: %v", err)
	}
	if *verbose {
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		batch.SetLogger(l)
		text.SetLogger(l)
	}

	if err := run(&cfg, float32(*scroll)); err != nil {
		log.Fatalf("quaddemo: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %s)\n", cfg.Output, cfg.Width, cfg.Height, cfg.Backend)
}

func openDevice(cfg *config.Config) (batch.Device, error) {
	if cfg.Backend == "auto" {
		dev, name, err := backend.Default(cfg.Width, cfg.Height)
		cfg.Backend = name
		return dev, err
	}
	return backend.Open(cfg.Backend, cfg.Width, cfg.Height)
}

func run(cfg *config.Config, scroll float32) error {
	scene, err := demo.New(*cfg)
	if err != nil {
		return err
	}
	scene.Scroll.Offset = scroll

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer backend.Release(dev)

	ctx, err := batch.NewContext(dev, nil,
		batch.WithSize(cfg.Width, cfg.Height),
		batch.WithInitialCapacity(cfg.InitialCapacity),
		batch.WithClearColor(cfg.Clear()),
	)
	if err != nil {
		return err
	}

	var drawErr error
	if _, err := ctx.Frame(func(s *batch.Store) {
		if drawErr = scene.Draw(s, cfg.Width, cfg.Height); drawErr != nil {
			return
		}
		if tb, ok := dev.(batch.TextureBinder); ok {
			drawErr = scene.SyncTexture(tb)
		}
	}); err != nil {
		return err
	}
	if drawErr != nil {
		return drawErr
	}

	st := ctx.Renderer().Stats()
	batch.Logger().Debug("quaddemo: frame done", "quads", st.Quads, "capacity", st.BufferCapacity)

	img := backend.Pixels(dev)
	if img == nil {
		return fmt.Errorf("backend %s cannot read frames back", cfg.Backend)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", cfg.Output, err)
	}
	return f.Close()
}
