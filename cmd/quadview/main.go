// Command quadview shows the demo scene in an ebiten window, rendered by the
// software device. The wheel and left-button drag scroll; Q or Escape quits.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/batch"
	"github.com/gogpu/batch/config"
	"github.com/gogpu/batch/internal/demo"
	"github.com/gogpu/batch/software"
)

func main() {
	fs := flag.NewFlagSet("quadview", flag.ExitOnError)
	flags := config.BindFlags(fs)
	verbose := fs.Bool("v", false, "log buffer and frame activity")
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatalf("quadview: %v", err)
	}
	if *verbose {
		batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	g, err := newHostGame(cfg)
	if err != nil {
		log.Fatalf("quadview: %v", err)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("quadview: %v", err)
	}
	log.Printf("quadview: %d frames", g.ctx.Frames())
}

type hostGame struct {
	win   *window
	dev   *software.Device
	ctx   *batch.Context
	scene *demo.Scene
	frame *ebiten.Image
}

func newHostGame(cfg config.Config) (*hostGame, error) {
	scene, err := demo.New(cfg)
	if err != nil {
		return nil, err
	}
	win := &window{width: cfg.Width, height: cfg.Height}
	dev := software.New(cfg.Width, cfg.Height)
	ctx, err := batch.NewContext(dev, win,
		batch.WithInitialCapacity(cfg.InitialCapacity),
		batch.WithClearColor(cfg.Clear()),
		batch.WithHandler(&scene.Scroll),
	)
	if err != nil {
		return nil, err
	}
	return &hostGame{win: win, dev: dev, ctx: ctx, scene: scene}, nil
}

func (g *hostGame) Update() error {
	g.win.collect()
	g.scene.Advance(1.0 / float32(ebiten.TPS()))

	var drawErr error
	more, err := g.ctx.Frame(func(s *batch.Store) {
		w, h := g.ctx.Size()
		if drawErr = g.scene.Draw(s, w, h); drawErr != nil {
			return
		}
		drawErr = g.scene.SyncTexture(g.dev)
	})
	if err != nil {
		return err
	}
	if drawErr != nil {
		return drawErr
	}
	if !more {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	img := g.dev.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	if g.frame == nil || g.frame.Bounds() != b {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.frame.WritePixels(img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.win.width, g.win.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
