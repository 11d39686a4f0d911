// Command quadgpu runs the demo scene on the GPU inside a gogpu window.
//
// Rendering is event-driven: an animation token keeps frames coming at
// VSync while the grid pulses. Space pauses and resumes the animation, the
// wheel scrolls and Escape or Q quits.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/batch"
	wgpubackend "github.com/gogpu/batch/backend/wgpu"
	"github.com/gogpu/batch/config"
	"github.com/gogpu/batch/internal/demo"
)

func main() {
	fs := flag.NewFlagSet("quadgpu", flag.ExitOnError)
	flags := config.BindFlags(fs)
	verbose := fs.Bool("v", false, "log buffer and frame activity")
	_ = fs.Parse(os.Args[1:])

	cfg, err := flags.Resolve()
	if err != nil {
		log.Fatalf("quadgpu: %v", err)
	}
	if *verbose {
		batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scene, err := demo.New(cfg)
	if err != nil {
		log.Fatalf("quadgpu: %v", err)
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(false))

	win := newWindow(cfg.Width, cfg.Height)

	var (
		dev       *wgpubackend.Device
		ctx       *batch.Context
		blit      *blitter
		animToken *gogpu.AnimationToken
		paused    bool
		last      = time.Now()
	)

	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		if ctx == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			dev, err = wgpubackend.NewDeviceFromProvider(provider, wgpubackend.WithSize(w, h))
			if err != nil {
				log.Fatalf("quadgpu: %v", err)
			}
			ctx, err = batch.NewContext(dev, win,
				batch.WithInitialCapacity(cfg.InitialCapacity),
				batch.WithClearColor(cfg.Clear()),
				batch.WithHandler(&scene.Scroll),
			)
			if err != nil {
				log.Fatalf("quadgpu: %v", err)
			}
			log.Printf("quadgpu: backend %s (Space to pause)", dc.Backend())
			animToken = app.StartAnimation()
		}
		win.setSize(w, h)

		// Draw straight into the swapchain when the host exposes a HAL
		// view; otherwise render offscreen and hand the pixels over.
		direct := false
		if view, ok := surfaceView(dc.SurfaceView()); ok {
			sw, sh := dc.SurfaceSize()
			dev.SetSurfaceTarget(view, int(sw), int(sh))
			direct = true
		}

		now := time.Now()
		scene.Advance(float32(now.Sub(last).Seconds()))
		last = now

		var drawErr error
		more, err := ctx.Frame(func(s *batch.Store) {
			w, h := ctx.Size()
			if drawErr = scene.Draw(s, w, h); drawErr != nil {
				return
			}
			drawErr = scene.SyncTexture(dev)
		})
		if err == nil {
			err = drawErr
		}
		if err != nil {
			log.Printf("quadgpu: frame %d: %v", ctx.Frames(), err)
			return
		}
		if !more {
			app.Quit()
			return
		}
		if !direct {
			if blit == nil {
				blit = &blitter{}
			}
			if err := blit.draw(dc.AsTextureDrawer(), dev.Pixels()); err != nil {
				log.Printf("quadgpu: present: %v", err)
			}
		}
	})

	// One handler per event: the window forwards presses to onKey.
	win.onKey = func(key gpucontext.Key) {
		if key != gpucontext.KeySpace {
			return
		}
		paused = !paused
		if paused {
			if animToken != nil {
				animToken.Stop()
				animToken = nil
			}
			return
		}
		last = time.Now()
		animToken = app.StartAnimation()
	}
	win.attach(app.EventSource())

	app.OnClose(func() {
		if animToken != nil {
			animToken.Stop()
		}
		if dev != nil {
			dev.Destroy()
		}
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	if ctx != nil {
		log.Printf("quadgpu: %d frames", ctx.Frames())
	}
}

// surfaceView narrows the host's surface view to a HAL view.
func surfaceView(v any) (hal.TextureView, bool) {
	view, ok := v.(hal.TextureView)
	return view, ok && view != nil
}
