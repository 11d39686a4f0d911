// Package batch is an immediate-mode 2D quad batcher for GPU rendering.
//
// # Overview
//
// Each frame the application clears a [Store], pushes [Quad] values into it
// in draw order, and flushes the store with a [Renderer]. The flush copies
// every quad into the device's staging memory, uploads it to a storage
// buffer, and issues one draw of six vertices per quad. The vertex shader
// expands each quad from the storage buffer; the fragment shader evaluates
// a rounded-rectangle distance field with per-corner radii, a border band,
// per-corner color interpolation and optional texture sampling.
//
// # Quick Start
//
//	dev := software.New(800, 600)
//	ctx, err := batch.NewContext(dev, nil, batch.WithSize(800, 600))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = ctx.Frame(func(s *batch.Store) {
//	    s.Push(batch.RoundedRect(batch.Rect{X: 10, Y: 10, W: 60, H: 60}, batch.White, 8))
//	})
//	png.Encode(f, dev.Image())
//
// # Devices
//
// [Device] is the collaborator that owns GPU buffers and the render target.
// Two implementations ship with the module:
//
//   - software: CPU rasterizer, used headless and in tests
//   - backend/wgpu: gogpu/wgpu HAL device with a WGSL storage-buffer pipeline
//
// # Encoded layout
//
// Quads are encoded as [QuadSize] bytes of little-endian float32 laid out
// like the shader struct; see [EncodeQuad].
//
// # Concurrency
//
// Store, Renderer and Context are single-threaded. Producers that build
// batches in parallel each fill their own Store and combine them with
// [Store.AppendStore] before the flush.
//
// # Logging
//
// batch is silent by default. Call [SetLogger] with a *slog.Logger to
// enable diagnostics.
package batch
