// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements batch.Device on the gogpu/wgpu HAL.
//
// Quads are written to a transfer buffer, copied to a storage buffer and
// expanded into two triangles each by the vertex shader. The fragment
// shader evaluates a rounded-rectangle signed distance field with
// per-corner radii, a border, a four-corner gradient and an optional
// texture sample, and writes premultiplied color.
//
// A Device renders offscreen by default:
//
//	dev, info, err := wgpu.OpenDefault(wgpu.WithSize(800, 600))
//	if err != nil {
//		return err
//	}
//	defer dev.Destroy()
//	r, _ := batch.NewRenderer(dev)
//	dev.BeginFrame(batch.ClearGreen)
//	r.Flush(store)
//	dev.Submit()
//	img := dev.Pixels()
//
// Inside a gogpu application use NewDeviceFromProvider to share the
// window's GPU device.
//
// Build with the nogpu tag to exclude this package's GPU code.
package wgpu
