// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpubridge promotes a renderbuf.RenderBuffer into a GPU texture
// for on-screen display.
//
// The bridge never creates a GPU device. It receives texture creation from
// the host through gpucontext interfaces, so renderbuf and glyph stay
// headless and only programs that import this package depend on a GPU
// stack.
//
// # Snapshots
//
// ToTexture copies the buffer's bytes at the time of the call. Later
// drawing does not reach the texture until Update (or Canvas.Flush) is
// called again. A TextureHandle remembers the size and generation of the
// buffer it was made from; after the buffer is resized the handle is
// stale and Update rejects it with ErrStaleHandle. Create a new texture
// instead.
//
// # Usage
//
//	bridge := gpubridge.New(app.TextureCreator(),
//	    gpubridge.WithDeviceProvider(app.GPUContextProvider()))
//
//	canvas, err := gpubridge.NewCanvas(bridge, 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = canvas.DrawRect(10, 10, 100, 50, renderbuf.Red)
//	    _ = canvas.RenderTo(dc.AsTextureDrawer(), 0, 0)
//	})
package gpubridge
