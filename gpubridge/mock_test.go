// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpubridge

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// mockTexture implements gpucontext.Texture and gpucontext.TextureUpdater.
type mockTexture struct {
	width, height int
	data          []byte
	updates       int
	destroyed     bool
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	if m.destroyed {
		return errors.New("mock texture destroyed")
	}
	m.data = data
	m.updates++
	return nil
}

func (m *mockTexture) Destroy() {
	m.destroyed = true
}

// frozenTexture cannot be updated in place.
type frozenTexture struct {
	width, height int
}

func (f *frozenTexture) Width() int  { return f.width }
func (f *frozenTexture) Height() int { return f.height }

// mockSurface implements gpucontext.TextureCreator for testing.
type mockSurface struct {
	textures []*mockTexture
	frozen   bool
	fail     bool
}

func (m *mockSurface) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.fail {
		return nil, errors.New("mock texture creation failed")
	}
	if m.frozen {
		return &frozenTexture{width: width, height: height}, nil
	}
	tex := &mockTexture{width: width, height: height, data: data}
	m.textures = append(m.textures, tex)
	return tex, nil
}

// shaderSurface also accepts a blit shader.
type shaderSurface struct {
	mockSurface
	shader []uint32
	calls  int
}

func (s *shaderSurface) SetBlitShader(spirv []uint32) error {
	s.shader = spirv
	s.calls++
	return nil
}

// mockDrawer implements gpucontext.TextureDrawer for testing.
type mockDrawer struct {
	surface *mockSurface
	drawn   []gpucontext.Texture
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawn = append(m.drawn, tex)
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator {
	return m.surface
}
