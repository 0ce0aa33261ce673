// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpubridge

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

//go:embed shaders/blit.wgsl
var blitShaderSource string

// BlitShaderSource returns the WGSL source of the blit shader.
func BlitShaderSource() string {
	return blitShaderSource
}

var blitSPIRV = sync.OnceValues(func() ([]uint32, error) {
	return compileToSPIRV(blitShaderSource)
})

// BlitShaderSPIRV returns the blit shader compiled to SPIR-V words.
// It is compiled on first use; the result is shared and must not be
// modified.
func BlitShaderSPIRV() ([]uint32, error) {
	return blitSPIRV()
}

// compileToSPIRV compiles WGSL source to little-endian SPIR-V words.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpubridge: compile blit shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpubridge: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// blitShaderSink is implemented by surfaces that draw textures with a
// caller-supplied shader.
type blitShaderSink interface {
	SetBlitShader(spirv []uint32) error
}
