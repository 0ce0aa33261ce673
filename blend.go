package renderbuf

// clamped limits every channel to [0, 1].
func (c RGBA) clamped() RGBA {
	return RGBA{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// blendAt composites src over the pixel at byte offset i of pix using
// straight-alpha source-over. sa is the effective source alpha, already
// multiplied by any coverage.
//
//	outA = sa + da*(1-sa)
//	out  = (src*sa + dst*da*(1-sa)) / outA
//
// An opaque source overwrites the pixel; a transparent one is skipped.
func blendAt(pix []uint8, i int, src RGBA, sa float64) {
	if !(sa > 0) {
		return
	}
	p := pix[i : i+4 : i+4]
	if sa >= 1 {
		p[0], p[1], p[2], p[3] = quantize(src.R), quantize(src.G), quantize(src.B), 255
		return
	}

	da := float64(p[3]) / 255
	inv := 1 - sa
	outA := sa + da*inv
	w := da * inv
	p[0] = quantize((src.R*sa + float64(p[0])/255*w) / outA)
	p[1] = quantize((src.G*sa + float64(p[1])/255*w) / outA)
	p[2] = quantize((src.B*sa + float64(p[2])/255*w) / outA)
	p[3] = quantize(outA)
}

// fillSpan blends c over pixels [x0, x1) of row y. The caller has already
// clipped the span to the buffer.
func (r *Rasterizer) fillSpan(y, x0, x1 int, c RGBA) {
	pix := r.buf.pix
	row := y * r.buf.width * 4
	if c.A >= 1 {
		n := c.NRGBA()
		px := [4]uint8{n.R, n.G, n.B, 255}
		for i := row + x0*4; i < row+x1*4; i += 4 {
			copy(pix[i:i+4], px[:])
		}
		return
	}
	for i := row + x0*4; i < row+x1*4; i += 4 {
		blendAt(pix, i, c, c.A)
	}
}
