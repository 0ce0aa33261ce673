package renderbuf

import (
	"errors"
	"fmt"
)

// Errors returned by drawing operations.
var (
	// ErrDegeneratePolygon is returned when a polygon has fewer than 3 points
	// or a triangle list is not a multiple of 3 points.
	ErrDegeneratePolygon = errors.New("renderbuf: degenerate polygon")

	// ErrInvalidPrimitive is returned for primitives with non-finite
	// coordinates, negative line widths or mismatched texture coordinates.
	ErrInvalidPrimitive = errors.New("renderbuf: invalid primitive")

	// ErrNoGlyphCache is returned by text operations on a Rasterizer that
	// was created without a glyph cache and could not create one.
	ErrNoGlyphCache = errors.New("renderbuf: no glyph cache")

	// ErrBufferTooLarge is the panic value raised by New and Resize when
	// the byte size of the requested dimensions does not fit in an int.
	ErrBufferTooLarge = errors.New("renderbuf: buffer dimensions too large")
)

// ContainerTooSmallError reports a mismatch between the size of a byte
// container and the dimensions it was supposed to describe.
type ContainerTooSmallError struct {
	// Len is the number of bytes in the container.
	Len int
	// Pixels is the number of pixels required by the requested dimensions.
	Pixels int
}

func (e *ContainerTooSmallError) Error() string {
	return fmt.Sprintf("renderbuf: container is too small for the given dimensions: "+
		"container has %d bytes, which encode %d pixels, but the given dimensions contain %d pixels",
		e.Len, e.Len/4, e.Pixels)
}

// OutOfBoundsError is the panic value raised by pixel accessors when the
// coordinates fall outside the buffer.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("renderbuf: pixel (%d, %d) out of bounds for %dx%d buffer",
		e.X, e.Y, e.Width, e.Height)
}
