package recording

import (
	"fmt"

	"github.com/gogpu/renderbuf"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdClear        CommandType = iota // Fill the whole target
	CmdSetTransform                    // Set transformation matrix
	CmdPushClip                        // Narrow the clip rectangle
	CmdPopClip                         // Restore the previous clip

	// Drawing commands
	CmdFillPolygon     // Fill an even-odd polygon
	CmdFillTriangles   // Fill a triangle list
	CmdFillTrianglesUV // Fill textured triangles
	CmdDrawLine        // Draw a line as a quad
	CmdDrawRect        // Fill a rectangle
	CmdDrawImage       // Blit an image rectangle
	CmdDrawText        // Draw text
)

var commandTypeNames = [...]string{
	CmdClear:           "Clear",
	CmdSetTransform:    "SetTransform",
	CmdPushClip:        "PushClip",
	CmdPopClip:         "PopClip",
	CmdFillPolygon:     "FillPolygon",
	CmdFillTriangles:   "FillTriangles",
	CmdFillTrianglesUV: "FillTrianglesUV",
	CmdDrawLine:        "DrawLine",
	CmdDrawRect:        "DrawRect",
	CmdDrawImage:       "DrawImage",
	CmdDrawText:        "DrawText",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// ImageRef is a reference to an image in the resource pool.
type ImageRef uint32

// FontRef is a reference to a font in the resource pool.
type FontRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference is not InvalidRef.
func (r ImageRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference is not InvalidRef.
func (r FontRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// ClearCommand fills the whole target, ignoring the clip.
type ClearCommand struct {
	Color renderbuf.RGBA
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// SetTransformCommand sets the current transformation matrix.
type SetTransformCommand struct {
	Matrix renderbuf.Matrix
}

// Type implements Command.
func (SetTransformCommand) Type() CommandType { return CmdSetTransform }

// PushClipCommand intersects the clip with Rect.
type PushClipCommand struct {
	Rect renderbuf.Rect
}

// Type implements Command.
func (PushClipCommand) Type() CommandType { return CmdPushClip }

// PopClipCommand restores the clip active before the matching push.
type PopClipCommand struct{}

// Type implements Command.
func (PopClipCommand) Type() CommandType { return CmdPopClip }

// FillPolygonCommand fills a polygon.
type FillPolygonCommand struct {
	Points []renderbuf.Point
	Color  renderbuf.RGBA
}

// Type implements Command.
func (FillPolygonCommand) Type() CommandType { return CmdFillPolygon }

// FillTrianglesCommand fills a triangle list.
type FillTrianglesCommand struct {
	Points []renderbuf.Point
	Color  renderbuf.RGBA
}

// Type implements Command.
func (FillTrianglesCommand) Type() CommandType { return CmdFillTriangles }

// FillTrianglesUVCommand fills textured triangles.
type FillTrianglesUVCommand struct {
	Points []renderbuf.Point
	UVs    []renderbuf.Point
	Image  ImageRef
	Tint   renderbuf.RGBA
}

// Type implements Command.
func (FillTrianglesUVCommand) Type() CommandType { return CmdFillTrianglesUV }

// DrawLineCommand draws a line segment.
type DrawLineCommand struct {
	A, B  renderbuf.Point
	Width float64
	Color renderbuf.RGBA
}

// Type implements Command.
func (DrawLineCommand) Type() CommandType { return CmdDrawLine }

// DrawRectCommand fills a user-space rectangle.
type DrawRectCommand struct {
	X, Y, W, H float64
	Color      renderbuf.RGBA
}

// Type implements Command.
func (DrawRectCommand) Type() CommandType { return CmdDrawRect }

// DrawImageCommand blits the Src pixels of an image into a user-space
// rectangle.
type DrawImageCommand struct {
	Image      ImageRef
	Src        renderbuf.Rect
	X, Y, W, H float64
	Tint       renderbuf.RGBA
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// DrawTextCommand draws text with its first baseline at (X, Y).
type DrawTextCommand struct {
	// Font references the font in the resource pool; InvalidRef selects
	// the target's default font.
	Font  FontRef
	Size  float64
	Text  string
	X, Y  float64
	Color renderbuf.RGBA
}

// Type implements Command.
func (DrawTextCommand) Type() CommandType { return CmdDrawText }

// PlaybackError reports a command the target rejected during playback.
type PlaybackError struct {
	// Index is the position of the command in the recording.
	Index int
	Type  CommandType
	Err   error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("recording: command %d (%v): %v", e.Index, e.Type, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
