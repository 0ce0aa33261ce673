// Package recording captures renderbuf drawing calls as commands and plays
// them back onto any renderbuf.Backend.
//
// # Architecture
//
// The package follows a Command pattern with three parts:
//
//   - Recorder: implements renderbuf.Backend and captures each call
//   - Recording: an immutable command list plus a ResourcePool
//   - Playback: replays a Recording onto a target Backend
//
// Commands are typed structs rather than a binary stream, so a Recording
// can be inspected and filtered before playback.
//
// # Basic Usage
//
//	rec := recording.NewRecorder(256, 256)
//	rec.Clear(renderbuf.White)
//	_ = rec.DrawRect(16, 16, 64, 64, renderbuf.Red)
//	r := rec.FinishRecording()
//
//	buf := renderbuf.New(r.Width(), r.Height())
//	err := r.Playback(renderbuf.NewRasterizer(buf))
//
// # Batch Rendering
//
// The Recorder accepts every primitive without validation. Playback runs
// the whole list and never stops early: a primitive the target rejects
// (for example a polygon with fewer than three points) leaves the target
// untouched and is reported as a *PlaybackError. All failures are returned
// together, joined with errors.Join.
//
// # Scenes
//
// DecodeScene builds a Recording from a JSON description; see Scene for
// the format. The rbshot command uses it to render screenshots.
package recording
