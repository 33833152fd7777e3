// Package gsd implements the General Simulation Data (GSD) file engine.
//
// GSD is an append-friendly, random-access binary container for a
// time-ordered sequence of frames, where each frame holds a set of named
// rectangular data chunks (N×M arrays of a fixed element type). It targets
// molecular-dynamics and related workloads that write long trajectories
// incrementally and later read arbitrary frames by name.
//
// gsd is not a durable database - on corruption or an incompatible version
// it returns [ErrCorruptFile]/[ErrInvalidFile]; callers own the decision of
// what to do about a bad file.
//
// # Basic usage
//
//	err := gsd.Create("traj.gsd", "my-app", "my-schema", 1)
//	...
//	h, err := gsd.Open("traj.gsd", gsd.ReadWrite, gsd.Options{})
//	...
//	err = h.WriteChunk("position", gsd.TypeFloat32, 3, 3, 0, data)
//	err = h.EndFrame()
//	...
//	entry, ok, err := h.FindChunk(0, "position")
//	err = h.ReadChunk(buf, entry)
//	...
//	err = h.Close()
//
// # Concurrency
//
// A [Handle] is single-threaded: the caller must serialize all operations
// on a given handle. gsd takes an advisory, non-blocking interprocess lock
// for writable handles as a courtesy on top of that discipline; it does not
// replace it (see [Options.DisableLocking]).
package gsd
