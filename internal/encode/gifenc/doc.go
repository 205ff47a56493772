// Package gifenc builds looping animated GIFs from RGBA frame sequences.
//
// The expensive work (palette quantization, dithering, LZW compression) runs
// on an isolated executor goroutine that speaks a bounded request/response
// protocol: frames are submitted one at a time, a finalize request triggers
// compression, and the executor answers with progress, done, or error
// events. The caller never shares mutable state with the executor.
package gifenc
