// Package webmenc records a frame sequence into a WebM video.
//
// Unlike the other backends it has a hard real-time constraint: frames are
// drawn onto a single reusable surface and handed to the recorder at fixed
// intervals so the resulting video plays back at the requested rate. The
// production recorder drives an external ffmpeg process, probing its codec
// support once at start (VP9 preferred, VP8 fallback).
package webmenc
