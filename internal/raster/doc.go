// Package raster holds the frame model shared by the export pipeline and the
// capture adapter that rasterizes arbitrary image sources onto fixed-size
// RGBA buffers.
package raster
