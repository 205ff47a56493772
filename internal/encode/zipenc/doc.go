// Package zipenc packs a frame sequence into a single ZIP archive of
// losslessly compressed PNG stills.
package zipenc
