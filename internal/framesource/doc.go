// Package framesource provides the frame renderers the CLI wires into the
// export pipeline: an on-disk image sequence and a synthetic demo animation.
package framesource
