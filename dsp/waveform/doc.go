// Package waveform synthesizes test signals into streams.
//
// Periodic shapes (sine, square, triangle, random) are driven by a
// frequency, pulse shapes (rectangle, step, sinc) by a width. The unit
// series is scaled into the stream's sample kind: float streams use
// amplitude*series+offset, integer streams quantize the series to fixed
// point, multiply by the integer amplitude and shift back.
package waveform
