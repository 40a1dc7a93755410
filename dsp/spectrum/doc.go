// Package spectrum computes single-sided spectra of real sample frames.
//
// Frames are windowed, zero-padded to a power of two and transformed with
// algo-fft. Bin powers are unpacked with algo-vecmath.
package spectrum
