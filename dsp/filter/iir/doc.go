// Package iir implements single-pole recursive smoothing filters as test
// bench blocks.
//
// Two forms are provided:
//
//   - [Exponential]: the classic exponential moving average with a cutoff
//     frequency fc, decay = exp(-2*pi*fc*dt) and gain = 1 - decay.
//   - [PowerOfTwo]: the integer-friendly form acc += (x - acc) / 2^k, which
//     divides exactly for float streams and truncates toward zero for
//     integer streams, as fixed-point hardware does.
//
// [MultiPole] cascades three power-of-two stages sharing one exponent and
// selects how many of them reach the output.
//
// Each form exists as a pure function operating on slices and as a block
// that recomputes whenever its input stream or its coefficient parameter
// changes.
package iir
