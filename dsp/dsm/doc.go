// Package dsm implements delta-sigma modulators as test bench blocks.
//
// Four topologies are available, each as an independent pure function:
//
//   - [FirstOrder]: one integrator feeding a +/-1 quantizer.
//   - [SecondOrder]: two cascaded integrators feeding one quantizer, both
//     driven by the quantizer's delayed output.
//   - [Mash11]: a first-order signal modulator cascaded with a first-order
//     noise modulator on its quantization error e[n] = y1[n-1] - u1[n]. The
//     output is y1 - Δ(y2).
//   - [Mash21]: a second-order signal modulator with the same error tap on
//     its first integrator and a first-order noise modulator. The output is
//     y1 - Δ²(y2).
//
// Every topology takes an integrator gain. A gain of 1 gives the textbook
// unscaled modulator; 0.5 halves the integrator input, which keeps the
// internal states of the second-order loop in a smaller range.
//
// The [Modulator] block selects a topology through an explicit [Config]
// and publishes the intermediate signals as test points.
package dsm
