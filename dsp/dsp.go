// SPDX-License-Identifier: EPL-2.0

// Package dsp holds small signal processing helpers shared by the
// graph nodes.
package dsp

// Scale multiplies buf in place by gain.
func Scale(buf []float32, gain float32) {
	if gain == 1 {
		return
	}
	for i := range buf {
		buf[i] *= gain
	}
}

// Accumulate adds src into dst, scaled by gain. Both slices must be
// the same length.
func Accumulate(dst, src []float32, gain float32) {
	for i, v := range src {
		dst[i] += v * gain
	}
}
