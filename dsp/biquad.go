// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// Biquad is a direct form I second order IIR filter section.
// Coefficients are normalized so a0 is 1.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewLowPass returns a biquad configured as a lowpass filter with the
// given cutoff frequency, sample rate and quality factor. The design
// follows the RBJ audio EQ cookbook.
func NewLowPass(cutoff, rate, q float64) *Biquad {
	f := &Biquad{}
	f.SetLowPass(cutoff, rate, q)
	return f
}

// SetLowPass recomputes the coefficients for a lowpass response. The
// filter state is left alone so the cutoff can be swept while running.
func (f *Biquad) SetLowPass(cutoff, rate, q float64) {
	omega := 2 * math.Pi * cutoff / rate
	sn, cs := math.Sincos(omega)
	alpha := sn / (2 * q)

	a0 := 1 + alpha
	f.b0 = (1 - cs) / 2 / a0
	f.b1 = (1 - cs) / a0
	f.b2 = f.b0
	f.a1 = -2 * cs / a0
	f.a2 = (1 - alpha) / a0
}

// Reset clears the filter state.
func (f *Biquad) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}

// Process filters buf in place.
func (f *Biquad) Process(buf []float32) {
	for i, v := range buf {
		x := float64(v)
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		buf[i] = float32(y)
	}
}
