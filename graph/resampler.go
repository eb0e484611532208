// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"github.com/ik5/sndgraph/dsp"
	"github.com/ik5/sndgraph/utils"
)

// Resampler converts an upstream node to a different sample rate
// using Catmull-Rom cubic interpolation over a sliding four frame
// window. The channel count is preserved. A one-pole low-pass is
// applied while downsampling to tame aliasing.
type Resampler struct {
	Base
	input Node
	ratio float64 // source frames per output frame

	// Sliding window: window[0] = t-1, window[1] = t0,
	// window[2] = t+1, window[3] = t+2.
	window    [4][]float32
	hasFrame  [4]bool
	primed    bool
	exhausted bool

	pos    float64
	srcBuf []float32

	useFilter   bool
	filterAlpha float32
	filterState []float32
}

// NewResampler wraps input, producing frames at rate Hz. The input
// rate mismatch that blocks a direct spinner attachment is the usual
// reason to interpose one of these.
func NewResampler(input Node, rate int) *Resampler {
	channels := input.Channels()
	ratio := float64(input.Rate()) / float64(rate)

	r := &Resampler{
		Base:        NewBase(channels, rate),
		input:       input,
		ratio:       ratio,
		srcBuf:      make([]float32, channels),
		useFilter:   ratio > 1,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

// fetch shifts the window and pulls one more frame from the input.
// After the input runs out the window keeps shifting, repeating the
// last real frame, until the interpolation span drains; fetch then
// reports false and the node is done.
func (r *Resampler) fetch() bool {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]

	if !r.exhausted {
		n := r.input.Read(r.srcBuf, 1)
		if n > 0 {
			copy(r.window[3], r.srcBuf)
			r.hasFrame[3] = true
			if r.useFilter {
				for c := 0; c < r.channels; c++ {
					r.window[3][c] = r.filterAlpha*r.window[3][c] + (1-r.filterAlpha)*r.filterState[c]
					r.filterState[c] = r.window[3][c]
				}
			}
			return true
		}
		r.exhausted = true
	}
	copy(r.window[3], r.window[2])
	r.hasFrame[3] = false
	return r.hasFrame[1]
}

// prime fills the initial window. Short inputs repeat their last
// frame into the remaining slots.
func (r *Resampler) prime() bool {
	for i := 0; i < 4; i++ {
		n := r.input.Read(r.srcBuf, 1)
		if n == 0 {
			r.exhausted = true
			if i == 0 {
				return false
			}
			for j := i; j < 4; j++ {
				copy(r.window[j], r.window[i-1])
				r.hasFrame[j] = true
			}
			break
		}
		copy(r.window[i], r.srcBuf)
		r.hasFrame[i] = true
		if i == 0 && r.useFilter {
			copy(r.filterState, r.srcBuf)
		}
	}
	r.primed = true
	return true
}

func (r *Resampler) Read(buf []float32, frames int) int {
	if r.Paused() {
		zero(buf[:frames*r.channels])
		return frames
	}
	r.setPolling(true)
	defer r.setPolling(false)

	if !r.primed && !r.prime() {
		return 0
	}

	written := 0
	for written < frames {
		starved := false
		for r.pos >= 1 {
			r.pos--
			if !r.fetch() {
				starved = true
				break
			}
		}
		if starved || !r.hasFrame[1] {
			break
		}

		x := float32(r.pos)
		out := buf[written*r.channels:]
		for c := 0; c < r.channels; c++ {
			out[c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c],
				r.window[2][c], r.window[3][c], x)
		}
		written++
		r.pos += r.ratio
	}

	dsp.Scale(buf[:written*r.channels], r.Gain())
	return written
}

func (r *Resampler) Completed() bool {
	return r.exhausted && !r.hasFrame[1]
}

// Timing queries delegate to the input; positions are reported in the
// input's frame space.

func (r *Resampler) Mark() bool   { return r.input.Mark() }
func (r *Resampler) Unmark() bool { return r.input.Unmark() }

func (r *Resampler) Reset() bool {
	if !r.input.Reset() {
		return false
	}
	r.primed = false
	r.exhausted = false
	r.pos = 0
	for i := range r.hasFrame {
		r.hasFrame[i] = false
	}
	for i := range r.filterState {
		r.filterState[i] = 0
	}
	return true
}

func (r *Resampler) Position() int64                { return r.input.Position() }
func (r *Resampler) Elapsed() float64               { return r.input.Elapsed() }
func (r *Resampler) Remaining() float64             { return r.input.Remaining() }
func (r *Resampler) SetRemaining(s float64) float64 { return r.input.SetRemaining(s) }
