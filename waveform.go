// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ik5/sndgraph/graph"
)

// Shape selects the waveform a generator produces. The naive shapes
// are direct closed forms and alias audibly at high frequencies; the
// band-limited shapes apply a PolyBLEP correction at each
// discontinuity, and the impulse train a closed-form Dirichlet kernel
// sum. These are good enough for procedural game audio, not for
// music synthesis.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeNoise is white noise. The frequency acts as the generator
	// seed instead of a tone.
	ShapeNoise
	ShapeSine
	ShapeNaiveTriangle
	ShapeNaiveSquare
	ShapeNaiveSawtooth
	// ShapeNaiveTrain is a naive bipolar impulse train.
	ShapeNaiveTrain
	ShapePolyTriangle
	ShapePolySquare
	ShapePolySawtooth
	// ShapeBlitTrain is a band-limited impulse train.
	ShapeBlitTrain
)

// ParseShape maps a config shape name to its Shape. The band-limited
// shapes take the plain names; the naive shapes are prefixed.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "noise":
		return ShapeNoise, nil
	case "sine":
		return ShapeSine, nil
	case "naive triangle":
		return ShapeNaiveTriangle, nil
	case "naive square":
		return ShapeNaiveSquare, nil
	case "naive sawtooth":
		return ShapeNaiveSawtooth, nil
	case "naive impulse":
		return ShapeNaiveTrain, nil
	case "triangle":
		return ShapePolyTriangle, nil
	case "square":
		return ShapePolySquare, nil
	case "sawtooth":
		return ShapePolySawtooth, nil
	case "impulse":
		return ShapeBlitTrain, nil
	}
	return ShapeUnknown, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// DefaultFrequency is the fundamental of a waveform constructed
// without an explicit tone.
const DefaultFrequency = 480.0

// Waveform is a parametric audio asset: a single-frequency wave
// described by its shape, fundamental frequency, duration and an
// optional rectification to the non-negative range. The frequency
// and duration may be changed while nodes play the waveform; each
// field is an independent atomic with no joint-consistency guarantee.
//
// Waveform implements graph.Generator.
type Waveform struct {
	Sound

	shape     atomic.Int32
	upper     atomic.Bool
	newfreq   atomic.Bool
	frequency atomic.Uint32 // float32 bit pattern
	duration  atomic.Uint64 // float64 bit pattern

	// Noise generator. Only Generate touches it, and Generate runs on
	// the render callback alone.
	random *rand.Rand
}

// NewWaveform builds a waveform asset. For ShapeNoise the frequency
// seeds the generator rather than setting a tone; a negative value
// asks for a time-based seed. The waveform starts with an infinite
// duration.
func NewWaveform(channels, rate int, shape Shape, frequency float32) (*Waveform, error) {
	if shape == ShapeUnknown {
		return nil, ErrUnknownShape
	}
	snd, err := newSound(channels, rate, "")
	if err != nil {
		return nil, err
	}
	w := &Waveform{
		Sound:  snd,
		random: rand.New(rand.NewSource(1)),
	}
	w.shape.Store(int32(shape))
	w.SetFrequency(frequency)
	w.SetDuration(-1)
	return w, nil
}

// Shape returns the waveform shape.
func (w *Waveform) Shape() Shape {
	return Shape(w.shape.Load())
}

func (w *Waveform) SetShape(shape Shape) {
	w.shape.Store(int32(shape))
}

// Upper reports whether the waveform is rectified to non-negative
// samples. For sine this is the absolute value; for triangle, square
// and sawtooth the same shape shifted to [0,1]; for the impulse
// trains a train with only positive poles. Noise is unaffected.
func (w *Waveform) Upper() bool {
	return w.upper.Load()
}

func (w *Waveform) SetUpper(upper bool) {
	w.upper.Store(upper)
}

// Frequency returns the fundamental frequency in Hz.
func (w *Waveform) Frequency() float32 {
	return math.Float32frombits(w.frequency.Load())
}

// SetFrequency sets the fundamental frequency. For noise it requests
// a reseed on the next generation.
func (w *Waveform) SetFrequency(frequency float32) {
	w.frequency.Store(math.Float32bits(frequency))
	w.newfreq.Store(true)
}

// Duration returns the length in seconds, negative when infinite.
func (w *Waveform) Duration() float64 {
	return math.Float64frombits(w.duration.Load())
}

func (w *Waveform) SetDuration(seconds float64) {
	w.duration.Store(math.Float64bits(seconds))
}

// Length returns the duration in frames, or -1 when infinite.
func (w *Waveform) Length() int64 {
	d := w.Duration()
	if d < 0 {
		return -1
	}
	return int64(d * float64(w.Rate()))
}

// polyBlep is the polynomial band-limited step correction of Valimaki
// and Huovilainen (2007), applied around each waveform discontinuity.
// t is the phase in [0,1) and dt the phase increment per frame.
func polyBlep(t, dt float64) float64 {
	t = math.Mod(t, 1)
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// Generate fills buf with up to frames frames starting at the given
// phase offset, replicating one scalar per frame across all channels.
// last is the previous generated sample, consumed by the integrating
// triangle. The run is truncated to the configured duration; the
// return value is the frame count actually produced.
//
// RENDER CALLBACK ONLY: the noise generator is unsynchronized.
func (w *Waveform) Generate(buf []float32, frames int, offset uint64, last float32) int {
	rate := float64(w.Rate())
	freq := w.Frequency()
	ratio := float64(freq) / rate
	shape := w.Shape()
	upper := w.Upper()
	channels := w.Channels()

	const twoPi = 2 * math.Pi
	stepsz := ratio * twoPi

	if w.newfreq.Swap(false) && shape == ShapeNoise {
		if freq < 0 {
			w.random.Seed(time.Now().UnixNano())
		} else {
			seed := math.Min(float64(freq), 1) * float64(math.MaxUint32)
			w.random.Seed(int64(seed))
		}
	}

	// Largest odd harmonic count below Nyquist, for the BLIT kernel.
	mval := 2*math.Floor(0.5/ratio) + 1

	amt := frames
	if d := w.Duration(); d >= 0 {
		timeout := int64(d * rate)
		left := timeout - int64(offset)
		if left < 0 {
			left = 0
		}
		if int64(amt) > left {
			amt = int(left)
		}
	}

	pos := offset
	out := buf
	emit := func(v float32) {
		for i := 0; i < channels; i++ {
			out[i] = v
		}
		out = out[channels:]
	}

	switch shape {
	case ShapeNoise:
		for n := 0; n < amt; n++ {
			emit(float32(2*w.random.Float64() - 1))
		}
	case ShapeSine:
		for n := 0; n < amt; n++ {
			last = float32(math.Sin(stepsz * float64(pos)))
			if upper {
				last = float32(math.Abs(float64(last)))
			}
			pos++
			emit(last)
		}
	case ShapeNaiveTriangle:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			value := 1 - 2*t
			if upper {
				last = float32(math.Abs(value))
			} else {
				last = float32(2*math.Abs(value) - 1)
			}
			emit(last)
		}
	case ShapeNaiveSquare:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			switch {
			case t <= 0.5:
				last = 1
			case upper:
				last = 0
			default:
				last = -1
			}
			emit(last)
		}
	case ShapeNaiveSawtooth:
		for n := 0; n < amt; n++ {
			value := math.Mod(stepsz*float64(pos), twoPi)
			pos++
			value = 1 - 2*value/twoPi
			if upper {
				last = float32(0.5 * (value + 1))
			} else {
				last = float32(value)
			}
			emit(last)
		}
	case ShapeNaiveTrain:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			switch {
			case math.Abs(t-0.25) < ratio:
				last = 1
			case math.Abs(t-0.75) < ratio:
				if upper {
					last = 1
				} else {
					last = -1
				}
			default:
				last = 0
			}
			emit(last)
		}
	case ShapePolyTriangle:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			value := 2*t - 1
			value = 2 * (math.Abs(value) - 0.5)
			value += polyBlep(t, ratio)
			value -= polyBlep(math.Mod(t+0.5, 1), ratio)
			// Leaky integrator: y[n] = A*x[n] + (1-A)*y[n-1].
			value = stepsz*value + (1-stepsz)*float64(last)
			if upper {
				last = float32(0.5 * (value + 1))
			} else {
				last = float32(value)
			}
			emit(last)
		}
	case ShapePolySquare:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			value := -1.0
			if t <= 0.5 {
				value = 1.0
			}
			value += polyBlep(t, ratio)
			value -= polyBlep(math.Mod(t+0.5, 1), ratio)
			if upper {
				last = float32(0.5 * (value + 1))
			} else {
				last = float32(value)
			}
			emit(last)
		}
	case ShapePolySawtooth:
		for n := 0; n < amt; n++ {
			t := math.Mod(ratio*float64(pos), 1)
			pos++
			value := 2*t - 1
			value -= polyBlep(t, ratio)
			if upper {
				last = float32(0.5 * (value + 1))
			} else {
				last = float32(value)
			}
			emit(last)
		}
	case ShapeBlitTrain:
		for n := 0; n < amt; n++ {
			var time1 float64
			if upper {
				time1 = math.Mod(stepsz*float64(pos), math.Pi)
			} else {
				time1 = math.Mod(stepsz*float64(pos), twoPi) / 2
			}
			time2 := math.Mod(stepsz*float64(pos)+math.Pi, twoPi) / 2
			pos++

			value1 := dirichlet(time1, mval)
			value2 := dirichlet(time2, mval)
			if upper {
				last = float32(value1)
			} else {
				last = float32(value1 - value2)
			}
			emit(last)
		}
	}
	return amt
}

// epsilon is the double-precision machine epsilon.
const epsilon = 2.220446049250313e-16

// dirichlet evaluates sin(m*t)/(m*sin(t)), substituting the limiting
// value 1 when the denominator vanishes.
func dirichlet(t, m float64) float64 {
	denom := math.Sin(t)
	if math.Abs(denom) <= epsilon {
		return 1
	}
	return math.Sin(m*t) / (m * denom)
}

// CreateNode manufactures a playable node for this waveform, with its
// gain preset to the asset volume. Each call returns a distinct node.
func (w *Waveform) CreateNode() *graph.WaveNode {
	n := graph.NewWaveNode(w)
	n.SetGain(w.Volume())
	return n
}
