// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"sync/atomic"

	"github.com/ik5/sndgraph/dsp"
)

// Plan is a predefined channel layout for a sound field. It assigns
// an orientation angle, measured counterclockwise from the listener's
// forward direction, to every channel. The woofer slot of the 5.1 and
// 7.1 layouts carries no orientation and is excluded from panning.
type Plan int

const (
	Monaural Plan = iota
	FrontStereo
	SideStereo
	FrontCenter
	SideCenter
	FrontQuads
	CornerQuads
	Back5_1
	Side5_1
	Corner5_1
	Back7_1
	Corner7_1
	Custom
)

// wooferAngle marks a channel that takes no part in panning.
const wooferAngle = -1

// DefaultCrossover is the subwoofer crossover frequency in Hz for a
// freshly constructed spinner.
const DefaultCrossover = 100.0

// DefaultPlan returns the layout plan assumed for the given channel
// count.
func DefaultPlan(channels int) Plan {
	switch channels {
	case 1:
		return Monaural
	case 2:
		return SideStereo
	case 3:
		return SideCenter
	case 4:
		return CornerQuads
	case 5, 6:
		return Side5_1
	case 7, 8:
		return Corner7_1
	}
	return Custom
}

// ValidPlan reports whether the plan fits the given channel count.
// Custom fits any count.
func ValidPlan(plan Plan, channels int) bool {
	switch plan {
	case Monaural:
		return channels == 1
	case FrontStereo, SideStereo:
		return channels == 2
	case FrontCenter, SideCenter:
		return channels == 3
	case FrontQuads, CornerQuads:
		return channels == 4
	case Back5_1, Side5_1, Corner5_1:
		return channels == 6
	case Back7_1, Corner7_1:
		return channels == 8
	}
	return true
}

// planAngles returns the orientation table for a plan, or nil for
// Custom, which leaves the current orientations alone.
func planAngles(plan Plan) []float32 {
	switch plan {
	case Monaural:
		return []float32{0}
	case FrontStereo:
		return []float32{math.Pi / 6, 11 * math.Pi / 6}
	case SideStereo:
		return []float32{math.Pi / 2, 3 * math.Pi / 2}
	case FrontCenter:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0}
	case SideCenter:
		return []float32{math.Pi / 2, 3 * math.Pi / 2, 0}
	case FrontQuads:
		return []float32{math.Pi / 6, 11 * math.Pi / 6, 5 * math.Pi / 6, 7 * math.Pi / 6}
	case CornerQuads:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 3 * math.Pi / 4, 5 * math.Pi / 4}
	case Back5_1:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0, wooferAngle, 5 * math.Pi / 6, 7 * math.Pi / 6}
	case Side5_1:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0, wooferAngle, math.Pi / 2, 3 * math.Pi / 2}
	case Corner5_1:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0, wooferAngle, 3 * math.Pi / 4, 5 * math.Pi / 4}
	case Back7_1:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0, wooferAngle, 5 * math.Pi / 6, 7 * math.Pi / 6, math.Pi / 2, 3 * math.Pi / 2}
	case Corner7_1:
		return []float32{math.Pi / 4, 7 * math.Pi / 4, 0, wooferAngle, 3 * math.Pi / 4, 5 * math.Pi / 4, math.Pi / 2, 3 * math.Pi / 2}
	}
	return nil
}

// modAngle returns the normal form [0,2pi) of an angle, even when the
// angle is negative.
func modAngle(angle float32) float32 {
	a := float64(angle)
	return float32(a - 2*math.Pi*math.Floor(a/(2*math.Pi)))
}

// Spinner rotates a sound field onto an output channel layout. It
// consumes exactly one upstream node whose channel count must equal
// the spinner's field size. Each input channel is cross-faded between
// the two output channels whose orientations bracket its rotated
// angle. When the output layout has more than four channels and a
// crossover frequency is set, a low-passed sum of the field is added
// into the subwoofer slot.
//
// Every mutable parameter is an independent atomic shared with the
// render callback; there is no joint consistency across parameters
// within one read.
type Spinner struct {
	Base
	field int

	inplan  Plan
	outplan Plan

	inlines  []atomic.Uint32 // float32 bit patterns
	outlines []atomic.Uint32

	angle      atomic.Uint32
	crossover  atomic.Uint32
	dirtycross atomic.Bool

	input atomic.Pointer[Node]

	buffer []float32 // staged field frames
	woofer []float32 // mono crossover feed
	filter *dsp.Biquad
}

// NewSpinner returns a spinner remixing a field-channel input onto
// channels outputs at the given rate. Input and output each get the
// default layout plan for their size.
func NewSpinner(channels, field, rate int) *Spinner {
	s := &Spinner{
		Base:     NewBase(channels, rate),
		field:    field,
		inplan:   DefaultPlan(field),
		outplan:  DefaultPlan(channels),
		inlines:  make([]atomic.Uint32, field),
		outlines: make([]atomic.Uint32, channels),
		buffer:   make([]float32, DefaultReadSize*field),
		woofer:   make([]float32, DefaultReadSize),
	}
	s.storePlan(s.inplan, s.inlines)
	s.storePlan(s.outplan, s.outlines)
	s.crossover.Store(math.Float32bits(DefaultCrossover))
	s.filter = dsp.NewLowPass(DefaultCrossover, float64(rate), 1)
	return s
}

func (s *Spinner) storePlan(plan Plan, lines []atomic.Uint32) {
	angles := planAngles(plan)
	for i := range angles {
		if i >= len(lines) {
			break
		}
		lines[i].Store(math.Float32bits(angles[i]))
	}
}

// Attach hands the spinner an upstream node. The node must report the
// spinner's field size and sample rate; on mismatch the previous
// attachment is kept and an error returned. Attaching nil detaches.
func (s *Spinner) Attach(node Node) error {
	if node == nil {
		s.Detach()
		return nil
	}
	if node.Channels() != s.field {
		return ErrChannelMismatch
	}
	if node.Rate() != s.rate {
		return ErrRateMismatch
	}
	s.input.Store(&node)
	return nil
}

// Detach removes and returns the current upstream node, or nil.
func (s *Spinner) Detach() Node {
	p := s.input.Swap(nil)
	if p == nil {
		return nil
	}
	return *p
}

// Input returns the attached upstream node, or nil.
func (s *Spinner) Input() Node {
	p := s.input.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Field returns the number of channels expected from the input.
func (s *Spinner) Field() int { return s.field }

// FieldPlan returns the layout plan of the unrotated sound source.
func (s *Spinner) FieldPlan() Plan { return s.inplan }

// SetFieldPlan replaces the input layout. Custom leaves the current
// orientations untouched for manual setup.
func (s *Spinner) SetFieldPlan(plan Plan) {
	s.inplan = plan
	s.storePlan(plan, s.inlines)
}

// ChannelPlan returns the layout plan of the output channels.
func (s *Spinner) ChannelPlan() Plan { return s.outplan }

func (s *Spinner) SetChannelPlan(plan Plan) {
	s.outplan = plan
	s.storePlan(plan, s.outlines)
}

// FieldOrientation returns the angle of an input channel, or -1 when
// the channel is out of range.
func (s *Spinner) FieldOrientation(channel int) float32 {
	if channel < 0 || channel >= s.field {
		return -1
	}
	return math.Float32frombits(s.inlines[channel].Load())
}

// SetFieldOrientation sets the angle of an input channel, normalized
// to [0,2pi). Out of range channels are ignored.
func (s *Spinner) SetFieldOrientation(channel int, angle float32) {
	if channel < 0 || channel >= s.field {
		return
	}
	s.inlines[channel].Store(math.Float32bits(modAngle(angle)))
}

// ChannelOrientation returns the angle of an output channel, or -1
// when the channel is out of range or is the woofer slot.
func (s *Spinner) ChannelOrientation(channel int) float32 {
	if channel < 0 || channel >= s.channels {
		return -1
	}
	return math.Float32frombits(s.outlines[channel].Load())
}

func (s *Spinner) SetChannelOrientation(channel int, angle float32) {
	if channel < 0 || channel >= s.channels {
		return
	}
	s.outlines[channel].Store(math.Float32bits(modAngle(angle)))
}

// Subwoofer returns the crossover frequency in Hz. Field content
// below this frequency is routed to the subwoofer slot.
func (s *Spinner) Subwoofer() float32 {
	return math.Float32frombits(s.crossover.Load())
}

// SetSubwoofer sets the crossover frequency in Hz. Zero disables the
// subwoofer feed. The filter is recomputed lazily on the next read.
func (s *Spinner) SetSubwoofer(frequency float32) {
	s.dirtycross.Store(true)
	s.crossover.Store(math.Float32bits(frequency))
}

// Angle returns the rotation of the sound source.
func (s *Spinner) Angle() float32 {
	return math.Float32frombits(s.angle.Load())
}

// SetAngle rotates the sound source. The angle is normalized to
// [0,2pi); zero restores the unrotated field.
func (s *Spinner) SetAngle(angle float32) {
	s.angle.Store(math.Float32bits(modAngle(angle)))
}

func (s *Spinner) Completed() bool {
	input := s.Input()
	return input == nil || input.Completed()
}

func (s *Spinner) Read(buf []float32, frames int) int {
	input := s.Input()
	if input == nil || s.Paused() {
		zero(buf[:frames*s.channels])
		return frames
	}

	angle := s.Angle()
	if angle == 0 && s.field == s.channels {
		amt := input.Read(buf, frames)
		if amt < frames {
			zero(buf[amt*s.channels : frames*s.channels])
		}
		return frames
	}

	if frames > DefaultReadSize {
		frames = DefaultReadSize
	}
	amt := input.Read(s.buffer, frames)
	if amt < frames {
		zero(s.buffer[amt*s.field : frames*s.field])
	}
	zero(buf[:frames*s.channels])

	if s.channels == 1 {
		for i := 0; i < s.field; i++ {
			for j := 0; j < frames; j++ {
				buf[j] += s.buffer[j*s.field+i]
			}
		}
		return frames
	}

	for i := 0; i < s.field; i++ {
		iangle := modAngle(s.FieldOrientation(i) + angle)
		left, rght := s.bracket(iangle)
		if left < 0 || rght < 0 {
			continue
		}

		langle := math.Float32frombits(s.outlines[left].Load())
		rangle := math.Float32frombits(s.outlines[rght].Load())
		factor := float32(0)
		if spannr := modAngle(langle - rangle); spannr != 0 {
			factor = modAngle(langle-iangle) / spannr
		}

		for j := 0; j < frames; j++ {
			v := s.buffer[j*s.field+i]
			buf[j*s.channels+left] += v * (1 - factor)
			buf[j*s.channels+rght] += v * factor
		}
	}

	cross := s.Subwoofer()
	if s.channels > 4 && cross > 0 {
		if s.dirtycross.Load() {
			s.dirtycross.Store(false)
			cross = s.Subwoofer()
			s.filter.SetLowPass(float64(cross), float64(s.rate), 1)
		}
		for j := 0; j < frames; j++ {
			sum := float32(0)
			for i := 0; i < s.field; i++ {
				sum += s.buffer[j*s.field+i]
			}
			s.woofer[j] = sum
		}
		s.filter.Process(s.woofer[:frames])
		for j := 0; j < frames; j++ {
			buf[j*s.channels+3] += s.woofer[j]
		}
	}
	return frames
}

// bracket finds the two output channels whose orientations sandwich
// the given angle: the nearest orientation at or past it, and the
// nearest strictly before it. Missing neighbors fall back to the
// channels with the minimum and maximum orientation. Woofer slots are
// skipped.
func (s *Spinner) bracket(iangle float32) (left, rght int) {
	const none = -1
	left, rght = none, none
	langle, rangle := float32(3*math.Pi), float32(-1)
	minang, maxang := float32(3*math.Pi), float32(-1)
	minpos, maxpos := none, none

	for j := 0; j < s.channels; j++ {
		oangle := math.Float32frombits(s.outlines[j].Load())
		if oangle < 0 {
			continue
		}
		if oangle >= iangle {
			if oangle < langle {
				langle = oangle
				left = j
			}
		} else if oangle > rangle {
			rangle = oangle
			rght = j
		}
		if oangle < minang {
			minang = oangle
			minpos = j
		}
		if oangle > maxang {
			maxang = oangle
			maxpos = j
		}
	}
	if left == none {
		left = minpos
	}
	if rght == none {
		rght = maxpos
	}
	return left, rght
}

// The remaining operations delegate to the attached input and report
// the unsupported sentinel when detached.

func (s *Spinner) Mark() bool {
	if input := s.Input(); input != nil {
		return input.Mark()
	}
	return false
}

func (s *Spinner) Unmark() bool {
	if input := s.Input(); input != nil {
		return input.Unmark()
	}
	return false
}

func (s *Spinner) Reset() bool {
	if input := s.Input(); input != nil {
		return input.Reset()
	}
	return false
}

func (s *Spinner) Advance(frames int) int64 {
	if input := s.Input(); input != nil {
		return input.Advance(frames)
	}
	return -1
}

func (s *Spinner) Position() int64 {
	if input := s.Input(); input != nil {
		return input.Position()
	}
	return -1
}

func (s *Spinner) SetPosition(position int64) int64 {
	if input := s.Input(); input != nil {
		return input.SetPosition(position)
	}
	return -1
}

func (s *Spinner) Elapsed() float64 {
	if input := s.Input(); input != nil {
		return input.Elapsed()
	}
	return -1
}

func (s *Spinner) SetElapsed(seconds float64) float64 {
	if input := s.Input(); input != nil {
		return input.SetElapsed(seconds)
	}
	return -1
}

func (s *Spinner) Remaining() float64 {
	if input := s.Input(); input != nil {
		return input.Remaining()
	}
	return -1
}

func (s *Spinner) SetRemaining(seconds float64) float64 {
	if input := s.Input(); input != nil {
		return input.SetRemaining(seconds)
	}
	return -1
}
