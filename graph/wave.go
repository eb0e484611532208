// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"sync/atomic"

	"github.com/ik5/sndgraph/dsp"
)

// Generator produces interleaved samples for a parametric source. The
// offset is measured in frames since the start of the signal so phase
// stays exact over long runs. last is the previous sample, needed by
// shapes that integrate. Generate returns the number of frames
// produced, which is less than frames only when a finite duration is
// exhausted.
type Generator interface {
	Channels() int
	Rate() int
	Generate(buf []float32, frames int, offset uint64, last float32) int
}

// WaveNode plays a Generator as a graph node. It owns the read
// position and an optional countdown; once the countdown hits zero,
// or the generator underfills a request, the node is completed and
// further reads return 0.
type WaveNode struct {
	Base
	gen Generator

	offset  atomic.Uint64
	marked  atomic.Uint64
	timeout atomic.Int64

	// Last generated sample, for shapes that integrate. Touched only
	// by Read, which runs on the render callback alone.
	last float32
}

// NewWaveNode wraps gen in a playable node. The node takes its
// channel count and rate from the generator.
func NewWaveNode(gen Generator) *WaveNode {
	n := &WaveNode{
		Base: NewBase(gen.Channels(), gen.Rate()),
		gen:  gen,
	}
	n.timeout.Store(-1)
	return n
}

func (n *WaveNode) Read(buf []float32, frames int) int {
	if n.Paused() {
		zero(buf[:frames*n.channels])
		return frames
	}
	timeout := n.timeout.Load()
	amt := frames
	if timeout >= 0 && int64(amt) > timeout {
		amt = int(timeout)
	}

	n.setPolling(true)
	offset := n.offset.Load()
	read := n.gen.Generate(buf, amt, offset, n.last)
	dsp.Scale(buf[:read*n.channels], n.Gain())
	if read > 0 {
		n.last = buf[(read-1)*n.channels]
	}
	n.offset.Store(offset + uint64(read))
	if timeout > 0 {
		n.timeout.Store(timeout - int64(amt))
	} else if read < amt {
		n.timeout.Store(0)
	}
	n.setPolling(false)
	return read
}

func (n *WaveNode) Completed() bool {
	return n.timeout.Load() == 0
}

func (n *WaveNode) Mark() bool {
	n.marked.Store(n.offset.Load())
	return true
}

func (n *WaveNode) Unmark() bool {
	n.marked.Store(0)
	return true
}

// Reset restores the marked read position and disarms any countdown.
func (n *WaveNode) Reset() bool {
	n.offset.Store(n.marked.Load())
	n.timeout.Store(-1)
	return true
}

func (n *WaveNode) Advance(frames int) int64 {
	return n.SetPosition(int64(n.offset.Load()) + int64(frames))
}

func (n *WaveNode) Position() int64 {
	return int64(n.offset.Load())
}

func (n *WaveNode) SetPosition(position int64) int64 {
	if position < 0 {
		position = 0
	}
	n.offset.Store(uint64(position))
	return position
}

func (n *WaveNode) Elapsed() float64 {
	return float64(n.offset.Load()) / float64(n.rate)
}

func (n *WaveNode) SetElapsed(seconds float64) float64 {
	if seconds <= 0 {
		n.offset.Store(0)
		return 0
	}
	n.offset.Store(uint64(seconds * float64(n.rate)))
	return seconds
}

func (n *WaveNode) Remaining() float64 {
	timeout := n.timeout.Load()
	if timeout < 0 {
		return -1
	}
	return float64(timeout) / float64(n.rate)
}

// SetRemaining arms a countdown: the node completes after the given
// number of seconds of further reading.
func (n *WaveNode) SetRemaining(seconds float64) float64 {
	timeout := int64(seconds * float64(n.rate))
	if timeout < 0 {
		timeout = 0
	}
	n.timeout.Store(timeout)
	return float64(timeout) / float64(n.rate)
}

func zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
