// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"sync/atomic"
)

// Defaults used by nodes constructed without explicit settings.
const (
	DefaultChannels = 2
	DefaultRate     = 48000

	// DefaultReadSize is the largest frame count a render callback is
	// expected to request in one pull. Nodes that stage data size
	// their scratch buffers to it.
	DefaultReadSize = 4096
)

// Node is the pull contract shared by every playable element of the
// graph. A consumer requests frames on demand; producers never push.
//
// Read is the only method restricted to the render callback. All other
// methods may be called from the control side at any time; shared
// state is held in independent atomics with no cross-field ordering
// guarantee, so a reader may observe one new parameter before another
// set in the same control action.
//
// Optional operations report lack of support with a sentinel: -1 for
// the numeric queries, false for mark/unmark/reset.
type Node interface {
	// Read fills buf with up to frames frames of interleaved samples
	// and returns the number of frames produced. A return of 0 means
	// the node has no more data. buf must hold frames*Channels()
	// values.
	Read(buf []float32, frames int) int

	// Channels reports the channel count, fixed at construction.
	Channels() int
	// Rate reports the sample rate in Hz, fixed at construction.
	Rate() int

	Gain() float32
	SetGain(gain float32)

	Paused() bool
	Pause() bool
	Resume() bool

	// Completed reports whether subsequent reads will return 0.
	Completed() bool

	Mark() bool
	Unmark() bool
	Reset() bool

	// Advance moves the read position forward without producing data.
	// Returns the new position, or -1 if unsupported.
	Advance(frames int) int64

	Position() int64
	SetPosition(position int64) int64

	// Elapsed reports the read position in seconds.
	Elapsed() float64
	SetElapsed(seconds float64) float64

	Remaining() float64
	SetRemaining(seconds float64) float64
}

// Base carries the runtime state every node shares: fixed channel
// count and rate, plus the gain and pause flags read concurrently by
// the render callback. Concrete nodes embed it and override the
// operations they support; the Base defaults are the unsupported
// sentinels.
type Base struct {
	channels int
	rate     int

	gain    atomic.Uint32 // float32 bit pattern
	paused  atomic.Bool
	polling atomic.Bool
}

// NewBase returns the shared node state for the given shape. Gain
// starts at 1.
func NewBase(channels, rate int) Base {
	b := Base{channels: channels, rate: rate}
	b.gain.Store(math.Float32bits(1))
	return b
}

func (b *Base) Channels() int { return b.channels }
func (b *Base) Rate() int     { return b.rate }

func (b *Base) Gain() float32 {
	return math.Float32frombits(b.gain.Load())
}

func (b *Base) SetGain(gain float32) {
	b.gain.Store(math.Float32bits(gain))
}

func (b *Base) Paused() bool {
	return b.paused.Load()
}

// Pause stops the node from producing data. Reads on a paused node
// emit silence without advancing. Returns true if the node was not
// already paused.
func (b *Base) Pause() bool {
	return !b.paused.Swap(true)
}

// Resume undoes Pause. Returns true if the node was paused.
func (b *Base) Resume() bool {
	return b.paused.Swap(false)
}

// Polling reports whether a read is currently in flight. It exists so
// a disposer can detect a render callback racing with teardown; it
// does not prevent the race. Callers must stop pulling a node before
// releasing it.
func (b *Base) Polling() bool {
	return b.polling.Load()
}

func (b *Base) setPolling(v bool) { b.polling.Store(v) }

// Default sentinels for the optional operations.

func (b *Base) Completed() bool { return false }

func (b *Base) Mark() bool   { return false }
func (b *Base) Unmark() bool { return false }
func (b *Base) Reset() bool  { return false }

func (b *Base) Advance(frames int) int64             { return -1 }
func (b *Base) Position() int64                      { return -1 }
func (b *Base) SetPosition(position int64) int64     { return -1 }
func (b *Base) Elapsed() float64                     { return -1 }
func (b *Base) SetElapsed(seconds float64) float64   { return -1 }
func (b *Base) Remaining() float64                   { return -1 }
func (b *Base) SetRemaining(seconds float64) float64 { return -1 }
