// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"testing"
)

// stubGen generates the frame index on every channel, optionally
// stopping after limit frames.
type stubGen struct {
	channels int
	rate     int
	limit    int64 // negative = infinite
}

func (g *stubGen) Channels() int { return g.channels }
func (g *stubGen) Rate() int     { return g.rate }

func (g *stubGen) Generate(buf []float32, frames int, offset uint64, last float32) int {
	amt := frames
	if g.limit >= 0 {
		left := g.limit - int64(offset)
		if left < 0 {
			left = 0
		}
		if int64(amt) > left {
			amt = int(left)
		}
	}
	for n := 0; n < amt; n++ {
		for c := 0; c < g.channels; c++ {
			buf[n*g.channels+c] = float32(offset + uint64(n))
		}
	}
	return amt
}

func TestWaveNodeReadAdvances(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 2, rate: 48000, limit: -1})
	buf := make([]float32, 8*2)

	if got := n.Read(buf, 8); got != 8 {
		t.Fatalf("Read() = %d, want 8", got)
	}
	for f := 0; f < 8; f++ {
		if buf[2*f] != float32(f) || buf[2*f+1] != float32(f) {
			t.Fatalf("frame %d = (%v,%v), want (%d,%d)", f, buf[2*f], buf[2*f+1], f, f)
		}
	}
	if got := n.Position(); got != 8 {
		t.Errorf("Position() = %d, want 8", got)
	}

	// The next read continues where the last one ended.
	n.Read(buf, 4)
	if buf[0] != 8 {
		t.Errorf("continued read starts at %v, want 8", buf[0])
	}
}

func TestWaveNodeGain(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 48000, limit: -1})
	n.SetGain(0.5)
	buf := make([]float32, 4)
	n.Read(buf, 4)
	if buf[2] != 1.0 { // frame 2 scaled by 0.5
		t.Errorf("scaled sample = %v, want 1.0", buf[2])
	}
}

func TestWaveNodePaused(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 48000, limit: -1})
	n.Read(make([]float32, 4), 4)

	if !n.Pause() {
		t.Error("Pause() = false on a running node")
	}
	buf := []float32{9, 9, 9, 9}
	if got := n.Read(buf, 4); got != 4 {
		t.Fatalf("paused Read() = %d, want 4", got)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("paused sample %d = %v, want silence", i, v)
		}
	}
	if got := n.Position(); got != 4 {
		t.Errorf("paused read moved position to %d, want 4", got)
	}

	if !n.Resume() {
		t.Error("Resume() = false on a paused node")
	}
}

func TestWaveNodeCountdown(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 100, limit: -1})

	// Half a second at 100 Hz is 50 frames.
	n.SetRemaining(0.5)
	if got := n.Remaining(); got != 0.5 {
		t.Fatalf("Remaining() = %v, want 0.5", got)
	}

	buf := make([]float32, 64)
	if got := n.Read(buf, 64); got != 50 {
		t.Fatalf("armed Read() = %d, want 50", got)
	}
	if !n.Completed() {
		t.Error("Completed() = false after countdown expired")
	}

	// Reset disarms the countdown.
	n.Reset()
	if n.Completed() {
		t.Error("Completed() = true after Reset()")
	}
	if got := n.Remaining(); got != -1 {
		t.Errorf("Remaining() after Reset() = %v, want -1", got)
	}
}

func TestWaveNodeFiniteGenerator(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 100, limit: 30})
	buf := make([]float32, 64)

	if got := n.Read(buf, 64); got != 30 {
		t.Fatalf("Read() = %d, want 30", got)
	}
	// Underfilling a request arms a zero countdown.
	if !n.Completed() {
		t.Error("Completed() = false after generator ran dry")
	}
	if got := n.Read(buf, 64); got != 0 {
		t.Errorf("Read() after completion = %d, want 0", got)
	}
}

func TestWaveNodeMarkReset(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 48000, limit: -1})
	buf := make([]float32, 16)

	n.Read(buf, 16)
	if !n.Mark() {
		t.Fatal("Mark() = false")
	}
	n.Read(buf, 16)
	if got := n.Position(); got != 32 {
		t.Fatalf("Position() = %d, want 32", got)
	}

	if !n.Reset() {
		t.Fatal("Reset() = false")
	}
	if got := n.Position(); got != 16 {
		t.Errorf("Position() after Reset() = %d, want 16", got)
	}

	n.Unmark()
	n.Reset()
	if got := n.Position(); got != 0 {
		t.Errorf("Position() after Unmark()+Reset() = %d, want 0", got)
	}
}

func TestWaveNodeElapsed(t *testing.T) {
	t.Parallel()

	n := NewWaveNode(&stubGen{channels: 1, rate: 200, limit: -1})
	n.Read(make([]float32, 100), 100)
	if got := n.Elapsed(); got != 0.5 {
		t.Errorf("Elapsed() = %v, want 0.5", got)
	}

	if got := n.SetElapsed(2); got != 2 {
		t.Errorf("SetElapsed(2) = %v, want 2", got)
	}
	if got := n.Position(); got != 400 {
		t.Errorf("Position() = %d, want 400", got)
	}
	if got := n.SetElapsed(-1); got != 0 {
		t.Errorf("SetElapsed(-1) = %v, want 0", got)
	}
}

func TestWaveNodeIntegratorState(t *testing.T) {
	t.Parallel()

	// The node must hand the previous sample back to the generator.
	g := &captureGen{channels: 1, rate: 100}
	n := NewWaveNode(g)
	buf := make([]float32, 4)
	n.Read(buf, 4)
	if g.gotLast != 0 {
		t.Errorf("first read last = %v, want 0", g.gotLast)
	}
	n.Read(buf, 4)
	if g.gotLast != 7 {
		t.Errorf("second read last = %v, want 7", g.gotLast)
	}
}

// captureGen records the continuation sample it was handed and always
// ends its output at 7.
type captureGen struct {
	channels, rate int
	gotLast        float32
}

func (g *captureGen) Channels() int { return g.channels }
func (g *captureGen) Rate() int     { return g.rate }

func (g *captureGen) Generate(buf []float32, frames int, offset uint64, last float32) int {
	g.gotLast = last
	for n := 0; n < frames*g.channels; n++ {
		buf[n] = 7
	}
	return frames
}

func TestBaseSentinels(t *testing.T) {
	t.Parallel()

	b := NewBase(2, 48000)
	if b.Mark() || b.Unmark() || b.Reset() {
		t.Error("Base mark operations must be unsupported")
	}
	if b.Advance(10) != -1 || b.Position() != -1 || b.SetPosition(5) != -1 {
		t.Error("Base position operations must return -1")
	}
	if b.Elapsed() != -1 || b.Remaining() != -1 {
		t.Error("Base time queries must return -1")
	}
	if g := b.Gain(); g != 1 {
		t.Errorf("default Gain() = %v, want 1", g)
	}
	if math.IsNaN(float64(b.Gain())) {
		t.Error("Gain() must not be NaN")
	}
}
