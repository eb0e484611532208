// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides mock graph nodes for tests.
package audiotest

import "math"

// MockNode is a finite pull node generating deterministic audio data.
// The waveform callback receives the absolute frame index and the
// channel, so tests can verify exactly which frames a consumer read.
type MockNode struct {
	rate     int
	channels int
	total    int
	offset   int
	marked   int
	gain     float32
	paused   bool
	waveform func(frame, channel int) float32
}

// NewMockNode creates a node producing total frames from waveform.
func NewMockNode(rate, channels, total int, waveform func(frame, channel int) float32) *MockNode {
	return &MockNode{
		rate:     rate,
		channels: channels,
		total:    total,
		gain:     1,
		waveform: waveform,
	}
}

// NewSilentNode generates total frames of silence.
func NewSilentNode(rate, channels, total int) *MockNode {
	return NewMockNode(rate, channels, total, func(frame, channel int) float32 {
		return 0
	})
}

// NewConstantNode generates total frames of the given value on every
// channel.
func NewConstantNode(rate, channels, total int, value float32) *MockNode {
	return NewMockNode(rate, channels, total, func(frame, channel int) float32 {
		return value
	})
}

// NewSineNode generates a sine wave of the given frequency.
func NewSineNode(rate, channels, total int, frequency float64) *MockNode {
	return NewMockNode(rate, channels, total, func(frame, channel int) float32 {
		t := float64(frame) / float64(rate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewRampNode generates frame/total on every channel, handy for
// checking read positions.
func NewRampNode(rate, channels, total int) *MockNode {
	return NewMockNode(rate, channels, total, func(frame, channel int) float32 {
		return float32(frame) / float32(total)
	})
}

func (m *MockNode) Read(buf []float32, frames int) int {
	if m.paused {
		for i := range buf[:frames*m.channels] {
			buf[i] = 0
		}
		return frames
	}
	avail := m.total - m.offset
	if avail <= 0 {
		return 0
	}
	if frames > avail {
		frames = avail
	}
	for f := 0; f < frames; f++ {
		for c := 0; c < m.channels; c++ {
			buf[f*m.channels+c] = m.waveform(m.offset+f, c) * m.gain
		}
	}
	m.offset += frames
	return frames
}

func (m *MockNode) Channels() int { return m.channels }
func (m *MockNode) Rate() int     { return m.rate }

func (m *MockNode) Gain() float32        { return m.gain }
func (m *MockNode) SetGain(gain float32) { m.gain = gain }

func (m *MockNode) Paused() bool { return m.paused }

func (m *MockNode) Pause() bool {
	was := m.paused
	m.paused = true
	return !was
}

func (m *MockNode) Resume() bool {
	was := m.paused
	m.paused = false
	return was
}

func (m *MockNode) Completed() bool { return m.offset >= m.total }

func (m *MockNode) Mark() bool {
	m.marked = m.offset
	return true
}

func (m *MockNode) Unmark() bool {
	m.marked = 0
	return true
}

func (m *MockNode) Reset() bool {
	m.offset = m.marked
	return true
}

func (m *MockNode) Advance(frames int) int64 {
	return m.SetPosition(int64(m.offset + frames))
}

func (m *MockNode) Position() int64 { return int64(m.offset) }

func (m *MockNode) SetPosition(position int64) int64 {
	p := int(position)
	if p < 0 {
		p = 0
	}
	if p > m.total {
		p = m.total
	}
	m.offset = p
	return int64(p)
}

func (m *MockNode) Elapsed() float64 {
	return float64(m.offset) / float64(m.rate)
}

func (m *MockNode) SetElapsed(seconds float64) float64 {
	pos := m.SetPosition(int64(seconds * float64(m.rate)))
	return float64(pos) / float64(m.rate)
}

func (m *MockNode) Remaining() float64 {
	return float64(m.total-m.offset) / float64(m.rate)
}

func (m *MockNode) SetRemaining(seconds float64) float64 {
	want := int(seconds * float64(m.rate))
	m.SetPosition(int64(m.total - want))
	return m.Remaining()
}
