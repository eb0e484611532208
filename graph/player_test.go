// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"testing"

	"github.com/ik5/sndgraph/codecs"
)

// stubSource is a playable asset over either a resident buffer or a
// stub page decoder.
type stubSource struct {
	channels int
	rate     int
	frames   int64
	buffer   []float32
	dec      *stubDecoder
}

func (s *stubSource) Channels() int     { return s.channels }
func (s *stubSource) Rate() int         { return s.rate }
func (s *stubSource) Frames() int64     { return s.frames }
func (s *stubSource) Buffer() []float32 { return s.buffer }

func (s *stubSource) Decoder() (codecs.Decoder, error) {
	return s.dec, nil
}

// stubDecoder pages out sampleAt values so a test can tell exactly
// which frames a reader consumed.
type stubDecoder struct {
	channels int
	rate     int
	frames   int64
	pagesize int

	page   int64
	pulls  int
	closed bool
}

// sampleAt is the value the stub emits for a frame and channel.
func sampleAt(frame int64, channel int) float32 {
	return float32(frame) + float32(channel)/10
}

func (d *stubDecoder) Tag() codecs.Tag { return codecs.TagPCM }
func (d *stubDecoder) Channels() int   { return d.channels }
func (d *stubDecoder) SampleRate() int { return d.rate }
func (d *stubDecoder) Frames() int64   { return d.frames }
func (d *stubDecoder) PageSize() int   { return d.pagesize }
func (d *stubDecoder) Close() error    { d.closed = true; return nil }

func (d *stubDecoder) PageIn(dst []float32) int {
	d.pulls++
	start := d.page * int64(d.pagesize)
	avail := d.frames - start
	if avail <= 0 {
		return 0
	}
	if avail > int64(d.pagesize) {
		avail = int64(d.pagesize)
	}
	for f := int64(0); f < avail; f++ {
		for c := 0; c < d.channels; c++ {
			dst[int(f)*d.channels+c] = sampleAt(start+f, c)
		}
	}
	d.page++
	return int(avail)
}

func (d *stubDecoder) SetPage(page int64) {
	last := d.frames / int64(d.pagesize)
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	d.page = page
}

func residentSource(frames int64) *stubSource {
	buffer := make([]float32, frames*2)
	for f := int64(0); f < frames; f++ {
		buffer[f*2] = sampleAt(f, 0)
		buffer[f*2+1] = sampleAt(f, 1)
	}
	return &stubSource{channels: 2, rate: 100, frames: frames, buffer: buffer}
}

func streamedSource(frames int64, pagesize int) *stubSource {
	return &stubSource{
		channels: 2,
		rate:     100,
		frames:   frames,
		dec:      &stubDecoder{channels: 2, rate: 100, frames: frames, pagesize: pagesize},
	}
}

func checkFrames(t *testing.T, buf []float32, start int64, frames int) {
	t.Helper()
	for f := 0; f < frames; f++ {
		at := start + int64(f)
		if buf[f*2] != sampleAt(at, 0) || buf[f*2+1] != sampleAt(at, 1) {
			t.Fatalf("frame %d = (%v,%v), want frame %d of the source",
				f, buf[f*2], buf[f*2+1], at)
		}
	}
}

func TestPlayerResidentRead(t *testing.T) {
	t.Parallel()

	p, err := NewPlayer(residentSource(20))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	buf := make([]float32, 8*2)

	if got := p.Read(buf, 8); got != 8 {
		t.Fatalf("Read() = %d, want 8", got)
	}
	checkFrames(t, buf, 0, 8)

	p.Read(buf, 8)
	checkFrames(t, buf, 8, 8)

	// The tail is clamped to what remains.
	if got := p.Read(buf, 8); got != 4 {
		t.Fatalf("tail Read() = %d, want 4", got)
	}
	checkFrames(t, buf, 16, 4)

	if !p.Completed() {
		t.Error("Completed() = false at end of asset")
	}
	if got := p.Read(buf, 8); got != 0 {
		t.Errorf("Read() past end = %d, want 0", got)
	}
}

func TestPlayerStreamedRead(t *testing.T) {
	t.Parallel()

	// Page size 8 forces the 5-frame reads to straddle page refills.
	p, err := NewPlayer(streamedSource(20, 8))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	buf := make([]float32, 8*2)

	var pos int64
	for _, want := range []int{5, 5, 5, 5} {
		if got := p.Read(buf, 5); got != want {
			t.Fatalf("Read() at %d = %d, want %d", pos, got, want)
		}
		checkFrames(t, buf, pos, want)
		pos += int64(want)
	}
	if got := p.Read(buf, 5); got != 0 {
		t.Errorf("Read() past end = %d, want 0", got)
	}
	if !p.Completed() {
		t.Error("Completed() = false after draining the stream")
	}
}

func TestPlayerStreamedSeek(t *testing.T) {
	t.Parallel()

	src := streamedSource(20, 8)
	p, err := NewPlayer(src)
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	buf := make([]float32, 8*2)

	// Jump into the middle of page 1. The next read must restage the
	// page and skip the partial.
	if got := p.SetPosition(10); got != 10 {
		t.Fatalf("SetPosition(10) = %d", got)
	}
	if got := p.Read(buf, 6); got != 6 {
		t.Fatalf("Read() = %d, want 6", got)
	}
	checkFrames(t, buf, 10, 6)

	// Seeking backwards restages as well.
	p.SetPosition(2)
	p.Read(buf, 4)
	checkFrames(t, buf, 2, 4)

	// Positions clamp to the asset length.
	if got := p.SetPosition(999); got != 20 {
		t.Errorf("SetPosition(999) = %d, want 20", got)
	}
	if got := p.Read(buf, 4); got != 0 {
		t.Errorf("Read() at end = %d, want 0", got)
	}
}

func TestPlayerMarkReset(t *testing.T) {
	t.Parallel()

	p, err := NewPlayer(streamedSource(20, 8))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	buf := make([]float32, 8*2)

	p.Read(buf, 6)
	p.Mark()
	p.Read(buf, 6)

	if !p.Reset() {
		t.Fatal("Reset() = false")
	}
	if got := p.Position(); got != 6 {
		t.Fatalf("Position() after Reset() = %d, want 6", got)
	}
	p.Read(buf, 4)
	checkFrames(t, buf, 6, 4)

	p.Unmark()
	p.Reset()
	if got := p.Position(); got != 0 {
		t.Errorf("Position() after Unmark()+Reset() = %d, want 0", got)
	}
}

func TestPlayerGainAndPause(t *testing.T) {
	t.Parallel()

	p, err := NewPlayer(residentSource(20))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	p.SetGain(0.5)
	buf := make([]float32, 4*2)
	p.Read(buf, 4)
	if want := sampleAt(2, 0) * 0.5; buf[2*2] != want {
		t.Errorf("scaled sample = %v, want %v", buf[2*2], want)
	}

	p.Pause()
	if got := p.Read(buf, 4); got != 4 {
		t.Fatalf("paused Read() = %d, want 4", got)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("paused sample %d = %v, want silence", i, v)
		}
	}
	if got := p.Position(); got != 4 {
		t.Errorf("paused read moved position to %d, want 4", got)
	}
}

func TestPlayerTiming(t *testing.T) {
	t.Parallel()

	// 20 frames at 100 Hz is 0.2 seconds.
	p, err := NewPlayer(residentSource(20))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}

	if got := p.Remaining(); got != 0.2 {
		t.Errorf("Remaining() = %v, want 0.2", got)
	}
	if got := p.SetElapsed(0.1); got != 0.1 {
		t.Errorf("SetElapsed(0.1) = %v, want 0.1", got)
	}
	if got := p.Position(); got != 10 {
		t.Errorf("Position() = %d, want 10", got)
	}
	if got := p.Elapsed(); got != 0.1 {
		t.Errorf("Elapsed() = %v, want 0.1", got)
	}
	if got := p.SetRemaining(0.05); got != 0.05 {
		t.Errorf("SetRemaining(0.05) = %v, want 0.05", got)
	}
	if got := p.Position(); got != 15 {
		t.Errorf("Position() = %d, want 15", got)
	}
	// Asking for more than the asset holds rewinds to the start.
	if got := p.SetRemaining(10); got != 0.2 {
		t.Errorf("SetRemaining(10) = %v, want 0.2", got)
	}
}

func TestPlayerClose(t *testing.T) {
	t.Parallel()

	src := streamedSource(20, 8)
	p, err := NewPlayer(src)
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !src.dec.closed {
		t.Error("Close() did not close the decoder")
	}

	// Resident players have nothing to close.
	p, err = NewPlayer(residentSource(4))
	if err != nil {
		t.Fatalf("NewPlayer() error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("resident Close() error: %v", err)
	}
}
