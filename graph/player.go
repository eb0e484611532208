// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"sync/atomic"

	"github.com/ik5/sndgraph/codecs"
	"github.com/ik5/sndgraph/dsp"
)

// Source describes a playable audio asset. Buffer returns the fully
// resident sample data, or nil when the asset streams from disk; in
// that case Decoder must return a fresh page decoder for this
// playback instance. Decoding state lives in the Player, not the
// asset, because one asset may have several players at once.
type Source interface {
	Channels() int
	Rate() int
	Frames() int64
	Buffer() []float32
	Decoder() (codecs.Decoder, error)
}

// Player plays a single pass over a Source as a graph node. Resident
// sources are copied straight out of the asset buffer. Streamed
// sources are staged one decoder page at a time into a chunk buffer
// that Read drains; the page refill performs file I/O and therefore a
// streamed player must only be pulled from a context that tolerates
// blocking, or pre-positioned via SetPosition before real-time use.
type Player struct {
	Base
	src Source

	offset atomic.Uint64
	marked atomic.Uint64
	dirty  atomic.Bool

	dec     codecs.Decoder
	chunker []float32
	chksize int
	chklimt int
	chklast int
}

// NewPlayer readies a single playthrough of src.
func NewPlayer(src Source) (*Player, error) {
	p := &Player{
		Base: NewBase(src.Channels(), src.Rate()),
		src:  src,
	}
	if src.Buffer() == nil {
		dec, err := src.Decoder()
		if err != nil {
			return nil, err
		}
		p.dec = dec
		p.chksize = dec.PageSize()
		p.chklimt = p.chksize
		p.chklast = p.chksize
		p.chunker = make([]float32, p.chksize*dec.Channels())
	}
	return p, nil
}

// Close releases the decoder of a streamed player. It must not be
// called while a read is in flight.
func (p *Player) Close() error {
	if p.dec != nil {
		return p.dec.Close()
	}
	return nil
}

func (p *Player) Read(buf []float32, frames int) int {
	if p.Paused() {
		zero(buf[:frames*p.channels])
		return frames
	}

	p.setPolling(true)
	defer p.setPolling(false)

	off := int64(p.offset.Load())
	length := p.src.Frames()
	if off >= length {
		return 0
	}

	amt := frames
	if resident := p.src.Buffer(); resident != nil {
		if off+int64(amt) > length {
			amt = int(length - off)
		}
		copy(buf[:amt*p.channels], resident[off*int64(p.channels):])
	} else {
		if p.dirty.Load() {
			p.scan(off)
			p.dirty.Store(false)
		}
		remnant := frames
		channels := p.dec.Channels()
		for remnant > 0 {
			if p.chklast >= p.chklimt {
				p.chklimt = p.dec.PageIn(p.chunker)
				p.chklast = 0
			}
			avail := p.chklimt - p.chklast
			if avail <= 0 {
				break
			}
			if avail > remnant {
				avail = remnant
			}
			copy(buf[(frames-remnant)*channels:], p.chunker[p.chklast*channels:(p.chklast+avail)*channels])
			remnant -= avail
			p.chklast += avail
		}
		amt = frames - remnant
	}

	dsp.Scale(buf[:amt*p.channels], p.Gain())
	p.offset.Store(uint64(off) + uint64(amt))
	return amt
}

// scan repositions the decoder so the chunk buffer is staged at the
// given absolute frame, skipping past any partial page.
func (p *Player) scan(frame int64) {
	page := frame / int64(p.chksize)
	p.dec.SetPage(page)
	p.chklimt = p.dec.PageIn(p.chunker)
	if p.chklimt <= 0 {
		p.chklimt = 0
		p.chklast = p.chksize
		return
	}
	p.chklast = int(frame % int64(p.chksize))
}

func (p *Player) Completed() bool {
	return int64(p.offset.Load()) >= p.src.Frames()
}

func (p *Player) Mark() bool {
	p.marked.Store(p.offset.Load())
	return true
}

// Unmark moves the mark back to the start of the asset, so Reset
// returns to the beginning.
func (p *Player) Unmark() bool {
	p.marked.Store(0)
	return true
}

func (p *Player) Reset() bool {
	p.offset.Store(p.marked.Load())
	p.dirty.Store(true)
	return true
}

func (p *Player) Advance(frames int) int64 {
	return p.SetPosition(int64(p.offset.Load()) + int64(frames))
}

func (p *Player) Position() int64 {
	return int64(p.offset.Load())
}

func (p *Player) SetPosition(position int64) int64 {
	if position < 0 {
		position = 0
	}
	if length := p.src.Frames(); position > length {
		position = length
	}
	p.offset.Store(uint64(position))
	p.dirty.Store(true)
	return position
}

func (p *Player) Elapsed() float64 {
	return float64(p.offset.Load()) / float64(p.rate)
}

func (p *Player) SetElapsed(seconds float64) float64 {
	var off int64
	if seconds > 0 {
		off = int64(seconds * float64(p.rate))
		if length := p.src.Frames(); off > length {
			off = length
		}
	}
	p.offset.Store(uint64(off))
	p.dirty.Store(true)
	return float64(off) / float64(p.rate)
}

func (p *Player) Remaining() float64 {
	off := int64(p.offset.Load())
	return float64(p.src.Frames()-off) / float64(p.rate)
}

// SetRemaining moves the read position so the given number of seconds
// is left before the end of the asset.
func (p *Player) SetRemaining(seconds float64) float64 {
	length := p.src.Frames()
	var off int64
	want := int64(seconds * float64(p.rate))
	if want < length {
		off = length - want
	}
	p.offset.Store(uint64(off))
	p.dirty.Store(true)
	return float64(length-off) / float64(p.rate)
}
