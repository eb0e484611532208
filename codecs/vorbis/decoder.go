// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/sndgraph/codecs"
	"github.com/jfreymuth/oggvorbis"
)

// stream is the slice of oggvorbis.Reader we rely on, split out so
// tests can substitute a fake.
type stream interface {
	Read([]float32) (int, error)
	SampleRate() int
	Channels() int
	Length() int64
	SetPosition(int64) error
}

const pageBytes = 4096

// Decoder adapts an Ogg Vorbis stream to the page-oriented decoder
// contract. Vorbis already decodes to float samples, so pages are
// copied through without rescaling.
type Decoder struct {
	dec    stream
	closer io.Closer

	rate     int
	channels int
	frames   int64
	pagesize int
	currpage int64
	lastpage int64
}

// NewDecoder bootstraps an Ogg Vorbis decoder from the given stream.
// The decoder takes ownership of the stream, which must be seekable so
// the total length is known up front.
func NewDecoder(r io.ReadSeekCloser) (*Decoder, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	return newDecoder(dec, r), nil
}

func newDecoder(dec stream, closer io.Closer) *Decoder {
	pagesize := pageBytes / (4 * dec.Channels())
	return &Decoder{
		dec:      dec,
		closer:   closer,
		rate:     dec.SampleRate(),
		channels: dec.Channels(),
		frames:   dec.Length(),
		pagesize: pagesize,
		lastpage: dec.Length() / int64(pagesize),
	}
}

func (d *Decoder) Tag() codecs.Tag { return codecs.TagVorbis }
func (d *Decoder) Channels() int   { return d.channels }
func (d *Decoder) SampleRate() int { return d.rate }
func (d *Decoder) Frames() int64   { return d.frames }
func (d *Decoder) PageSize() int   { return d.pagesize }
func (d *Decoder) Close() error    { return d.closer.Close() }

func (d *Decoder) PageIn(dst []float32) int {
	avail := d.pagesize
	if d.currpage == d.lastpage {
		avail = int(d.frames % int64(d.pagesize))
	} else if d.currpage > d.lastpage {
		avail = 0
	}
	if avail == 0 {
		return 0
	}

	// The reader may return fewer values than requested per call.
	want := avail * d.channels
	got := 0
	for got < want {
		n, err := d.dec.Read(dst[got:want])
		got += n
		if err != nil || n == 0 {
			break
		}
	}

	frames := got / d.channels
	if frames == 0 {
		return 0
	}
	d.currpage++
	return frames
}

func (d *Decoder) SetPage(page int64) {
	if page > d.lastpage {
		page = d.lastpage
	}
	pos := page * int64(d.pagesize)
	if pos > d.frames {
		pos = d.frames
	}
	d.dec.SetPosition(pos)
	d.currpage = page
}
