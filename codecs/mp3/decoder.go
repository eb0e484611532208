// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/sndgraph/codecs"
)

// stream is the slice of gomp3.Decoder we rely on, split out so tests
// can substitute a fake.
type stream interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 4
	pageFrames    = 1024
)

// Decoder adapts an MP3 stream to the page-oriented decoder contract.
type Decoder struct {
	dec    stream
	closer io.Closer

	rate     int
	frames   int64
	currpage int64
	lastpage int64
	buf      []byte
}

// NewDecoder bootstraps an MP3 decoder from the given stream. The
// decoder takes ownership of the stream.
func NewDecoder(r io.ReadSeekCloser) (*Decoder, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return newDecoder(dec, r), nil
}

func newDecoder(dec stream, closer io.Closer) *Decoder {
	frames := dec.Length() / bytesPerFrame
	return &Decoder{
		dec:      dec,
		closer:   closer,
		rate:     dec.SampleRate(),
		frames:   frames,
		lastpage: frames / pageFrames,
		buf:      make([]byte, pageFrames*bytesPerFrame),
	}
}

func (d *Decoder) Tag() codecs.Tag { return codecs.TagMP3 }
func (d *Decoder) Channels() int   { return channels }
func (d *Decoder) SampleRate() int { return d.rate }
func (d *Decoder) Frames() int64   { return d.frames }
func (d *Decoder) PageSize() int   { return pageFrames }
func (d *Decoder) Close() error    { return d.closer.Close() }

func (d *Decoder) PageIn(dst []float32) int {
	avail := pageFrames
	if d.currpage == d.lastpage {
		avail = int(d.frames % pageFrames)
	} else if d.currpage > d.lastpage {
		avail = 0
	}
	if avail == 0 {
		return 0
	}

	n, _ := io.ReadFull(d.dec, d.buf[:avail*bytesPerFrame])
	samples := n / 2
	if samples == 0 {
		return 0
	}
	for i := 0; i < samples; i++ {
		v := int16(uint16(d.buf[2*i]) | uint16(d.buf[2*i+1])<<8)
		dst[i] = float32(v) / 65536.0
	}

	d.currpage++
	return samples / channels
}

func (d *Decoder) SetPage(page int64) {
	if page > d.lastpage {
		page = d.lastpage
	}
	off := page * pageFrames * bytesPerFrame
	if end := d.frames * bytesPerFrame; off > end {
		off = end
	}
	d.dec.Seek(off, io.SeekStart)
	d.currpage = page
}
