// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/sndgraph/codecs"
)

// WAV codec ids from the fmt chunk.
const (
	codePCM      = 0x0001
	codeMSADPCM  = 0x0002
	codeFloat    = 0x0003
	codeIMAADPCM = 0x0011
	codeMP3      = 0x0055
)

// pageBytes is the raw page size for PCM data. ADPCM pages are one
// compressed block instead.
const pageBytes = 4096

const maxChannels = 32

type depth int

const (
	depthS8 depth = iota
	depthS16
	depthS32
	depthF32
)

var le = binary.LittleEndian

// Decoder is a page-oriented pull decoder for RIFF/WAVE files. It
// supports integer PCM (8/16/32 bit), IEEE float, and the MS and IMA
// ADPCM compression schemes. MP3 payloads are rejected; that data
// belongs in an MP3 file.
type Decoder struct {
	src io.ReadSeekCloser

	tag        codecs.Tag
	channels   int
	rate       int
	frames     int64
	depth      depth
	sampsize   int // bytes per decoded sample
	blockalign int

	pagesize int // frames per page
	currpage int64
	lastpage int64
	datamark int64 // file offset of the data payload

	adpcm blockDecoder
	chunk []byte // staging buffer for one raw page
}

// NewDecoder bootstraps a WAV decoder from the given stream. The
// decoder takes ownership of the stream. It fails on a garbled magic
// header, an unrecognized codec, a bit depth unsupported for the
// chosen codec, or any short read while walking the chunks.
func NewDecoder(r io.ReadSeekCloser) (*Decoder, error) {
	d := &Decoder{src: r}
	if err := d.bootstrap(); err != nil {
		r.Close()
		return nil, err
	}
	d.chunk = make([]byte, d.pagesize*d.channels*d.sampsize)
	return d, nil
}

func (d *Decoder) Tag() codecs.Tag { return d.tag }
func (d *Decoder) Channels() int   { return d.channels }
func (d *Decoder) SampleRate() int { return d.rate }
func (d *Decoder) Frames() int64   { return d.frames }
func (d *Decoder) PageSize() int   { return d.pagesize }
func (d *Decoder) Close() error    { return d.src.Close() }

// bootstrap reads the magic header, walks the chunk list to the format
// chunk (skipping fact/LIST/bext/JUNK metadata), selects the codec, and
// forwards the stream to the start of the data payload.
func (d *Decoder) bootstrap() error {
	var head [12]byte
	if _, err := io.ReadFull(d.src, head[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrNotWave, err)
	}
	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "WAVE" {
		return ErrNotWave
	}

	format, err := d.findFormat()
	if err != nil {
		return err
	}
	if err := d.selectCodec(format); err != nil {
		return err
	}

	datalen, err := d.findData()
	if err != nil {
		return err
	}

	if d.adpcm != nil {
		// Only whole compressed blocks count; a truncated trailing
		// block never decodes.
		d.pagesize = d.adpcm.frames()
		d.lastpage = datalen / int64(d.blockalign)
		d.frames = int64(d.adpcm.frames()) * (datalen / int64(d.blockalign))
	} else {
		d.frames = datalen / int64(d.sampsize*d.channels)
		d.pagesize = pageBytes / (d.sampsize * d.channels)
		d.lastpage = d.frames / int64(d.pagesize)
	}

	d.currpage = 0
	mark, err := d.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	d.datamark = mark
	return nil
}

// findFormat returns the payload of the fmt chunk. Ignorable metadata
// chunks before it are skipped; any other chunk is a layout we do not
// support.
func (d *Decoder) findFormat() ([]byte, error) {
	for {
		tag, length, err := d.chunkHeader()
		if err != nil {
			return nil, err
		}
		switch tag {
		case "fact", "LIST", "bext", "JUNK":
			if _, err := d.src.Seek(int64(length), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
		case "fmt ":
			payload := make([]byte, length)
			if _, err := io.ReadFull(d.src, payload); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			return payload, nil
		default:
			return nil, ErrUnsupportedLayout
		}
	}
}

// findData skips stray chunks by length until the data chunk, and
// returns the data payload length in bytes.
func (d *Decoder) findData() (int64, error) {
	for {
		tag, length, err := d.chunkHeader()
		if err != nil {
			return 0, err
		}
		if tag == "data" {
			return int64(length), nil
		}
		if _, err := d.src.Seek(int64(length), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
}

func (d *Decoder) chunkHeader() (string, uint32, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(d.src, hdr[:]); err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return string(hdr[0:4]), le.Uint32(hdr[4:8]), nil
}

// selectCodec interprets the fmt chunk. ADPCM codecs are seeded from
// the chunk's trailing bytes (coefficient table for MS, block size for
// IMA).
func (d *Decoder) selectCodec(format []byte) error {
	if len(format) < 16 {
		return ErrCorrupt
	}
	encoding := int(le.Uint16(format[0:2]))
	d.channels = int(le.Uint16(format[2:4]))
	d.rate = int(le.Uint32(format[4:8]))
	d.blockalign = int(le.Uint16(format[12:14]))
	bits := int(le.Uint16(format[14:16]))

	if d.channels < 1 || d.channels > maxChannels {
		return ErrBadChannels
	}

	switch encoding {
	case codePCM:
		d.tag = codecs.TagPCM
		switch bits {
		case 8:
			d.depth, d.sampsize = depthS8, 1
		case 16:
			d.depth, d.sampsize = depthS16, 2
		case 32:
			d.depth, d.sampsize = depthS32, 4
		default:
			return fmt.Errorf("%w: %d-bit PCM", ErrBadBitDepth, bits)
		}
	case codeFloat:
		d.tag = codecs.TagFloat
		if bits != 32 {
			return fmt.Errorf("%w: %d-bit float", ErrBadBitDepth, bits)
		}
		d.depth, d.sampsize = depthF32, 4
	case codeMSADPCM:
		d.tag = codecs.TagMSADPCM
		if bits != 4 {
			return fmt.Errorf("%w: %d-bit MS ADPCM", ErrBadBitDepth, bits)
		}
		dec, err := newMSDecoder(format, d.channels, d.blockalign)
		if err != nil {
			return err
		}
		d.adpcm = dec
		d.depth, d.sampsize = depthS16, 2
	case codeIMAADPCM:
		d.tag = codecs.TagIMAADPCM
		if bits != 4 {
			return fmt.Errorf("%w: %d-bit IMA ADPCM", ErrBadBitDepth, bits)
		}
		dec, err := newIMADecoder(format, d.channels, d.blockalign)
		if err != nil {
			return err
		}
		d.adpcm = dec
		d.depth, d.sampsize = depthS16, 2
	case codeMP3:
		return ErrMP3Payload
	default:
		return fmt.Errorf("%w: 0x%04x", ErrUnsupportedCodec, encoding)
	}
	return nil
}

// PageIn decodes exactly one page of interleaved samples into dst,
// returning the number of frames produced. A return of 0 signals end
// of stream.
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

	if d.adpcm != nil {
		n := d.adpcm.read(d.src, dst)
		if n <= 0 {
			return 0
		}
		if n > avail {
			n = avail
		}
		d.currpage++
		return n
	}

	want := avail * d.channels * d.sampsize
	n, _ := io.ReadFull(d.src, d.chunk[:want])
	samples := n / d.sampsize
	if samples == 0 {
		return 0
	}

	switch d.depth {
	case depthS8:
		for i := 0; i < samples; i++ {
			dst[i] = float32(int8(d.chunk[i])) / 256.0
		}
	case depthS16:
		for i := 0; i < samples; i++ {
			v := int16(le.Uint16(d.chunk[2*i:]))
			dst[i] = float32(v) / 65536.0
		}
	case depthS32:
		for i := 0; i < samples; i++ {
			v := int32(le.Uint32(d.chunk[4*i:]))
			dst[i] = float32(float64(v) / 4294967296.0)
		}
	case depthF32:
		for i := 0; i < samples; i++ {
			dst[i] = math.Float32frombits(le.Uint32(d.chunk[4*i:]))
		}
	}

	d.currpage++
	return samples / d.channels
}

// SetPage seeks the underlying stream so the next PageIn decodes the
// given page. Pages beyond the last valid page clamp to end of stream.
func (d *Decoder) SetPage(page int64) {
	if page > d.lastpage {
		page = d.lastpage
	}
	var off int64
	if d.adpcm != nil {
		off = page * int64(d.blockalign)
	} else {
		bpf := int64(d.sampsize * d.channels)
		off = page * int64(d.pagesize) * bpf
		if end := d.frames * bpf; off > end {
			off = end
		}
	}
	d.src.Seek(d.datamark+off, io.SeekStart)
	d.currpage = page
}
