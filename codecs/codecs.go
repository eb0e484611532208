// SPDX-License-Identifier: EPL-2.0

package codecs

import (
	"io"
	"sync"
)

// Tag identifies the sample encoding of a decoded stream.
type Tag int

const (
	TagUnknown Tag = iota
	// TagPCM is uncompressed integer PCM (8, 16 or 32 bit).
	TagPCM
	// TagFloat is IEEE 32-bit float PCM.
	TagFloat
	// TagMSADPCM is Microsoft adaptive-coefficient ADPCM.
	TagMSADPCM
	// TagIMAADPCM is IMA step-table ADPCM.
	TagIMAADPCM
	// TagMP3 is MPEG layer 3 data.
	TagMP3
	// TagVorbis is Ogg Vorbis data.
	TagVorbis
)

// Decoder is a page-oriented pull decoder for a stored audio stream.
//
// A decoder converts the stream one page at a time into interleaved
// float32 PCM. Pages are fixed size except possibly the last one.
// Decoding performs blocking file I/O and must never be invoked from a
// real-time rendering callback; callers stage pages into a buffer that
// the real-time path only copies from.
type Decoder interface {
	// Tag reports the sample encoding of this stream.
	Tag() Tag
	// Channels is the interleaved channel count.
	Channels() int
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Frames is the total number of frames in the stream.
	Frames() int64
	// PageSize is the maximum number of frames decoded per page.
	PageSize() int
	// PageIn decodes one page of interleaved samples into dst, which
	// must hold at least PageSize()*Channels() values. It returns the
	// number of frames produced; 0 signals end of stream.
	PageIn(dst []float32) int
	// SetPage positions the decoder so the next PageIn call decodes the
	// given page. Pages beyond the last valid page clamp to end of
	// stream.
	SetPage(page int64)
	// Close releases the underlying stream.
	Close() error
}

// Factory constructs a Decoder from a seekable byte stream. The decoder
// takes ownership of the stream and closes it on Close.
type Factory func(r io.ReadSeekCloser) (Decoder, error)

// Registry maps file suffixes (e.g. ".wav", ".mp3", ".ogg") to
// decoder factories.
type Registry struct {
	codecs map[string]Factory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Factory),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(suffix string, f Factory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[suffix] = f
}

func (r *Registry) Get(suffix string) (Factory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.codecs[suffix]
	return f, ok
}
