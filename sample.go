// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/sndgraph/codecs"
	"github.com/ik5/sndgraph/graph"
)

// Sample is a file-backed audio asset. A resident sample is decoded
// in full at construction and every player copies from the shared
// buffer. A streamed sample keeps only its metadata; each player gets
// its own decoder so simultaneous playbacks do not fight over one
// read position.
//
// Sample implements graph.Source.
type Sample struct {
	Sound

	reg  *codecs.Registry
	open Opener
	path string

	frames   int64
	tag      codecs.Tag
	streamed bool
	buffer   []float32
}

// NewSample probes path with the registered codec for its suffix and
// builds the asset. When streamed is false the whole stream is
// decoded into memory before returning, which may be slow for large
// files; use LoadSample to keep that work off the control thread.
func NewSample(reg *codecs.Registry, open Opener, path string, streamed bool) (*Sample, error) {
	suffix := strings.ToLower(filepath.Ext(path))
	factory, ok := reg.Get(suffix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", codecs.ErrUnknownSuffix, suffix)
	}
	r, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	dec, err := factory(r)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	snd, err := newSound(dec.Channels(), dec.SampleRate(), path)
	if err != nil {
		dec.Close()
		return nil, err
	}
	s := &Sample{
		Sound:    snd,
		reg:      reg,
		open:     open,
		path:     path,
		frames:   dec.Frames(),
		tag:      dec.Tag(),
		streamed: streamed,
	}
	if streamed {
		dec.Close()
		return s, nil
	}

	channels := dec.Channels()
	s.buffer = make([]float32, s.frames*int64(channels))
	page := make([]float32, dec.PageSize()*channels)
	var off int64
	for off < s.frames {
		n := dec.PageIn(page)
		if n <= 0 {
			break
		}
		copy(s.buffer[off*int64(channels):], page[:n*channels])
		off += int64(n)
	}
	dec.Close()
	if off < s.frames {
		// Trust the payload over the header.
		s.frames = off
		s.buffer = s.buffer[:off*int64(channels)]
	}
	return s, nil
}

// NewBufferSample wraps already-decoded interleaved samples as a
// resident asset. The buffer is shared, not copied.
func NewBufferSample(channels, rate int, buffer []float32) (*Sample, error) {
	snd, err := newSound(channels, rate, "")
	if err != nil {
		return nil, err
	}
	return &Sample{
		Sound:  snd,
		frames: int64(len(buffer) / channels),
		tag:    codecs.TagFloat,
		buffer: buffer,
	}, nil
}

// Frames reports the total frame count of the asset.
func (s *Sample) Frames() int64 { return s.frames }

// CodecTag reports the stored sample encoding.
func (s *Sample) CodecTag() codecs.Tag { return s.tag }

// Streamed reports whether playback decodes from disk on demand.
func (s *Sample) Streamed() bool { return s.streamed }

// Duration reports the asset length in seconds.
func (s *Sample) Duration() float64 {
	return float64(s.frames) / float64(s.Rate())
}

// Buffer returns the resident sample data, or nil when streamed.
func (s *Sample) Buffer() []float32 { return s.buffer }

// Decoder opens a fresh page decoder for one playback instance of a
// streamed sample.
func (s *Sample) Decoder() (codecs.Decoder, error) {
	if !s.streamed {
		return nil, ErrNotStreamed
	}
	factory, ok := s.reg.Get(strings.ToLower(filepath.Ext(s.path)))
	if !ok {
		return nil, fmt.Errorf("%w: %q", codecs.ErrUnknownSuffix, s.path)
	}
	r, err := s.open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return factory(r)
}

// CreateNode manufactures a player for one playthrough of this
// sample, with its gain preset to the asset volume. Each call returns
// a distinct node.
func (s *Sample) CreateNode() (*graph.Player, error) {
	p, err := graph.NewPlayer(s)
	if err != nil {
		return nil, err
	}
	p.SetGain(s.Volume())
	return p, nil
}
