// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"github.com/ik5/sndgraph/codecs"
	"github.com/ik5/sndgraph/graph"
)

// SampleConfig is the plain-number configuration surface for a
// file-backed asset. The enclosing application owns parsing; this
// package only consumes the resolved values.
type SampleConfig struct {
	// File is the asset path, resolved by the Opener.
	File string
	// Stream decodes from disk on demand instead of holding the
	// whole asset in memory.
	Stream bool
	// Volume is the default node volume, clamped to [0,1]. Zero
	// keeps full volume.
	Volume float32
}

// WaveformConfig is the configuration surface for a generated asset.
// Zero-valued fields fall back to a stereo 480 Hz sine at 48 kHz with
// infinite duration.
type WaveformConfig struct {
	// Shape names the waveform, e.g. "sine", "triangle", "noise".
	Shape string
	// Tone is the fundamental frequency in Hz.
	Tone     float32
	Channels int
	Rate     int
	Volume   float32
	// Duration in seconds; negative or zero means infinite.
	Duration float64
	// Upper rectifies the waveform to the non-negative range.
	Upper bool
}

// NewSampleFromConfig builds the asset described by cfg using the
// given registry and opener.
func NewSampleFromConfig(reg *codecs.Registry, open Opener, cfg SampleConfig) (*Sample, error) {
	s, err := NewSample(reg, open, cfg.File, cfg.Stream)
	if err != nil {
		return nil, err
	}
	if cfg.Volume != 0 {
		s.SetVolume(cfg.Volume)
	}
	return s, nil
}

// NewWaveformFromConfig builds the waveform described by cfg,
// applying the documented defaults to zero-valued fields.
func NewWaveformFromConfig(cfg WaveformConfig) (*Waveform, error) {
	shape := ShapeSine
	if cfg.Shape != "" {
		var err error
		shape, err = ParseShape(cfg.Shape)
		if err != nil {
			return nil, err
		}
	}
	tone := float32(DefaultFrequency)
	if cfg.Tone != 0 {
		tone = cfg.Tone
	}
	channels := cfg.Channels
	if channels == 0 {
		channels = graph.DefaultChannels
	}
	rate := cfg.Rate
	if rate == 0 {
		rate = graph.DefaultRate
	}

	w, err := NewWaveform(channels, rate, shape, tone)
	if err != nil {
		return nil, err
	}
	w.SetUpper(cfg.Upper)
	if cfg.Duration > 0 {
		w.SetDuration(cfg.Duration)
	}
	if cfg.Volume != 0 {
		w.SetVolume(cfg.Volume)
	}
	return w, nil
}
