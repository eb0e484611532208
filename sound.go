// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"fmt"
	"math"
	"sync/atomic"
)

// MaxChannels is the largest channel count an asset may declare.
const MaxChannels = 32

// Sound holds the static parameters shared by every audio asset: the
// channel count and sample rate of the signal it produces, the file
// it came from (empty for generated assets) and a default volume
// applied to every node it manufactures. Everything but the volume is
// immutable after construction. A Sound may outlive any node it
// spawned; nodes never point back at it.
type Sound struct {
	channels int
	rate     int
	file     string

	volume atomic.Uint32 // float32 bit pattern
}

func newSound(channels, rate int, file string) (Sound, error) {
	if channels < 1 || channels > MaxChannels {
		return Sound{}, fmt.Errorf("%w: %d", ErrBadChannelCount, channels)
	}
	if rate <= 0 {
		return Sound{}, fmt.Errorf("%w: %d", ErrBadSampleRate, rate)
	}
	s := Sound{channels: channels, rate: rate, file: file}
	s.volume.Store(math.Float32bits(1))
	return s, nil
}

// Channels reports the channel count of the asset.
func (s *Sound) Channels() int { return s.channels }

// Rate reports the sample rate in Hz.
func (s *Sound) Rate() int { return s.rate }

// File reports the source path, or "" for generated assets.
func (s *Sound) File() string { return s.file }

// Volume returns the default volume given to manufactured nodes.
func (s *Sound) Volume() float32 {
	return math.Float32frombits(s.volume.Load())
}

// SetVolume sets the default volume, clamped to [0,1]. Nodes already
// manufactured are unaffected.
func (s *Sound) SetVolume(volume float32) {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	s.volume.Store(math.Float32bits(volume))
}
