// SPDX-License-Identifier: EPL-2.0

package sndgraph

import "errors"

var (
	// ErrBadChannelCount is returned when an asset declares a channel
	// count outside 1..MaxChannels.
	ErrBadChannelCount = errors.New("channel count out of range")

	// ErrBadSampleRate is returned when an asset declares a
	// non-positive sample rate.
	ErrBadSampleRate = errors.New("sample rate must be positive")

	// ErrUnknownShape is returned when a waveform config names a
	// shape that is not recognized.
	ErrUnknownShape = errors.New("unknown waveform shape")

	// ErrNotStreamed is returned when a decoder is requested for an
	// asset that is fully resident in memory.
	ErrNotStreamed = errors.New("sample is not streamed")
)
