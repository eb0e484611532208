// SPDX-License-Identifier: EPL-2.0

/*
Package sndgraph is a real-time audio rendering core: asset
descriptors that manufacture pull-based signal nodes, page-oriented
decoders for stored audio, a parametric oscillator engine, and a
spatializing spinner node.

An asset descriptor (Sample or Waveform) owns the static parameters
of a sound: channel count, rate, source file or shape, and a default
volume. It is cheap to keep around and manufactures one node per
playback request:

	reg := sndgraph.DefaultRegistry()
	sample, err := sndgraph.NewSample(reg, sndgraph.DefaultOpener, "steps.wav", false)
	if err != nil {
		// ...
	}
	player, err := sample.CreateNode()

Nodes implement the graph.Node pull contract. The application's
output mixer pulls the top node once per device callback; everything
upstream of that pull happens synchronously in the callback, so the
node path never blocks, locks or allocates. Control-side parameter
changes (gain, pause, frequency, rotation) land in independent
atomics the callback reads.

The spinner remixes a node's sound field onto an output channel
layout, rotating it by an angle and feeding a low-passed sum to the
subwoofer slot of 5.1 and larger layouts:

	spin := graph.NewSpinner(6, 2, 48000)
	if err := spin.Attach(player); err != nil {
		// channel or rate mismatch
	}
	spin.SetAngle(math.Pi / 3)

Stored audio is decoded through the codecs registry, which maps file
suffixes to page decoders: WAV (integer and float PCM, MS and IMA
ADPCM) plus MP3 and Ogg Vorbis. Resident samples decode fully at load
time; streamed samples decode page by page during playback from the
control side.
*/
package sndgraph
