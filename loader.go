// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"io"
	"os"

	"github.com/ik5/sndgraph/codecs"
	"github.com/ik5/sndgraph/codecs/mp3"
	"github.com/ik5/sndgraph/codecs/vorbis"
	"github.com/ik5/sndgraph/codecs/wav"
)

// Opener resolves a logical asset name to a seekable byte stream. It
// is the only thing the rendering core needs from an asset loader.
// The default opens files from the OS filesystem.
type Opener func(name string) (io.ReadSeekCloser, error)

// Runner schedules work off the control thread, such as the full
// decode of a resident sample. The default spawns a goroutine.
type Runner func(task func())

// DefaultOpener opens assets as plain files.
func DefaultOpener(name string) (io.ReadSeekCloser, error) {
	return os.Open(name)
}

// DefaultRunner runs each task on its own goroutine.
func DefaultRunner(task func()) {
	go task()
}

// DefaultRegistry returns a codec registry with every built-in
// decoder registered under its usual file suffix.
func DefaultRegistry() *codecs.Registry {
	reg := codecs.NewRegistry()
	reg.Register(".wav", func(r io.ReadSeekCloser) (codecs.Decoder, error) {
		return wav.NewDecoder(r)
	})
	reg.Register(".mp3", func(r io.ReadSeekCloser) (codecs.Decoder, error) {
		return mp3.NewDecoder(r)
	})
	reg.Register(".ogg", func(r io.ReadSeekCloser) (codecs.Decoder, error) {
		return vorbis.NewDecoder(r)
	})
	return reg
}

// LoadSample decodes a sample asset off the control thread and hands
// the result to done, which runs on the worker. Either the sample or
// the error is non-nil.
func LoadSample(run Runner, reg *codecs.Registry, open Opener, path string, streamed bool, done func(*Sample, error)) {
	run(func() {
		done(NewSample(reg, open, path, streamed))
	})
}
