// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"errors"
	"math"
	"testing"
)

func TestParseShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want Shape
	}{
		{"noise", ShapeNoise},
		{"sine", ShapeSine},
		{"naive triangle", ShapeNaiveTriangle},
		{"naive square", ShapeNaiveSquare},
		{"naive sawtooth", ShapeNaiveSawtooth},
		{"naive impulse", ShapeNaiveTrain},
		{"triangle", ShapePolyTriangle},
		{"square", ShapePolySquare},
		{"sawtooth", ShapePolySawtooth},
		{"impulse", ShapeBlitTrain},
	}
	for _, tc := range cases {
		got, err := ParseShape(tc.name)
		if err != nil {
			t.Errorf("ParseShape(%q) error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseShape(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := ParseShape("sinus"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ParseShape(\"sinus\") error = %v, want ErrUnknownShape", err)
	}
}

func TestNewWaveformValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewWaveform(2, 48000, ShapeUnknown, 440); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("unknown shape error = %v", err)
	}
	if _, err := NewWaveform(0, 48000, ShapeSine, 440); !errors.Is(err, ErrBadChannelCount) {
		t.Errorf("zero channels error = %v", err)
	}
	if _, err := NewWaveform(MaxChannels+1, 48000, ShapeSine, 440); !errors.Is(err, ErrBadChannelCount) {
		t.Errorf("excess channels error = %v", err)
	}
	if _, err := NewWaveform(2, 0, ShapeSine, 440); !errors.Is(err, ErrBadSampleRate) {
		t.Errorf("zero rate error = %v", err)
	}
}

func TestWaveformSine(t *testing.T) {
	t.Parallel()

	// A quarter-rate sine hits 0, 1, 0, -1 on successive frames.
	w, err := NewWaveform(1, 100, ShapeSine, 25)
	if err != nil {
		t.Fatalf("NewWaveform() error: %v", err)
	}
	buf := make([]float32, 8)
	if got := w.Generate(buf, 8, 0, 0); got != 8 {
		t.Fatalf("Generate() = %d, want 8", got)
	}
	want := []float64{0, 1, 0, -1, 0, 1, 0, -1}
	for n := range want {
		if math.Abs(float64(buf[n])-want[n]) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", n, buf[n], want[n])
		}
	}
}

func TestWaveformPhaseContinuity(t *testing.T) {
	t.Parallel()

	// Generating in pieces from consecutive offsets matches one run.
	w, _ := NewWaveform(1, 48000, ShapeSine, 440)
	whole := make([]float32, 64)
	w.Generate(whole, 64, 0, 0)

	split := make([]float32, 64)
	w.Generate(split[:24], 24, 0, 0)
	w.Generate(split[24:], 40, 24, split[23])
	for n := range whole {
		if whole[n] != split[n] {
			t.Fatalf("sample %d = %v split vs %v whole", n, split[n], whole[n])
		}
	}
}

func TestWaveformUpperSine(t *testing.T) {
	t.Parallel()

	w, _ := NewWaveform(1, 48000, ShapeSine, 440)
	w.SetUpper(true)
	buf := make([]float32, 256)
	w.Generate(buf, 256, 0, 0)
	for n, v := range buf {
		if v < 0 {
			t.Fatalf("rectified sample %d = %v, want non-negative", n, v)
		}
	}
}

func TestWaveformNaiveSquare(t *testing.T) {
	t.Parallel()

	// One cycle every four frames: three on the high half-period
	// boundary or below, one past it.
	w, _ := NewWaveform(1, 100, ShapeNaiveSquare, 25)
	buf := make([]float32, 8)
	w.Generate(buf, 8, 0, 0)
	want := []float32{1, 1, 1, -1, 1, 1, 1, -1}
	for n := range want {
		if buf[n] != want[n] {
			t.Fatalf("sample %d = %v, want %v", n, buf[n], want[n])
		}
	}
}

func TestWaveformNaiveSawtooth(t *testing.T) {
	t.Parallel()

	w, _ := NewWaveform(1, 100, ShapeNaiveSawtooth, 25)
	buf := make([]float32, 4)
	w.Generate(buf, 4, 0, 0)
	want := []float32{1, 0.5, 0, -0.5}
	for n := range want {
		if math.Abs(float64(buf[n]-want[n])) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", n, buf[n], want[n])
		}
	}
}

func TestWaveformNoiseDeterminism(t *testing.T) {
	t.Parallel()

	// A non-negative frequency is a seed, so two generators with the
	// same one agree sample for sample.
	a, _ := NewWaveform(1, 48000, ShapeNoise, 0.5)
	b, _ := NewWaveform(1, 48000, ShapeNoise, 0.5)
	abuf := make([]float32, 64)
	bbuf := make([]float32, 64)
	a.Generate(abuf, 64, 0, 0)
	b.Generate(bbuf, 64, 0, 0)
	for n := range abuf {
		if abuf[n] != bbuf[n] {
			t.Fatalf("sample %d = %v vs %v for the same seed", n, abuf[n], bbuf[n])
		}
		if abuf[n] < -1 || abuf[n] >= 1 {
			t.Fatalf("sample %d = %v outside [-1,1)", n, abuf[n])
		}
	}

	// Setting the frequency again reseeds, replaying the sequence.
	a.SetFrequency(0.5)
	again := make([]float32, 64)
	a.Generate(again, 64, 0, 0)
	for n := range again {
		if again[n] != abuf[n] {
			t.Fatalf("sample %d = %v after reseed, want %v", n, again[n], abuf[n])
		}
	}
}

func TestWaveformChannelReplication(t *testing.T) {
	t.Parallel()

	w, _ := NewWaveform(2, 48000, ShapeSine, 440)
	buf := make([]float32, 32*2)
	w.Generate(buf, 32, 0, 0)
	for n := 0; n < 32; n++ {
		if buf[2*n] != buf[2*n+1] {
			t.Fatalf("frame %d = (%v,%v), want identical channels", n, buf[2*n], buf[2*n+1])
		}
	}
}

func TestWaveformDuration(t *testing.T) {
	t.Parallel()

	w, _ := NewWaveform(1, 100, ShapeSine, 25)
	if got := w.Length(); got != -1 {
		t.Errorf("infinite Length() = %d, want -1", got)
	}

	w.SetDuration(0.5)
	if got := w.Length(); got != 50 {
		t.Errorf("Length() = %d, want 50", got)
	}

	// Played through a node the waveform produces exactly its
	// duration and then completes.
	n := w.CreateNode()
	buf := make([]float32, 64)
	if got := n.Read(buf, 64); got != 50 {
		t.Fatalf("Read() = %d, want 50", got)
	}
	if got := n.Read(buf, 64); got != 0 {
		t.Fatalf("Read() past duration = %d, want 0", got)
	}
	if !n.Completed() {
		t.Error("Completed() = false past duration")
	}
	if got := n.Elapsed(); got != 0.5 {
		t.Errorf("Elapsed() = %v, want 0.5", got)
	}
}

func TestWaveformVolumeOnNode(t *testing.T) {
	t.Parallel()

	w, _ := NewWaveform(1, 100, ShapeNaiveSquare, 25)
	w.SetVolume(0.25)
	n := w.CreateNode()
	if got := n.Gain(); got != 0.25 {
		t.Errorf("node gain = %v, want 0.25", got)
	}
	buf := make([]float32, 4)
	n.Read(buf, 4)
	if buf[0] != 0.25 {
		t.Errorf("scaled sample = %v, want 0.25", buf[0])
	}

	// Volume clamps to [0,1].
	w.SetVolume(3)
	if got := w.Volume(); got != 1 {
		t.Errorf("Volume() = %v, want 1", got)
	}
	w.SetVolume(-1)
	if got := w.Volume(); got != 0 {
		t.Errorf("Volume() = %v, want 0", got)
	}
}

func TestWaveformBandLimitedBounds(t *testing.T) {
	t.Parallel()

	// The corrected shapes stay in a sane range over a full cycle at
	// an awkward frequency.
	shapes := []Shape{ShapePolySquare, ShapePolySawtooth, ShapePolyTriangle, ShapeBlitTrain}
	for _, shape := range shapes {
		w, err := NewWaveform(1, 48000, shape, 441)
		if err != nil {
			t.Fatalf("NewWaveform(%v) error: %v", shape, err)
		}
		buf := make([]float32, 4096)
		w.Generate(buf, 4096, 0, 0)
		for n, v := range buf {
			if math.IsNaN(float64(v)) || v > 2 || v < -2 {
				t.Fatalf("shape %v sample %d = %v out of range", shape, n, v)
			}
		}
	}
}
