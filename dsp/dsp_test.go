// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"testing"
)

func TestScale(t *testing.T) {
	t.Parallel()

	buf := []float32{1, -2, 0.5, 0}
	Scale(buf, 0.5)
	want := []float32{0.5, -1, 0.25, 0}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	// Unit gain leaves the buffer untouched.
	Scale(buf, 1)
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("unit gain changed buf[%d] to %v", i, buf[i])
		}
	}
}

func TestAccumulate(t *testing.T) {
	t.Parallel()

	dst := []float32{1, 1, 1}
	Accumulate(dst, []float32{2, -2, 0}, 0.5)
	want := []float32{2, 0, 1}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestLowPassDCGain(t *testing.T) {
	t.Parallel()

	// A DC signal passes a lowpass unchanged once the state settles.
	f := NewLowPass(100, 48000, 1)
	buf := make([]float32, 48000)
	for i := range buf {
		buf[i] = 1
	}
	f.Process(buf)
	if got := buf[len(buf)-1]; math.Abs(float64(got)-1) > 1e-3 {
		t.Errorf("settled DC output = %v, want 1", got)
	}
}

func TestLowPassRejectsNyquist(t *testing.T) {
	t.Parallel()

	// A signal alternating every sample sits at the Nyquist frequency
	// and must be strongly attenuated by a 100 Hz cutoff.
	f := NewLowPass(100, 48000, 1)
	buf := make([]float32, 4096)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = 1
		} else {
			buf[i] = -1
		}
	}
	f.Process(buf)
	var peak float64
	for _, v := range buf[2048:] {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	if peak > 1e-3 {
		t.Errorf("Nyquist leakage peak = %v, want near silence", peak)
	}
}

func TestBiquadReset(t *testing.T) {
	t.Parallel()

	f := NewLowPass(1000, 48000, 1)
	first := []float32{1, 1, 1, 1}
	f.Process(first)

	f.Reset()
	again := []float32{1, 1, 1, 1}
	f.Process(again)
	for i := range first {
		if first[i] != again[i] {
			t.Errorf("sample %d = %v after Reset, want %v", i, again[i], first[i])
		}
	}
}
