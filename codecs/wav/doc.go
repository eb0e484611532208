// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files one page at a time.
//
// # Supported Formats
//
//   - Integer PCM, 8/16/32 bit
//   - IEEE 32-bit float
//   - Microsoft ADPCM (adaptive coefficient prediction)
//   - IMA/DVI ADPCM (fixed step-table prediction)
//
// MP3 data embedded in a WAVE container is explicitly rejected; such
// data should live in an MP3 file and go through the mp3 package.
//
// # Paging
//
// Unlike a whole-file loader, this decoder exposes the stream as fixed
// size pages so that large files can be streamed:
//
//	f, _ := os.Open("music.wav")
//	dec, err := wav.NewDecoder(f)
//	if err != nil {
//	    // not a playable WAV file
//	}
//	page := make([]float32, dec.PageSize()*dec.Channels())
//	n := dec.PageIn(page) // one page of interleaved samples
//
// For PCM data a page is 4096 bytes of raw samples. For ADPCM data a
// page is one compressed block, whose frame count comes from the fmt
// chunk.
//
// # Normalization
//
// Integer samples are divided by a fixed power of two per bit depth
// (2^8, 2^16, 2^32), so full-scale input maps to roughly [-0.5, 0.5).
// Both ADPCM variants decode to 16-bit-equivalent samples and share the
// 16-bit divisor.
package wav
