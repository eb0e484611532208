// SPDX-License-Identifier: EPL-2.0

// Package mp3 adapts MP3 streams to the page-oriented decoder
// contract.
//
// Decoding is delegated to github.com/hajimehoshi/go-mp3, which emits
// 16-bit little-endian stereo PCM and supports seeking over the decoded
// stream. This package converts that byte stream to normalized float32
// pages and maps SetPage onto a decoded-byte seek.
//
//	f, _ := os.Open("music.mp3")
//	dec, err := mp3.NewDecoder(f)
//	if err != nil {
//	    // not a playable MP3 file
//	}
//	page := make([]float32, dec.PageSize()*dec.Channels())
//	n := dec.PageIn(page)
package mp3
