// SPDX-License-Identifier: EPL-2.0

// Package codecs defines the page-oriented decoder contract shared by
// every stored-audio format.
//
// # Decoder Interface
//
// A Decoder turns a seekable byte stream into interleaved float32 PCM,
// one page at a time:
//
//	dec, err := wav.NewDecoder(file)
//	page := make([]float32, dec.PageSize()*dec.Channels())
//	for {
//	    n := dec.PageIn(page)
//	    if n == 0 {
//	        break // end of stream
//	    }
//	    // use page[:n*dec.Channels()]
//	}
//
// SetPage provides random access at page granularity, which is what the
// streaming player uses to seek.
//
// # Sample Format
//
// Decoded samples are float32. Integer sources are normalized by a
// fixed power-of-two divisor per bit depth (8-bit by 2^8, 16-bit by
// 2^16, 32-bit by 2^32); float sources pass through unchanged.
//
// # Registry
//
// The registry maps file suffixes to decoder factories:
//
//	reg := codecs.NewRegistry()
//	reg.Register(".wav", func(r io.ReadSeekCloser) (codecs.Decoder, error) {
//	    return wav.NewDecoder(r)
//	})
//
// # Concurrency
//
// Decoding performs blocking I/O. It belongs on the control thread or a
// dedicated decode worker, never inside a real-time render callback.
package codecs
