// SPDX-License-Identifier: EPL-2.0

/*
Package vorbis provides a page-oriented decoder for Ogg Vorbis files,
built on github.com/jfreymuth/oggvorbis.

Vorbis streams decode straight to normalized float samples, so the
decoder only reframes the reader's output into fixed pages. Pages are
a constant byte size, so the frame count per page depends on the
channel count of the stream.
*/
package vorbis
