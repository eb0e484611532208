// SPDX-License-Identifier: EPL-2.0

package sndgraph

import (
	"github.com/ik5/sndgraph/graph"
	"github.com/ik5/sndgraph/utils"
)

// RenderPCM16 drains up to frames frames from a node into 16-bit PCM,
// pulling bufSize frames at a time. A negative frame count drains the
// node until it completes, so it must only be used with finite nodes.
//
// This is a convenience for offline rendering and tests; real-time
// playback pulls the node directly from a device callback.
func RenderPCM16(n graph.Node, frames int64, bufSize int) []int16 {
	if bufSize <= 0 {
		bufSize = graph.DefaultReadSize
	}
	channels := n.Channels()
	buf := make([]float32, bufSize*channels)

	var pcm []int16
	if frames > 0 {
		pcm = make([]int16, 0, frames*int64(channels))
	}

	var done int64
	for frames < 0 || done < frames {
		want := bufSize
		if frames >= 0 && frames-done < int64(bufSize) {
			want = int(frames - done)
		}
		got := n.Read(buf, want)
		if got == 0 {
			break
		}
		for _, v := range buf[:got*channels] {
			pcm = append(pcm, utils.Float32ToInt16(v))
		}
		done += int64(got)
	}
	return pcm
}
