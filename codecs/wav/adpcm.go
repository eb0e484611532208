// SPDX-License-Identifier: EPL-2.0

package wav

import "io"

// 16-bit signed sample range used by both ADPCM variants.
const (
	maxSample = 1<<15 - 1
	minSample = -(1 << 15)
)

// norm16 converts a 16-bit-equivalent sample to the normalized float
// range shared with plain 16-bit PCM.
func norm16(v int) float32 {
	return float32(v) / 65536.0
}

// blockDecoder is a proxy that decodes one fixed-size compressed block
// per call.
type blockDecoder interface {
	// frames is the number of frames in a decoded block.
	frames() int
	// read consumes one encoded block from src and unpacks it into dst
	// as normalized interleaved samples. It returns the number of
	// frames decoded, or -1 on a short block read.
	read(src io.Reader, dst []float32) int
}

// msState is the per-channel prediction state for MS ADPCM.
type msState struct {
	predictor int
	delta     int
	samp1     int
	samp2     int
}

// msDecoder implements the Microsoft adaptive-coefficient ADPCM scheme.
// Each block carries a predictor index, an adaptive delta and two seed
// samples per channel; the remaining nibbles are decoded against a
// coefficient pair chosen by the predictor.
type msDecoder struct {
	channels   int
	blockalign int
	nframes    int
	coeff      [7][2]int
	state      [2]msState
	block      []byte
}

// msAdaptive scales the adaptive delta after every nibble.
var msAdaptive = [16]int{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

// newMSDecoder seeds an MS ADPCM proxy from the trailing bytes of the
// fmt chunk: frames per block, coefficient count (must be 7) and the
// coefficient table itself.
func newMSDecoder(format []byte, channels, blockalign int) (*msDecoder, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrBadChannels
	}
	if len(format) < 22+7*4 {
		return nil, ErrCorrupt
	}
	nframes := int(le.Uint16(format[18:20]))
	if int(le.Uint16(format[20:22])) != 7 {
		return nil, ErrADPCMCoefficients
	}

	d := &msDecoder{
		channels:   channels,
		blockalign: blockalign,
		nframes:    nframes,
		block:      make([]byte, blockalign),
	}
	for i := 0; i < 7; i++ {
		d.coeff[i][0] = int(int16(le.Uint16(format[22+4*i:])))
		d.coeff[i][1] = int(int16(le.Uint16(format[24+4*i:])))
	}

	// A block holds a 7-byte header per channel plus two samples per
	// nibble byte, so the post-seed sample count must be even and fit
	// inside the block.
	nibbles := (nframes - 2) * channels
	if nframes < 2 || nibbles%2 != 0 || blockalign < 7*channels+nibbles/2 {
		return nil, ErrCorrupt
	}
	return d, nil
}

func (d *msDecoder) frames() int { return d.nframes }

// nibble decodes a single 4-bit sample, updating the channel state.
func (d *msDecoder) nibble(s *msState, nyb byte, coeff [2]int) int {
	sample := (s.samp1*coeff[0] + s.samp2*coeff[1]) / 256
	if nyb&0x08 != 0 {
		sample += s.delta * (int(nyb) - 0x10)
	} else {
		sample += s.delta * int(nyb)
	}
	if sample > maxSample {
		sample = maxSample
	} else if sample < minSample {
		sample = minSample
	}

	delta := (s.delta * msAdaptive[nyb]) / 256
	if delta < 16 {
		delta = 16
	}
	s.delta = delta
	s.samp2 = s.samp1
	s.samp1 = sample
	return sample
}

func (d *msDecoder) read(src io.Reader, dst []float32) int {
	if _, err := io.ReadFull(src, d.block); err != nil {
		return -1
	}

	stereo := d.channels == 2
	st := [2]*msState{&d.state[0], &d.state[0]}
	if stereo {
		st[1] = &d.state[1]
	}

	// Block header: predictor, delta, and two seed samples per channel.
	enc := d.block
	st[0].predictor = int(enc[0])
	enc = enc[1:]
	if stereo {
		st[1].predictor = int(enc[0])
		enc = enc[1:]
	}
	if st[0].predictor > 6 || st[1].predictor > 6 {
		return -1
	}
	st[0].delta = int(le.Uint16(enc))
	enc = enc[2:]
	if stereo {
		st[1].delta = int(le.Uint16(enc))
		enc = enc[2:]
	}
	st[0].samp1 = int(int16(le.Uint16(enc)))
	enc = enc[2:]
	if stereo {
		st[1].samp1 = int(int16(le.Uint16(enc)))
		enc = enc[2:]
	}
	st[0].samp2 = int(int16(le.Uint16(enc)))
	enc = enc[2:]
	if stereo {
		st[1].samp2 = int(int16(le.Uint16(enc)))
		enc = enc[2:]
	}

	coeff := [2][2]int{d.coeff[st[0].predictor], d.coeff[st[1].predictor]}

	// The seed samples are emitted first, oldest first.
	idx := 0
	dst[idx] = norm16(st[0].samp2)
	idx++
	if stereo {
		dst[idx] = norm16(st[1].samp2)
		idx++
	}
	dst[idx] = norm16(st[0].samp1)
	idx++
	if stereo {
		dst[idx] = norm16(st[1].samp1)
		idx++
	}

	remaining := (d.nframes - 2) * d.channels
	for remaining > 0 {
		b := enc[0]
		enc = enc[1:]
		dst[idx] = norm16(d.nibble(st[0], b>>4, coeff[0]))
		idx++
		dst[idx] = norm16(d.nibble(st[1], b&0x0F, coeff[1]))
		idx++
		remaining -= 2
	}
	return d.nframes
}

// imaState is the per-channel integration state for IMA ADPCM.
type imaState struct {
	sample int
	index  int
}

// imaDecoder implements the IMA (DVI) fixed step-table ADPCM scheme.
// Each block carries one seed sample and a step-table index per
// channel; the nibbles integrate signed deltas into a running sample.
type imaDecoder struct {
	channels   int
	blockalign int
	nframes    int
	state      [2]imaState
	block      []byte
}

var imaIndexTable = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var imaStepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31,
	34, 37, 41, 45, 50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130,
	143, 157, 173, 190, 209, 230, 253, 279, 307, 337, 371, 408,
	449, 494, 544, 598, 658, 724, 796, 876, 963, 1060, 1166, 1282,
	1411, 1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024, 3327,
	3660, 4026, 4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630,
	9493, 10442, 11487, 12635, 13899, 15289, 16818, 18500, 20350,
	22385, 24623, 27086, 29794, 32767,
}

// newIMADecoder seeds an IMA ADPCM proxy from the trailing block-size
// field of the fmt chunk.
func newIMADecoder(format []byte, channels, blockalign int) (*imaDecoder, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrBadChannels
	}
	if len(format) < 20 {
		return nil, ErrCorrupt
	}
	nframes := int(le.Uint16(format[18:20]))

	// A block holds a 4-byte header per channel plus interleaved groups
	// of 4 nibble bytes per channel, 8 samples each.
	if nframes < 1 || (nframes-1)%8 != 0 ||
		blockalign < 4*channels+(nframes-1)*channels/2 {
		return nil, ErrCorrupt
	}

	return &imaDecoder{
		channels:   channels,
		blockalign: blockalign,
		nframes:    nframes,
		block:      make([]byte, blockalign),
	}, nil
}

func (d *imaDecoder) frames() int { return d.nframes }

// nibble integrates a single 4-bit delta, updating the channel state.
func (d *imaDecoder) nibble(s *imaState, nyb byte) int {
	if s.index > 88 {
		s.index = 88
	} else if s.index < 0 {
		s.index = 0
	}

	step := imaStepTable[s.index]
	delta := step >> 3
	if nyb&0x04 != 0 {
		delta += step
	}
	if nyb&0x02 != 0 {
		delta += step >> 1
	}
	if nyb&0x01 != 0 {
		delta += step >> 2
	}
	if nyb&0x08 != 0 {
		delta = -delta
	}
	s.sample += delta

	s.index += imaIndexTable[nyb]

	if s.sample > maxSample {
		s.sample = maxSample
	} else if s.sample < minSample {
		s.sample = minSample
	}
	return s.sample
}

// fill unpacks one 4-byte group (8 samples) for a single channel,
// interleaving into dst starting at off.
func (d *imaDecoder) fill(dst []float32, off int, enc []byte, channel int, s *imaState) {
	pos := off + channel
	for i := 0; i < 4; i++ {
		dst[pos] = norm16(d.nibble(s, enc[i]&0x0F))
		pos += d.channels
		dst[pos] = norm16(d.nibble(s, enc[i]>>4))
		pos += d.channels
	}
}

func (d *imaDecoder) read(src io.Reader, dst []float32) int {
	if _, err := io.ReadFull(src, d.block); err != nil {
		return -1
	}

	// Block header: seed sample, step index, and a reserved byte (zero
	// on well-formed data) per channel. The seeds form the first frame.
	enc := d.block
	for c := 0; c < d.channels; c++ {
		d.state[c].sample = int(int16(le.Uint16(enc)))
		d.state[c].index = int(enc[2])
		enc = enc[4:]
		dst[c] = norm16(d.state[c].sample)
	}

	off := d.channels
	remaining := (d.nframes - 1) * d.channels
	for remaining > 0 {
		for c := 0; c < d.channels; c++ {
			d.fill(dst, off, enc, c, &d.state[c])
			enc = enc[4:]
			remaining -= 8
		}
		off += d.channels * 8
	}
	return d.nframes
}
