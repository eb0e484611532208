// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWave           = errors.New("not a RIFF/WAVE file")
	ErrUnsupportedLayout = errors.New("unsupported WAVE chunk layout")
	ErrUnsupportedCodec  = errors.New("unsupported WAVE codec")
	ErrBadBitDepth       = errors.New("unsupported bit depth for codec")
	ErrBadChannels       = errors.New("unsupported channel count")
	ErrMP3Payload        = errors.New("MPEG layer 3 data is not supported in WAVE files")
	ErrADPCMCoefficients = errors.New("unknown set of MS ADPCM coefficients")
	ErrCorrupt           = errors.New("corrupt WAVE data")
)
