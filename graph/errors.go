// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	// ErrChannelMismatch is returned when an attached input does not
	// report the channel count the consumer was configured for.
	ErrChannelMismatch = errors.New("input channel count does not match field size")

	// ErrRateMismatch is returned when an attached input does not
	// report the consumer's sample rate.
	ErrRateMismatch = errors.New("input sample rate does not match")
)
