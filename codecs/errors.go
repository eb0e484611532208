// SPDX-License-Identifier: EPL-2.0

package codecs

import "errors"

var (
	ErrUnknownSuffix = errors.New("no decoder registered for suffix")
)
