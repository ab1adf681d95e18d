package messaging

import "errors"

var (
	// ErrPublishFailure wraps any transport error raised while publishing.
	ErrPublishFailure = errors.New("event publish failed")
	// ErrDecodeFailure marks a stream entry whose payload could not be decoded.
	ErrDecodeFailure = errors.New("event decode failed")
	// ErrTransportUnavailable is returned when the subscription cannot be
	// established. The consumer cannot run without it.
	ErrTransportUnavailable = errors.New("event transport unavailable")
)
