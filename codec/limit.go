package codec

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned by Limit.Unmarshal when the payload exceeds
// MaxDecode. Check with errors.Is.
var ErrTooLarge = errors.New("codec: payload too large")

// Limit wraps another codec to enforce a maximum allowed payload size at
// Unmarshal time. Marshal is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized/malicious inputs coming from a
// shared store written by other processes.
type Limit struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Unmarshal. If payload length exceeds MaxDecode, Unmarshal
	// returns ErrTooLarge without invoking Inner.
	MaxDecode int
}

var _ Codec = Limit{}

func (c Limit) Marshal(v any) ([]byte, error) { return c.Inner.Marshal(v) }

func (c Limit) Unmarshal(data []byte, v any) error {
	if c.MaxDecode > 0 && len(data) > c.MaxDecode {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, len(data), c.MaxDecode)
	}
	return c.Inner.Unmarshal(data, v)
}
