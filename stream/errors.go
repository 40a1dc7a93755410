package stream

import "errors"

var (
	// ErrInvalidConfig reports an unusable stream configuration.
	ErrInvalidConfig = errors.New("stream: invalid configuration")
	// ErrShape reports a sample buffer whose length differs from the stream's.
	ErrShape = errors.New("stream: sample count mismatch")
	// ErrKind reports samples of a different representation kind.
	ErrKind = errors.New("stream: kind mismatch")
)
