package shortid

import "errors"

var (
	// ErrTimeOverflow is returned when the sequence is exhausted and the clock
	// has not moved past the stored timestamp. Retry after a short delay.
	ErrTimeOverflow = errors.New("shortid: sequence exhausted before clock advanced")

	// ErrSystemTime is returned when the wall clock reads before 1970-01-01.
	ErrSystemTime = errors.New("shortid: system time before unix epoch")

	// ErrWorkerIDOverflow is returned when the worker identity space for the
	// requested format is exhausted.
	ErrWorkerIDOverflow = errors.New("shortid: worker id overflow")

	// ErrEpoch is returned when the epoch is inconsistent with the current time.
	ErrEpoch = errors.New("shortid: timestamp before epoch")

	// ErrInvalidLength is returned when decoding input of the wrong size.
	ErrInvalidLength = errors.New("shortid: invalid identifier length")

	// ErrMalformed is returned when a 128-bit input is not a version 1 UUID.
	ErrMalformed = errors.New("shortid: malformed identifier")
)

// Retryable reports whether err is transient.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeOverflow)
}
