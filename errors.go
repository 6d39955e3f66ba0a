package scservo

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds an exchange can end in.
var (
	// ErrTimeout reports that no, or not enough, reply bytes arrived
	// before the deadline. During a scan this is the normal "device
	// absent" signal; on an expected read or write reply it is a real
	// failure.
	ErrTimeout = errors.New("communication timeout")

	// ErrMalformed reports a frame without the sync marker.
	ErrMalformed = errors.New("malformed frame")

	// ErrLengthMismatch reports a declared length that disagrees with
	// the received payload size.
	ErrLengthMismatch = errors.New("frame length mismatch")

	// ErrChecksumMismatch reports a frame whose recomputed checksum
	// disagrees with the received one.
	ErrChecksumMismatch = errors.New("frame checksum mismatch")

	// ErrInvalidArgument reports an ID, address or length outside the
	// allowed range, rejected before any bytes are transmitted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed reports an operation on a closed transport.
	ErrClosed = errors.New("transport is closed")
)

// CommError wraps a transport-level failure. It is fatal to the current
// call and never retried internally.
type CommError struct {
	Op  string // phase that failed, e.g. "write", "read reply header"
	Err error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("communication error during %s: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error {
	return e.Err
}

// DeviceError reports a failure attributed to one device: status flags
// in its reply, an unexpected reply ID, or a wrapped exchange error.
type DeviceError struct {
	ID     byte
	Op     string
	Status StatusError
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("device %d %s failed: %s", e.ID, e.Op, e.Status.Error())
	}
	if e.Err != nil {
		return fmt.Sprintf("device %d %s failed: %v", e.ID, e.Op, e.Err)
	}
	return fmt.Sprintf("device %d %s failed", e.ID, e.Op)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error is a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsFrameError returns true if the error is one of the frame decoding
// failures.
func IsFrameError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrChecksumMismatch)
}
