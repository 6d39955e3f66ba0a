package scservo

import "time"

// Transport is the capability set the master needs from a duplex byte
// connection. Two realizations ship with this module: a blocking native
// serial port and a non-blocking event-fed stream (see the transports
// package). Both present the same observable contract: writes flush
// fully, reads return exact byte counts within a bounded wait.
//
// A Transport is owned by the caller; the master borrows it exclusively
// for the duration of one exchange and keeps no reference beyond that.
type Transport interface {
	// Write sends p in full before returning. There is no partial-write
	// ambiguity: a nil return means every byte is on the wire.
	Write(p []byte) error

	// ReadExact fills p completely or returns ErrTimeout once deadline
	// passes. There are no silent short reads; bytes consumed before a
	// timeout stay consumed.
	ReadExact(p []byte, deadline time.Time) error

	// Discard reads and drops whatever arrives within d, returning the
	// number of bytes dropped. d <= 0 drops only what is already
	// buffered.
	Discard(d time.Duration) int

	// Close releases the underlying connection.
	Close() error
}
