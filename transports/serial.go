// Package transports provides the bundled realizations of
// scservo.Transport: a blocking native serial port, a non-blocking
// event-fed stream, and in-memory test doubles.
package transports

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	scservo "github.com/ciniml/scs-servo-go"
)

// SerialTransport is the blocking realization of scservo.Transport over
// a native serial port. The calling goroutine is suspended inside each
// read until bytes arrive or the deadline elapses.
type SerialTransport struct {
	port     serial.Port
	portName string
}

// SerialConfig holds configuration for opening a serial port.
type SerialConfig struct {
	Port     string
	BaudRate int // default 1000000
}

// OpenSerial opens a serial port with the given configuration.
func OpenSerial(cfg SerialConfig) (*SerialTransport, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port path is required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 1000000
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	return &SerialTransport{port: port, portName: cfg.Port}, nil
}

// Write sends p fully and drains the OS transmit buffer before
// returning.
func (t *SerialTransport) Write(p []byte) error {
	total := 0
	for total < len(p) {
		n, err := t.port.Write(p[total:])
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("serial write stalled")
		}
		total += n
	}
	return t.port.Drain()
}

// ReadExact fills p or reports scservo.ErrTimeout once deadline passes.
// The port read timeout is re-armed with the remaining budget on every
// iteration so a trickle of bytes cannot extend the wait.
func (t *SerialTransport) ReadExact(p []byte, deadline time.Time) error {
	total := 0
	for total < len(p) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if total == 0 {
				return fmt.Errorf("%w: no data", scservo.ErrTimeout)
			}
			return fmt.Errorf("%w: read %d of %d expected bytes", scservo.ErrTimeout, total, len(p))
		}
		if remaining < time.Millisecond {
			remaining = time.Millisecond
		}
		if err := t.port.SetReadTimeout(remaining); err != nil {
			return err
		}

		n, err := t.port.Read(p[total:])
		if err != nil {
			return err
		}
		// n == 0 means the port timed out; the loop re-checks the
		// deadline and either retries or gives up.
		total += n
	}
	return nil
}

// Discard drains and drops input for roughly d. d <= 0 drops only what
// the driver has already buffered.
func (t *SerialTransport) Discard(d time.Duration) int {
	buf := make([]byte, 256)
	dropped := 0
	deadline := time.Now().Add(d)

	for {
		wait := time.Until(deadline)
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		if t.port.SetReadTimeout(wait) != nil {
			return dropped
		}
		n, err := t.port.Read(buf)
		dropped += n
		if err != nil || n == 0 {
			return dropped
		}
		if !time.Now().Before(deadline) {
			return dropped
		}
	}
}

// Close closes the underlying port.
func (t *SerialTransport) Close() error {
	return t.port.Close()
}

// PortName returns the serial port name.
func (t *SerialTransport) PortName() string {
	return t.portName
}
