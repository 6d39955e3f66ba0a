package scservo

import (
	"errors"
	"fmt"
	"time"

	"github.com/ciniml/scs-servo-go/logger"
)

// Defaults applied by NewMaster for zero Config fields.
const (
	DefaultTimeout      = time.Second
	DefaultEchoTimeout  = 20 * time.Millisecond
	DefaultProbeTimeout = 10 * time.Millisecond
)

// Config carries the per-master options. The zero value is usable: echo
// suppression off, write acks expected, default deadlines, no logging.
type Config struct {
	// EchoBack marks half-duplex wiring that reflects the master's own
	// transmission into its receive path. The reflected bytes are then
	// discarded before each reply is awaited.
	EchoBack bool

	// NoWriteAck marks buses whose devices have replies disabled.
	// WriteRegister then returns once the frame is on the wire instead
	// of awaiting an acknowledgement.
	NoWriteAck bool

	// Timeout bounds one full exchange.
	Timeout time.Duration

	// EchoTimeout bounds the echo discard. Echo bytes missing when it
	// expires are assumed absorbed by line noise; the shortfall is
	// never an error.
	EchoTimeout time.Duration

	// ProbeTimeout bounds each per-ID probe during a scan.
	ProbeTimeout time.Duration

	// Logger receives trace output. Nil discards it.
	Logger logger.Logger
}

// Master drives single request/response exchanges on one transport.
//
// Exactly one exchange may be in flight per transport at any time. The
// bus is single-master and often half-duplex, so overlapping calls are
// a caller error; they are deliberately not serialized with a lock
// here. Retry policy, if any, belongs to the caller as well.
type Master struct {
	transport Transport
	cfg       Config
	log       logger.Logger
}

// NewMaster binds a transport and configuration. The master holds no
// other state; constructing one per call site is cheap.
func NewMaster(t Transport, cfg Config) *Master {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.EchoTimeout == 0 {
		cfg.EchoTimeout = DefaultEchoTimeout
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Master{transport: t, cfg: cfg, log: log}
}

// Exchange performs one request/response round trip: encode, flush
// stale input, send, discard the echo when configured, then read and
// validate the reply before deadline. Terminal outcomes are a parsed
// frame, ErrTimeout, a frame error or a transport error; none is
// retried here.
func (m *Master) Exchange(id, instruction byte, params []byte, deadline time.Time) (Frame, error) {
	if err := validateID(id); err != nil {
		return Frame{}, err
	}

	if err := m.send(id, instruction, params); err != nil {
		return Frame{}, err
	}
	return m.readReply(deadline)
}

// send transmits one command frame and runs the echo discard. It is the
// fire-and-forget half of Exchange, used directly for unacknowledged
// writes.
func (m *Master) send(id, instruction byte, params []byte) error {
	packet := Encode(id, instruction, params)

	if n := m.transport.Discard(0); n > 0 {
		m.log.Debug("discarded stale input", "bytes", n)
	}
	if err := m.transport.Write(packet); err != nil {
		return &CommError{Op: "write", Err: err}
	}
	if m.cfg.EchoBack {
		return m.discardEcho(len(packet))
	}
	return nil
}

// discardEcho reads back the reflected command bytes on half-duplex
// wiring. Echo bytes that never arrive within EchoTimeout are assumed
// absorbed by line noise and the shortfall is silently ignored.
func (m *Master) discardEcho(n int) error {
	buf := make([]byte, n)
	err := m.transport.ReadExact(buf, time.Now().Add(m.cfg.EchoTimeout))
	switch {
	case err == nil:
		m.log.Debug("discarded echo", "bytes", n)
		return nil
	case errors.Is(err, ErrTimeout):
		return nil
	default:
		return &CommError{Op: "echo discard", Err: err}
	}
}

// readReply reads the fixed-size header to learn the declared payload
// length, then exactly that many remaining bytes, every read bounded by
// the same deadline, and validates the assembled frame.
func (m *Master) readReply(deadline time.Time) (Frame, error) {
	header := make([]byte, replyHeaderLen)
	if err := m.readExact(header, deadline, "reply header"); err != nil {
		return Frame{}, err
	}
	if header[0] != syncByte1 || header[1] != syncByte2 {
		return Frame{}, fmt.Errorf("%w: reply starts %02X %02X, want FF FF", ErrMalformed, header[0], header[1])
	}

	rest := make([]byte, int(header[3]))
	if err := m.readExact(rest, deadline, "reply body"); err != nil {
		return Frame{}, err
	}

	return Decode(append(header, rest...))
}

func (m *Master) readExact(p []byte, deadline time.Time, what string) error {
	err := m.transport.ReadExact(p, deadline)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout):
		m.log.Debug("read timed out", "phase", what)
		return err
	default:
		return &CommError{Op: "read " + what, Err: err}
	}
}

func validateID(id byte) error {
	if id < MinDeviceID || id > MaxDeviceID {
		return fmt.Errorf("%w: device id %d (valid range %d-%d)", ErrInvalidArgument, id, MinDeviceID, MaxDeviceID)
	}
	return nil
}
