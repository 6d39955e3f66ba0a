package transports

import (
	"fmt"
	"sync"
	"time"

	scservo "github.com/ciniml/scs-servo-go"
)

// StreamTransport is the non-blocking realization of scservo.Transport
// for event-driven byte sources such as a browser-mediated serial port:
// an external event source delivers chunks with Feed whenever they
// arrive, and outgoing bytes go through a caller-supplied write
// function.
//
// ReadExact races the incoming chunk channel against a timer; whichever
// finishes first wins and the loser's effect is discarded without
// corrupting stream state. A chunk that arrives after a timeout stays
// queued for the next read.
type StreamTransport struct {
	writeFn  func(p []byte) error
	incoming chan []byte
	pending  []byte

	closed    chan struct{}
	closeOnce sync.Once
}

// NewStream wraps a write function and returns a transport fed by Feed.
func NewStream(write func(p []byte) error) *StreamTransport {
	return &StreamTransport{
		writeFn:  write,
		incoming: make(chan []byte, 16),
		closed:   make(chan struct{}),
	}
}

// Feed delivers one chunk from the event source. The chunk is copied,
// so the caller may reuse its buffer. Feed returns immediately once the
// chunk is queued or the transport is closed.
func (t *StreamTransport) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	c := make([]byte, len(chunk))
	copy(c, chunk)

	select {
	case t.incoming <- c:
	case <-t.closed:
	}
}

// Write hands p to the write function. The function is expected to
// flush fully before returning, matching the Transport contract.
func (t *StreamTransport) Write(p []byte) error {
	select {
	case <-t.closed:
		return scservo.ErrClosed
	default:
	}
	return t.writeFn(p)
}

// ReadExact fills p from buffered and incoming chunks or reports
// scservo.ErrTimeout once deadline passes. Bytes consumed from a chunk
// before a timeout stay consumed; the unconsumed remainder stays
// buffered.
func (t *StreamTransport) ReadExact(p []byte, deadline time.Time) error {
	total := 0
	for {
		n := copy(p[total:], t.pending)
		t.pending = t.pending[n:]
		total += n
		if total == len(p) {
			return nil
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			return t.timeoutErr(total, len(p))
		}

		timer := time.NewTimer(wait)
		select {
		case chunk := <-t.incoming:
			timer.Stop()
			t.pending = append(t.pending, chunk...)
		case <-timer.C:
			return t.timeoutErr(total, len(p))
		case <-t.closed:
			timer.Stop()
			return scservo.ErrClosed
		}
	}
}

// Discard drops buffered bytes plus whatever arrives within d and
// returns the count. d <= 0 drops only what is already queued.
func (t *StreamTransport) Discard(d time.Duration) int {
	dropped := len(t.pending)
	t.pending = nil
	deadline := time.Now().Add(d)

	for {
		wait := time.Until(deadline)
		if wait <= 0 {
			select {
			case chunk := <-t.incoming:
				dropped += len(chunk)
				continue
			default:
				return dropped
			}
		}

		timer := time.NewTimer(wait)
		select {
		case chunk := <-t.incoming:
			timer.Stop()
			dropped += len(chunk)
		case <-timer.C:
			return dropped
		case <-t.closed:
			timer.Stop()
			return dropped
		}
	}
}

// Close wakes any pending read and rejects further calls.
func (t *StreamTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
	})
	return nil
}

func (t *StreamTransport) timeoutErr(got, want int) error {
	if got == 0 {
		return fmt.Errorf("%w: no data", scservo.ErrTimeout)
	}
	return fmt.Errorf("%w: read %d of %d expected bytes", scservo.ErrTimeout, got, want)
}
