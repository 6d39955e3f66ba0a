package transports

import (
	"fmt"
	"time"

	scservo "github.com/ciniml/scs-servo-go"
)

// MockTransport implements scservo.Transport for tests with scripted
// reply bytes.
type MockTransport struct {
	// ReadData is consumed by ReadExact; running out produces a
	// timeout.
	ReadData []byte
	ReadErr  error

	// WriteData accumulates everything written; Writes records each
	// Write call separately.
	WriteData []byte
	Writes    [][]byte
	WriteErr  error

	Closed    bool
	Discards  int
	Discarded int
}

func (m *MockTransport) Write(p []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.WriteData = append(m.WriteData, p...)
	m.Writes = append(m.Writes, append([]byte(nil), p...))
	return nil
}

func (m *MockTransport) ReadExact(p []byte, deadline time.Time) error {
	if m.ReadErr != nil {
		return m.ReadErr
	}
	n := copy(p, m.ReadData)
	m.ReadData = m.ReadData[n:]
	if n < len(p) {
		return fmt.Errorf("%w: read %d of %d expected bytes", scservo.ErrTimeout, n, len(p))
	}
	return nil
}

func (m *MockTransport) Discard(d time.Duration) int {
	m.Discards++
	return m.Discarded
}

func (m *MockTransport) Close() error {
	m.Closed = true
	return nil
}
