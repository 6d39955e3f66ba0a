package transports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scservo "github.com/ciniml/scs-servo-go"
)

func TestStreamWrite(t *testing.T) {
	var written []byte
	s := NewStream(func(p []byte) error {
		written = append(written, p...)
		return nil
	})
	defer s.Close()

	require.NoError(t, s.Write([]byte{0xFF, 0xFF, 0x01}))
	assert.Equal(t, []byte{0xFF, 0xFF, 0x01}, written)
}

func TestStreamReadAcrossChunks(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })
	defer s.Close()

	s.Feed([]byte{0x01, 0x02})
	s.Feed([]byte{0x03})
	s.Feed([]byte{0x04, 0x05})

	buf := make([]byte, 4)
	require.NoError(t, s.ReadExact(buf, time.Now().Add(50*time.Millisecond)))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)

	// The unconsumed tail of the last chunk stays buffered.
	buf = make([]byte, 1)
	require.NoError(t, s.ReadExact(buf, time.Now().Add(50*time.Millisecond)))
	assert.Equal(t, []byte{0x05}, buf)
}

func TestStreamReadWhileFeeding(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })
	defer s.Close()

	go func() {
		time.Sleep(5 * time.Millisecond)
		s.Feed([]byte{0xAA, 0xBB})
		time.Sleep(5 * time.Millisecond)
		s.Feed([]byte{0xCC})
	}()

	buf := make([]byte, 3)
	require.NoError(t, s.ReadExact(buf, time.Now().Add(time.Second)))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, buf)
}

func TestStreamReadTimeout(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })
	defer s.Close()

	timeout := 30 * time.Millisecond
	start := time.Now()
	err := s.ReadExact(make([]byte, 4), time.Now().Add(timeout))
	elapsed := time.Since(start)

	require.ErrorIs(t, err, scservo.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

// A chunk arriving after a timed-out read must not be lost: it serves
// the next read.
func TestStreamLateChunkServesNextRead(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })
	defer s.Close()

	err := s.ReadExact(make([]byte, 2), time.Now().Add(5*time.Millisecond))
	require.ErrorIs(t, err, scservo.ErrTimeout)

	s.Feed([]byte{0x10, 0x20})

	buf := make([]byte, 2)
	require.NoError(t, s.ReadExact(buf, time.Now().Add(50*time.Millisecond)))
	assert.Equal(t, []byte{0x10, 0x20}, buf)
}

func TestStreamDiscard(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })
	defer s.Close()

	s.Feed([]byte{0x01, 0x02, 0x03})
	s.Feed([]byte{0x04, 0x05})

	assert.Equal(t, 5, s.Discard(0))
	assert.Equal(t, 0, s.Discard(0))

	// Bytes fed during the discard window are dropped too.
	go func() {
		time.Sleep(5 * time.Millisecond)
		s.Feed([]byte{0x06})
	}()
	assert.Equal(t, 1, s.Discard(50*time.Millisecond))
}

func TestStreamClose(t *testing.T) {
	s := NewStream(func([]byte) error { return nil })

	done := make(chan error, 1)
	go func() {
		done <- s.ReadExact(make([]byte, 4), time.Now().Add(time.Minute))
	}()

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, scservo.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not wake the pending read")
	}

	assert.ErrorIs(t, s.Write([]byte{0x01}), scservo.ErrClosed)
	require.NoError(t, s.Close(), "closing twice is fine")
}
