package transports

import (
	"fmt"
	"time"

	scservo "github.com/ciniml/scs-servo-go"
)

// SimServo is one simulated device on a SimBus.
type SimServo struct {
	// Registers is the device register file, indexed by address.
	Registers [256]byte

	// Status is reported in every reply's status slot.
	Status scservo.StatusError

	// Mute suppresses replies while still executing commands, like a
	// device with its response level cleared.
	Mute bool

	// CorruptReplies flips the checksum of every reply, simulating a
	// noisy line.
	CorruptReplies bool
}

// SimBus simulates a shared servo bus: command frames written to the
// transport are parsed and answered out of in-memory register files.
// With Echo set the bus reflects the master's own bytes ahead of the
// genuine reply, the way half-duplex wiring does.
//
// SimBus is not safe for concurrent use, matching the one-exchange-at-
// a-time bus contract.
type SimBus struct {
	Echo    bool
	Devices map[byte]*SimServo

	pending []byte
}

// NewSimBus creates an empty simulated bus.
func NewSimBus(echo bool) *SimBus {
	return &SimBus{
		Echo:    echo,
		Devices: make(map[byte]*SimServo),
	}
}

// AddDevice registers a servo at id and returns it for register setup.
func (b *SimBus) AddDevice(id byte) *SimServo {
	s := &SimServo{}
	s.Registers[scservo.RegID.Address] = id
	b.Devices[id] = s
	return s
}

// Write parses one command frame and queues the device's reply.
// Garbage and frames for absent devices draw no reply, like a real bus.
func (b *SimBus) Write(p []byte) error {
	if b.Echo {
		b.pending = append(b.pending, p...)
	}

	frame, err := scservo.Decode(p)
	if err != nil {
		return nil
	}
	dev, ok := b.Devices[frame.ID]
	if !ok {
		return nil
	}

	switch frame.Instruction {
	case scservo.InstPing:
		b.reply(dev, frame.ID, nil)
	case scservo.InstRead:
		if len(frame.Params) != 2 {
			return nil
		}
		addr, n := int(frame.Params[0]), int(frame.Params[1])
		data := make([]byte, n)
		for i := range data {
			data[i] = dev.Registers[(addr+i)%256]
		}
		b.reply(dev, frame.ID, data)
	case scservo.InstWrite:
		if len(frame.Params) < 1 {
			return nil
		}
		addr := int(frame.Params[0])
		for i, v := range frame.Params[1:] {
			dev.Registers[(addr+i)%256] = v
		}
		b.reply(dev, frame.ID, nil)
	}
	return nil
}

// reply queues a status frame unless the device is muted. Muted devices
// still execute commands; they just never answer.
func (b *SimBus) reply(dev *SimServo, id byte, data []byte) {
	if dev.Mute {
		return
	}
	pkt := scservo.Encode(id, byte(dev.Status), data)
	if dev.CorruptReplies {
		pkt[len(pkt)-1] ^= 0xFF
	}
	b.pending = append(b.pending, pkt...)
}

// ReadExact serves queued bytes; exhausting them reports a timeout, the
// bus-level equivalent of waiting out the deadline in silence.
func (b *SimBus) ReadExact(p []byte, deadline time.Time) error {
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	if n < len(p) {
		return fmt.Errorf("%w: read %d of %d expected bytes", scservo.ErrTimeout, n, len(p))
	}
	return nil
}

// Discard drops everything queued.
func (b *SimBus) Discard(d time.Duration) int {
	n := len(b.pending)
	b.pending = nil
	return n
}

func (b *SimBus) Close() error {
	return nil
}
