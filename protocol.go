// Package scservo implements a bus master for SCS-series smart servo
// actuators sharing one serial line. It covers frame encoding and
// decoding, single request/response exchanges with echo suppression for
// half-duplex wiring, register read/write access and exhaustive ID
// scanning. Transports are pluggable: a blocking native serial port and
// a non-blocking event-fed stream live in the transports package.
package scservo

import (
	"fmt"
	"strings"
)

// Instruction codes understood by SCS servos.
const (
	InstPing  byte = 0x01
	InstRead  byte = 0x02
	InstWrite byte = 0x03
)

// Device ID space. 0 and everything above MaxDeviceID are reserved by
// the protocol and are never addressed or probed.
const (
	MinDeviceID byte = 0x01
	MaxDeviceID byte = 0xFD
)

// Payload limits implied by the one-byte length field.
const (
	// MaxReadLength is the largest register count one read can return.
	MaxReadLength = 253
	// MaxWriteLength is the largest data slice one write can carry.
	MaxWriteLength = 252
)

// Sync marker preceding every frame on the wire.
const (
	syncByte1 = 0xFF
	syncByte2 = 0xFF
)

// Frame layout: sync(2) + id(1) + length(1) + data(length-1) + checksum(1),
// where data holds the instruction (or, in a reply, the status byte)
// followed by the parameters and length counts data plus checksum.
const (
	minFrameLen    = 6
	replyHeaderLen = 4 // sync(2) + id(1) + length(1)
)

// StatusError holds the error flags a servo reports in its reply.
type StatusError byte

const (
	StatusVoltage     StatusError = 1 << 0
	StatusAngleLimit  StatusError = 1 << 1
	StatusOverheat    StatusError = 1 << 2
	StatusRange       StatusError = 1 << 3
	StatusChecksum    StatusError = 1 << 4
	StatusOverload    StatusError = 1 << 5
	StatusInstruction StatusError = 1 << 6
)

func (e StatusError) Error() string {
	if e == 0 {
		return "no error"
	}

	var msgs []string
	if e&StatusVoltage != 0 {
		msgs = append(msgs, "voltage")
	}
	if e&StatusAngleLimit != 0 {
		msgs = append(msgs, "angle limit")
	}
	if e&StatusOverheat != 0 {
		msgs = append(msgs, "overheat")
	}
	if e&StatusRange != 0 {
		msgs = append(msgs, "range")
	}
	if e&StatusChecksum != 0 {
		msgs = append(msgs, "checksum")
	}
	if e&StatusOverload != 0 {
		msgs = append(msgs, "overload")
	}
	if e&StatusInstruction != 0 {
		msgs = append(msgs, "instruction")
	}

	return fmt.Sprintf("servo status error: %s", strings.Join(msgs, ", "))
}

// HasError returns true if any status flag is set.
func (e StatusError) HasError() bool {
	return e != 0
}

// Frame is one decoded bus frame. A command carries the instruction code
// in Instruction; a reply carries the device status byte in the same
// position.
type Frame struct {
	ID          byte
	Instruction byte
	Params      []byte
}

// Status interprets the instruction slot of a reply frame.
func (f Frame) Status() StatusError {
	return StatusError(f.Instruction)
}

// Encode builds the wire form of a frame. It is pure: the same inputs
// always produce the same bytes.
func Encode(id, instruction byte, params []byte) []byte {
	length := byte(len(params) + 2) // instruction + params + checksum

	buf := make([]byte, 0, minFrameLen+len(params))
	buf = append(buf, syncByte1, syncByte2, id, length, instruction)
	buf = append(buf, params...)
	buf = append(buf, checksum(buf[2:]))

	return buf
}

// checksum sums the frame body from the ID onward and complements it.
func checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	return ^sum
}

// Decode parses one complete wire frame. The sync marker must be first;
// the checksum is verified before the declared length is compared with
// the received payload size, so any corruption inside the covered
// region surfaces as ErrChecksumMismatch.
func Decode(data []byte) (Frame, error) {
	if len(data) < minFrameLen {
		return Frame{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformed, len(data), minFrameLen)
	}
	if data[0] != syncByte1 || data[1] != syncByte2 {
		return Frame{}, fmt.Errorf("%w: frame starts %02X %02X, want FF FF", ErrMalformed, data[0], data[1])
	}

	want := checksum(data[2 : len(data)-1])
	got := data[len(data)-1]
	if want != got {
		return Frame{}, fmt.Errorf("%w: computed 0x%02X, received 0x%02X", ErrChecksumMismatch, want, got)
	}

	length := int(data[3])
	if length < 2 || length != len(data)-replyHeaderLen {
		return Frame{}, fmt.Errorf("%w: declared %d bytes, frame carries %d", ErrLengthMismatch, length, len(data)-replyHeaderLen)
	}

	f := Frame{ID: data[2], Instruction: data[4]}
	if n := length - 2; n > 0 {
		f.Params = make([]byte, n)
		copy(f.Params, data[5:5+n])
	}
	return f, nil
}
