package scservo

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode_Ping(t *testing.T) {
	// Ping servo ID 1: FF FF 01 02 01 FB
	// Checksum = ~(01 + 02 + 01) = ~04 = FB
	packet := Encode(0x01, InstPing, nil)
	expected := []byte{0xFF, 0xFF, 0x01, 0x02, 0x01, 0xFB}

	if !bytes.Equal(packet, expected) {
		t.Errorf("Encode ping: got %X, want %X", packet, expected)
	}
}

func TestEncode_Read(t *testing.T) {
	// Read 2 bytes from address 0x38 on servo ID 1:
	// FF FF 01 04 02 38 02 BE
	packet := Encode(0x01, InstRead, []byte{0x38, 0x02})
	expected := []byte{0xFF, 0xFF, 0x01, 0x04, 0x02, 0x38, 0x02, 0xBE}

	if !bytes.Equal(packet, expected) {
		t.Errorf("Encode read: got %X, want %X", packet, expected)
	}
}

func TestEncode_Write(t *testing.T) {
	// Write 0x02 to the ID register (0x05) on servo ID 1:
	// FF FF 01 04 03 05 02 F0
	packet := Encode(0x01, InstWrite, []byte{0x05, 0x02})
	expected := []byte{0xFF, 0xFF, 0x01, 0x04, 0x03, 0x05, 0x02, 0xF0}

	if !bytes.Equal(packet, expected) {
		t.Errorf("Encode write: got %X, want %X", packet, expected)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a := Encode(0x05, InstRead, []byte{0x2A, 0x04})
	b := Encode(0x05, InstRead, []byte{0x2A, 0x04})

	if !bytes.Equal(a, b) {
		t.Errorf("Encode not deterministic: %X vs %X", a, b)
	}
}

func TestDecode_PingReply(t *testing.T) {
	// Reply to ping: FF FF 01 02 00 FC
	frame, err := Decode([]byte{0xFF, 0xFF, 0x01, 0x02, 0x00, 0xFC})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if frame.ID != 0x01 {
		t.Errorf("ID: got %d, want 1", frame.ID)
	}
	if frame.Status().HasError() {
		t.Errorf("Status: got %v, want no error", frame.Status())
	}
	if len(frame.Params) != 0 {
		t.Errorf("Params: got %d bytes, want 0", len(frame.Params))
	}
}

func TestDecode_WithParams(t *testing.T) {
	// Reply carrying two data bytes: FF FF 01 04 00 18 05 DD
	frame, err := Decode([]byte{0xFF, 0xFF, 0x01, 0x04, 0x00, 0x18, 0x05, 0xDD})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if frame.ID != 0x01 {
		t.Errorf("ID: got %d, want 1", frame.ID)
	}
	if !bytes.Equal(frame.Params, []byte{0x18, 0x05}) {
		t.Errorf("Params: got %X, want [18 05]", frame.Params)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		id          byte
		instruction byte
		params      []byte
	}{
		{0x01, InstPing, nil},
		{0x01, InstRead, []byte{0x38, 0x02}},
		{0xFD, InstWrite, []byte{0x2A, 0x00, 0x08}},
		{0x7F, InstWrite, bytes.Repeat([]byte{0x55}, MaxWriteLength+1)},
	}

	for _, tt := range tests {
		frame, err := Decode(Encode(tt.id, tt.instruction, tt.params))
		if err != nil {
			t.Fatalf("round trip id=%d inst=%d: %v", tt.id, tt.instruction, err)
		}
		if frame.ID != tt.id {
			t.Errorf("ID: got %d, want %d", frame.ID, tt.id)
		}
		if frame.Instruction != tt.instruction {
			t.Errorf("Instruction: got %d, want %d", frame.Instruction, tt.instruction)
		}
		if len(tt.params) == 0 && len(frame.Params) != 0 {
			t.Errorf("Params: got %X, want none", frame.Params)
		}
		if len(tt.params) > 0 && !bytes.Equal(frame.Params, tt.params) {
			t.Errorf("Params: got %X, want %X", frame.Params, tt.params)
		}
	}
}

func TestDecode_TooShort(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFF, 0x01, 0x02, 0xFB})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestDecode_BadSync(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0x00, 0x01, 0x02, 0x00, 0xFC})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	// Valid ping reply with the checksum byte zeroed.
	_, err := Decode([]byte{0xFF, 0xFF, 0x01, 0x02, 0x00, 0x00})
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("got %v, want ErrChecksumMismatch", err)
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	// Length byte claims 5 data bytes but the frame carries 3; the
	// checksum is consistent so the length check is what fires.
	_, err := Decode([]byte{0xFF, 0xFF, 0x01, 0x05, 0x00, 0x22, 0xD7})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("declared too long: got %v, want ErrLengthMismatch", err)
	}

	// Length below the instruction+checksum minimum of 2.
	_, err = Decode([]byte{0xFF, 0xFF, 0x01, 0x01, 0x00, 0xFD})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("declared below minimum: got %v, want ErrLengthMismatch", err)
	}
}

// Flipping any single bit in the checksum-covered region, length byte
// included, must surface as a checksum mismatch rather than a length
// complaint. Flipped sync bytes surface as malformed instead.
func TestDecode_SingleBitCorruption(t *testing.T) {
	valid := Encode(0x01, InstRead, []byte{0x38, 0x02})

	for i := range valid {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(valid))
			copy(corrupted, valid)
			corrupted[i] ^= 1 << bit

			_, err := Decode(corrupted)
			if err == nil {
				t.Fatalf("byte %d bit %d: corruption went undetected", i, bit)
			}

			if i < 2 {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("byte %d bit %d: got %v, want ErrMalformed", i, bit, err)
				}
				continue
			}
			if !errors.Is(err, ErrChecksumMismatch) {
				t.Errorf("byte %d bit %d: got %v, want ErrChecksumMismatch", i, bit, err)
			}
		}
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status   StatusError
		hasError bool
	}{
		{0, false},
		{StatusVoltage, true},
		{StatusOverheat, true},
		{StatusOverload | StatusOverheat, true},
	}

	for _, tt := range tests {
		if tt.status.HasError() != tt.hasError {
			t.Errorf("StatusError(%X).HasError(): got %v, want %v",
				byte(tt.status), tt.status.HasError(), tt.hasError)
		}
	}
}

func TestStatusError_String(t *testing.T) {
	s := (StatusOverheat | StatusOverload).Error()
	if s == "" {
		t.Error("expected non-empty error string")
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []byte{0x00, 0xFE, 0xFF} {
		if err := validateID(id); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("id %d: got %v, want ErrInvalidArgument", id, err)
		}
	}
	for _, id := range []byte{MinDeviceID, 0x7F, MaxDeviceID} {
		if err := validateID(id); err != nil {
			t.Errorf("id %d: got %v, want nil", id, err)
		}
	}
}
