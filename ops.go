package scservo

import (
	"fmt"
	"time"
)

// Ping issues the zero-parameter presence probe. A nil return means the
// device answered with a well-formed reply and no status flags set.
func (m *Master) Ping(id byte) error {
	reply, err := m.Exchange(id, InstPing, nil, time.Now().Add(m.cfg.Timeout))
	if err != nil {
		return err
	}
	if reply.ID != id {
		return &DeviceError{ID: id, Op: "ping", Err: fmt.Errorf("reply from id %d", reply.ID)}
	}
	if reply.Status().HasError() {
		return &DeviceError{ID: id, Op: "ping", Status: reply.Status()}
	}
	return nil
}

// ReadRegister reads length bytes starting at address. On success the
// returned slice holds exactly length bytes; any failure yields no
// partial result. Address semantics belong to the caller; no register
// schema is enforced here.
func (m *Master) ReadRegister(id, address byte, length int) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if length < 0 || length > MaxReadLength {
		return nil, fmt.Errorf("%w: read length %d (valid range 0-%d)", ErrInvalidArgument, length, MaxReadLength)
	}

	reply, err := m.Exchange(id, InstRead, []byte{address, byte(length)}, time.Now().Add(m.cfg.Timeout))
	if err != nil {
		return nil, err
	}
	if reply.ID != id {
		return nil, &DeviceError{ID: id, Op: "read", Err: fmt.Errorf("reply from id %d", reply.ID)}
	}
	if reply.Status().HasError() {
		return nil, &DeviceError{ID: id, Op: "read", Status: reply.Status()}
	}
	if len(reply.Params) != length {
		return nil, &DeviceError{ID: id, Op: "read",
			Err: fmt.Errorf("%w: expected %d data bytes, got %d", ErrLengthMismatch, length, len(reply.Params))}
	}
	return reply.Params, nil
}

// WriteRegister writes data starting at address. The acknowledgement is
// awaited unless Config.NoWriteAck is set, in which case the call
// returns once the frame (and its echo, when configured) is handled and
// a silent device is not an error.
func (m *Master) WriteRegister(id, address byte, data []byte) error {
	if err := validateID(id); err != nil {
		return err
	}
	if len(data) > MaxWriteLength {
		return fmt.Errorf("%w: write length %d (valid range 0-%d)", ErrInvalidArgument, len(data), MaxWriteLength)
	}

	params := make([]byte, 1+len(data))
	params[0] = address
	copy(params[1:], data)

	if m.cfg.NoWriteAck {
		return m.send(id, InstWrite, params)
	}

	if err := m.send(id, InstWrite, params); err != nil {
		return err
	}
	reply, err := m.readReply(time.Now().Add(m.cfg.Timeout))
	if err != nil {
		return err
	}
	if reply.ID != id {
		return &DeviceError{ID: id, Op: "write", Err: fmt.Errorf("reply from id %d", reply.ID)}
	}
	if reply.Status().HasError() {
		return &DeviceError{ID: id, Op: "write", Status: reply.Status()}
	}
	return nil
}

// ChangeID rewrites the device ID register: exactly one write to the ID
// register at oldID with newID as payload. No verification read-back is
// performed; a caller wanting confirmation should ReadRegister from
// newID afterward. EEPROM-backed devices must be unlocked first, see
// UnlockEEPROM.
func (m *Master) ChangeID(oldID, newID byte) error {
	if err := validateID(newID); err != nil {
		return err
	}
	return m.WriteRegister(oldID, RegID.Address, []byte{newID})
}

// UnlockEEPROM opens the EEPROM lock register so configuration
// registers such as the device ID accept writes.
func (m *Master) UnlockEEPROM(id byte) error {
	return m.WriteRegister(id, RegEEPROMLock.Address, []byte{0})
}

// LockEEPROM closes the EEPROM lock register again.
func (m *Master) LockEEPROM(id byte) error {
	return m.WriteRegister(id, RegEEPROMLock.Address, []byte{1})
}
