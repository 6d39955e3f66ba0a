package scservo

// RegisterStorage classifies where a register value lives.
type RegisterStorage int

const (
	StorageEEPROM RegisterStorage = iota
	StorageRAM
)

func (s RegisterStorage) String() string {
	if s == StorageEEPROM {
		return "EEPROM"
	}
	return "RAM"
}

// Register describes one entry of the SCS0009 control table. The table
// is informational: register operations accept any address and the
// master enforces no schema.
type Register struct {
	Name     string
	Address  byte
	Storage  RegisterStorage
	Readable bool
	Writable bool
	Default  int // factory default value, -1 when undefined
}

// SCS0009 control table.
var (
	RegVersionH           = Register{Name: "version_h", Address: 0x03, Storage: StorageEEPROM, Readable: true, Default: -1}
	RegVersionL           = Register{Name: "version_l", Address: 0x04, Storage: StorageEEPROM, Readable: true, Default: -1}
	RegID                 = Register{Name: "id", Address: 0x05, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegBaudRate           = Register{Name: "baud_rate", Address: 0x06, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegResponseTime       = Register{Name: "response_time", Address: 0x07, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegResponseEnable     = Register{Name: "response_enable", Address: 0x08, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x01}
	RegLowerPosLimitH     = Register{Name: "lower_position_limit_h", Address: 0x09, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegLowerPosLimitL     = Register{Name: "lower_position_limit_l", Address: 0x0A, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegUpperPosLimitH     = Register{Name: "upper_position_limit_h", Address: 0x0B, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x03}
	RegUpperPosLimitL     = Register{Name: "upper_position_limit_l", Address: 0x0C, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0xFF}
	RegUpperTempLimit     = Register{Name: "upper_temperature_limit", Address: 0x0D, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x50}
	RegMaxInputVoltage    = Register{Name: "max_input_voltage", Address: 0x0E, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0xFA}
	RegMinInputVoltage    = Register{Name: "min_input_voltage", Address: 0x0F, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x32}
	RegMaxTorqueH         = Register{Name: "max_torque_h", Address: 0x10, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x03}
	RegMaxTorqueL         = Register{Name: "max_torque_l", Address: 0x11, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0xFF}
	RegHighVoltageFlag    = Register{Name: "high_voltage_flag", Address: 0x12, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x00}
	RegAlarmFlag          = Register{Name: "alarm_flag", Address: 0x13, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x25}
	RegLEDAlarmFlag       = Register{Name: "led_alarm_flag", Address: 0x14, Storage: StorageEEPROM, Readable: true, Writable: true, Default: 0x25}
	RegTorqueSwitch       = Register{Name: "torque_switch", Address: 0x28, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x00}
	RegTargetPositionH    = Register{Name: "target_position_h", Address: 0x2A, Storage: StorageRAM, Readable: true, Writable: true, Default: -1}
	RegTargetPositionL    = Register{Name: "target_position_l", Address: 0x2B, Storage: StorageRAM, Readable: true, Writable: true, Default: -1}
	RegTargetPeriodH      = Register{Name: "target_period_h", Address: 0x2C, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x00}
	RegTargetPeriodL      = Register{Name: "target_period_l", Address: 0x2D, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x00}
	RegTargetSpeedH       = Register{Name: "target_speed_h", Address: 0x2E, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x00}
	RegTargetSpeedL       = Register{Name: "target_speed_l", Address: 0x2F, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x00}
	RegEEPROMLock         = Register{Name: "eeprom_lock", Address: 0x30, Storage: StorageRAM, Readable: true, Writable: true, Default: 0x01}
	RegCurrentPositionH   = Register{Name: "current_position_h", Address: 0x38, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentPositionL   = Register{Name: "current_position_l", Address: 0x39, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentSpeedH      = Register{Name: "current_speed_h", Address: 0x3A, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentSpeedL      = Register{Name: "current_speed_l", Address: 0x3B, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentLoadH       = Register{Name: "current_load_h", Address: 0x3C, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentLoadL       = Register{Name: "current_load_l", Address: 0x3D, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentVoltage     = Register{Name: "current_voltage", Address: 0x3E, Storage: StorageRAM, Readable: true, Default: -1}
	RegCurrentTemperature = Register{Name: "current_temperature", Address: 0x3F, Storage: StorageRAM, Readable: true, Default: -1}
)

// Registers lists the SCS0009 control table in address order.
var Registers = []Register{
	RegVersionH,
	RegVersionL,
	RegID,
	RegBaudRate,
	RegResponseTime,
	RegResponseEnable,
	RegLowerPosLimitH,
	RegLowerPosLimitL,
	RegUpperPosLimitH,
	RegUpperPosLimitL,
	RegUpperTempLimit,
	RegMaxInputVoltage,
	RegMinInputVoltage,
	RegMaxTorqueH,
	RegMaxTorqueL,
	RegHighVoltageFlag,
	RegAlarmFlag,
	RegLEDAlarmFlag,
	RegTorqueSwitch,
	RegTargetPositionH,
	RegTargetPositionL,
	RegTargetPeriodH,
	RegTargetPeriodL,
	RegTargetSpeedH,
	RegTargetSpeedL,
	RegEEPROMLock,
	RegCurrentPositionH,
	RegCurrentPositionL,
	RegCurrentSpeedH,
	RegCurrentSpeedL,
	RegCurrentLoadH,
	RegCurrentLoadL,
	RegCurrentVoltage,
	RegCurrentTemperature,
}
