package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scsctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	path := writeConfig(t, `
port = "/dev/ttyUSB0"
baud = 500000
echo = true
no_write_ack = true
timeout = "100ms"
echo_timeout = "10ms"
probe_timeout = "5ms"
`)

	s, err := loadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", s.Port)
	assert.Equal(t, 500000, s.Baud)
	assert.True(t, s.Echo)
	assert.True(t, s.NoWriteAck)
	assert.Equal(t, 100*time.Millisecond, s.Timeout)
	assert.Equal(t, 10*time.Millisecond, s.EchoTimeout)
	assert.Equal(t, 5*time.Millisecond, s.ProbeTimeout)
}

func TestLoadSettingsPartial(t *testing.T) {
	path := writeConfig(t, `port = "/dev/ttyACM1"`)

	s, err := loadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", s.Port)
	assert.Equal(t, 1000000, s.Baud, "omitted baud keeps the default")
	assert.False(t, s.Echo)
	assert.False(t, s.NoWriteAck)
	assert.Zero(t, s.Timeout, "omitted timeouts defer to library defaults")
}

func TestLoadSettingsBadDuration(t *testing.T) {
	path := writeConfig(t, `timeout = "fast"`)

	_, err := loadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoadSettingsNegativeDuration(t *testing.T) {
	path := writeConfig(t, `probe_timeout = "-5ms"`)

	_, err := loadSettings(path)
	require.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestParseByte(t *testing.T) {
	v, err := parseByte("id", "7")
	require.NoError(t, err)
	assert.Equal(t, byte(7), v)

	v, err = parseByte("addr", "0x2A")
	require.NoError(t, err)
	assert.Equal(t, byte(0x2A), v)

	_, err = parseByte("id", "")
	require.Error(t, err)
	_, err = parseByte("id", "300")
	require.Error(t, err)
}

func TestParseBytes(t *testing.T) {
	data, err := parseBytes("0x00 0x08 16")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x08, 0x10}, data)

	_, err = parseBytes("")
	require.Error(t, err)
	_, err = parseBytes("0x00 nope")
	require.Error(t, err)
}
