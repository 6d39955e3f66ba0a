// scsctl talks to SCS servos on a serial bus: scan the ID space, read
// and write registers, change a device ID, and dump the register table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	scservo "github.com/ciniml/scs-servo-go"
	"github.com/ciniml/scs-servo-go/logger"
	"github.com/ciniml/scs-servo-go/transports"
)

const usage = `usage: scsctl <command> [flags]

commands:
  scan        probe device IDs 1-253 and list the ones that answer
  read        read registers: -id -addr -len
  write       write registers: -id -addr -data "xx xx ..."
  change-id   move a device to a new ID: -old -new
  dump        dump the SCS0009 register table of a device: -id [-out file]

common flags:
  -config path   TOML config file (port, baud, echo, ...)
  -port path     serial port (e.g. /dev/ttyUSB0)
  -baud n        baud rate (default 1000000)
  -echo          the serial adapter echoes back sent data
  -no-ack        devices have replies disabled; don't await write acks
  -timeout d     per-exchange deadline (e.g. 100ms)
  -v             debug logging
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "scan":
		err = runScan(args)
	case "read":
		err = runRead(args)
	case "write":
		err = runWrite(args)
	case "change-id":
		err = runChangeID(args)
	case "dump":
		err = runDump(args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usage)
	default:
		fmt.Fprintf(os.Stderr, "scsctl: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "scsctl: %v\n", err)
		os.Exit(1)
	}
}

// busFlags carries the flags shared by every subcommand.
type busFlags struct {
	fs *flag.FlagSet

	configPath string
	port       string
	baud       int
	echo       bool
	noAck      bool
	timeout    string
	verbose    bool
}

func newBusFlags(name string) *busFlags {
	f := &busFlags{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	f.fs.StringVar(&f.configPath, "config", "", "TOML config file")
	f.fs.StringVar(&f.port, "port", "", "serial port path")
	f.fs.IntVar(&f.baud, "baud", 0, "baud rate")
	f.fs.BoolVar(&f.echo, "echo", false, "serial adapter echoes back sent data")
	f.fs.BoolVar(&f.noAck, "no-ack", false, "don't await write acknowledgements")
	f.fs.StringVar(&f.timeout, "timeout", "", "per-exchange deadline")
	f.fs.BoolVar(&f.verbose, "v", false, "debug logging")
	return f
}

// settings merges the config file with explicitly set flags; flags win.
func (f *busFlags) settings() (Settings, error) {
	s := defaultSettings()

	if f.configPath != "" {
		loaded, err := loadSettings(f.configPath)
		if err != nil {
			return Settings{}, err
		}
		s = loaded
	}

	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			s.Port = f.port
		case "baud":
			s.Baud = f.baud
		case "echo":
			s.Echo = f.echo
		case "no-ack":
			s.NoWriteAck = f.noAck
		case "timeout":
			d, perr := parseDuration(f.timeout)
			if perr != nil {
				err = perr
				return
			}
			s.Timeout = d
		}
	})
	if err != nil {
		return Settings{}, err
	}

	if s.Port == "" {
		return Settings{}, fmt.Errorf("no serial port given (use -port or a config file)")
	}
	return s, nil
}

func (f *busFlags) logger() logger.Logger {
	level := logger.InfoLevel
	if f.verbose {
		level = logger.DebugLevel
	}
	return logger.NewSlog(level, false)
}

// openMaster opens the serial port and binds a master to it.
func openMaster(s Settings, log logger.Logger) (*scservo.Master, *transports.SerialTransport, error) {
	t, err := transports.OpenSerial(transports.SerialConfig{
		Port:     s.Port,
		BaudRate: s.Baud,
	})
	if err != nil {
		return nil, nil, err
	}

	m := scservo.NewMaster(t, scservo.Config{
		EchoBack:     s.Echo,
		NoWriteAck:   s.NoWriteAck,
		Timeout:      s.Timeout,
		EchoTimeout:  s.EchoTimeout,
		ProbeTimeout: s.ProbeTimeout,
		Logger:       log,
	})
	return m, t, nil
}

func runScan(args []string) error {
	f := newBusFlags("scan")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	s, err := f.settings()
	if err != nil {
		return err
	}
	log := f.logger()

	master, t, err := openMaster(s, log)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("scanning", "port", s.Port, "baud", s.Baud, "echo", s.Echo)
	found, err := master.Scan(ctx, func(id byte) {
		fmt.Fprintf(os.Stderr, "\rprobing id %3d/%d", id, scservo.MaxDeviceID)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Println("no devices found")
		return nil
	}
	for _, id := range found {
		fmt.Printf("found device %d\n", id)
	}
	return nil
}

func runRead(args []string) error {
	f := newBusFlags("read")
	id := f.fs.String("id", "", "device id")
	addr := f.fs.String("addr", "", "register address")
	length := f.fs.Int("len", 1, "number of bytes")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	s, err := f.settings()
	if err != nil {
		return err
	}

	devID, err := parseByte("id", *id)
	if err != nil {
		return err
	}
	address, err := parseByte("addr", *addr)
	if err != nil {
		return err
	}

	master, t, err := openMaster(s, f.logger())
	if err != nil {
		return err
	}
	defer t.Close()

	data, err := master.ReadRegister(devID, address, *length)
	if err != nil {
		return err
	}
	fmt.Printf("% X\n", data)
	return nil
}

func runWrite(args []string) error {
	f := newBusFlags("write")
	id := f.fs.String("id", "", "device id")
	addr := f.fs.String("addr", "", "register address")
	data := f.fs.String("data", "", "bytes to write, e.g. \"0x00 0x08\"")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	s, err := f.settings()
	if err != nil {
		return err
	}

	devID, err := parseByte("id", *id)
	if err != nil {
		return err
	}
	address, err := parseByte("addr", *addr)
	if err != nil {
		return err
	}
	payload, err := parseBytes(*data)
	if err != nil {
		return err
	}

	master, t, err := openMaster(s, f.logger())
	if err != nil {
		return err
	}
	defer t.Close()

	return master.WriteRegister(devID, address, payload)
}

func runChangeID(args []string) error {
	f := newBusFlags("change-id")
	oldID := f.fs.String("old", "", "current device id")
	newID := f.fs.String("new", "", "new device id")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	s, err := f.settings()
	if err != nil {
		return err
	}

	from, err := parseByte("old", *oldID)
	if err != nil {
		return err
	}
	to, err := parseByte("new", *newID)
	if err != nil {
		return err
	}

	log := f.logger()
	master, t, err := openMaster(s, log)
	if err != nil {
		return err
	}
	defer t.Close()

	// The ID register lives in EEPROM, so the sequence is
	// unlock, rewrite, lock.
	if err := master.UnlockEEPROM(from); err != nil {
		return fmt.Errorf("unlocking EEPROM: %w", err)
	}
	if err := master.ChangeID(from, to); err != nil {
		return fmt.Errorf("updating ID register: %w", err)
	}
	if err := master.LockEEPROM(to); err != nil {
		return fmt.Errorf("locking EEPROM: %w", err)
	}

	log.Info("device id changed", "old", from, "new", to)
	return nil
}

func runDump(args []string) error {
	f := newBusFlags("dump")
	id := f.fs.String("id", "", "device id")
	out := f.fs.String("out", "-", "output file, - for stdout")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	s, err := f.settings()
	if err != nil {
		return err
	}

	devID, err := parseByte("id", *id)
	if err != nil {
		return err
	}

	master, t, err := openMaster(s, f.logger())
	if err != nil {
		return err
	}
	defer t.Close()

	w := os.Stdout
	if *out != "-" {
		file, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	for _, reg := range scservo.Registers {
		if !reg.Readable {
			continue
		}
		data, err := master.ReadRegister(devID, reg.Address, 1)
		if err != nil {
			return fmt.Errorf("reading %s (0x%02X): %w", reg.Name, reg.Address, err)
		}
		fmt.Fprintf(w, "0x%02X %-24s = 0x%02X (%s)\n", reg.Address, reg.Name, data[0], reg.Storage)
	}
	return nil
}

func parseByte(name, value string) (byte, error) {
	if value == "" {
		return 0, fmt.Errorf("flag -%s is required", name)
	}
	v, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("flag -%s: %v", name, err)
	}
	return byte(v), nil
}

func parseBytes(value string) ([]byte, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("flag -data is required")
	}
	data := make([]byte, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseUint(field, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("flag -data: %q: %v", field, err)
		}
		data[i] = byte(v)
	}
	return data, nil
}
