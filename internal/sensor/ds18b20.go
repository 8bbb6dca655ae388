package sensor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// W1BaseDir is where the kernel's 1-wire subsystem exposes slave
// devices.
const W1BaseDir = "/sys/bus/w1/devices"

// DS18B20 family prefix in the 1-wire device directory.
const ds18b20Prefix = "28"

const (
	crcRetries    = 5
	crcRetryDelay = 200 * time.Millisecond
)

// ErrNoSensor indicates no DS18B20 was found on the 1-wire bus.
var ErrNoSensor = errors.New("SENSOR_NOT_FOUND")

// DS18B20 reads the waterproof temperature probe through the w1 sysfs
// interface.
type DS18B20 struct {
	devicePath string
}

// FindDS18B20 locates the first DS18B20 under baseDir.
func FindDS18B20(baseDir string) (*DS18B20, error) {
	matches, err := filepath.Glob(filepath.Join(baseDir, ds18b20Prefix+"*"))
	if err != nil || len(matches) == 0 {
		return nil, ErrNoSensor
	}
	return &DS18B20{devicePath: filepath.Join(matches[0], "w1_slave")}, nil
}

// ReadCelsius reads and parses one measurement. The sysfs payload
// carries a CRC verdict on its first line; a bad CRC is retried a few
// times before the read fails.
func (d *DS18B20) ReadCelsius(ctx context.Context) (float64, error) {
	for attempt := 0; ; attempt++ {
		data, err := os.ReadFile(d.devicePath)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", d.devicePath, err)
		}

		c, err := parseW1Payload(data)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, errCRC) || attempt+1 >= crcRetries {
			return 0, err
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(crcRetryDelay):
		}
	}
}

var errCRC = errors.New("CRC_MISMATCH")

// parseW1Payload extracts the temperature from a w1_slave payload:
//
//	53 01 4b 46 7f ff 0c 10 e9 : crc=e9 YES
//	53 01 4b 46 7f ff 0c 10 e9 t=21187
func parseW1Payload(data []byte) (float64, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("malformed w1 payload: %d lines", len(lines))
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, errCRC
	}

	idx := strings.Index(lines[1], "t=")
	if idx < 0 {
		return 0, fmt.Errorf("malformed w1 payload: no temperature field")
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(lines[1][idx+2:]), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed w1 payload: %w", err)
	}
	return milli / 1000.0, nil
}
