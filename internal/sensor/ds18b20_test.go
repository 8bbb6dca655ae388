package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const goodPayload = "53 01 4b 46 7f ff 0c 10 e9 : crc=e9 YES\n" +
	"53 01 4b 46 7f ff 0c 10 e9 t=21187\n"

const badCRCPayload = "53 01 4b 46 7f ff 0c 10 e9 : crc=e9 NO\n" +
	"53 01 4b 46 7f ff 0c 10 e9 t=21187\n"

func TestParseW1Payload(t *testing.T) {
	c, err := parseW1Payload([]byte(goodPayload))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c != 21.187 {
		t.Errorf("temperature = %v, want 21.187", c)
	}
}

func TestParseW1PayloadNegative(t *testing.T) {
	payload := "ff fe 4b 46 7f ff 0c 10 a1 : crc=a1 YES\n" +
		"ff fe 4b 46 7f ff 0c 10 a1 t=-1250\n"
	c, err := parseW1Payload([]byte(payload))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c != -1.25 {
		t.Errorf("temperature = %v, want -1.25", c)
	}
}

func TestParseW1PayloadBadCRC(t *testing.T) {
	if _, err := parseW1Payload([]byte(badCRCPayload)); !errors.Is(err, errCRC) {
		t.Errorf("parse = %v, want errCRC", err)
	}
}

func TestParseW1PayloadMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"one line", "53 01 : crc=e9 YES"},
		{"no temperature field", "crc=e9 YES\nno reading here\n"},
		{"garbage temperature", "crc=e9 YES\nxx t=abc\n"},
	}
	for _, tc := range cases {
		if _, err := parseW1Payload([]byte(tc.payload)); err == nil {
			t.Errorf("%s: parse accepted malformed payload", tc.name)
		}
	}
}

func TestFindDS18B20(t *testing.T) {
	dir := t.TempDir()
	devDir := filepath.Join(dir, "28-0316a2795cff")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(devDir, "w1_slave"), []byte(goodPayload), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := FindDS18B20(dir)
	if err != nil {
		t.Fatalf("FindDS18B20 failed: %v", err)
	}
	c, err := d.ReadCelsius(context.Background())
	if err != nil {
		t.Fatalf("ReadCelsius failed: %v", err)
	}
	if c != 21.187 {
		t.Errorf("temperature = %v, want 21.187", c)
	}
}

func TestFindDS18B20Missing(t *testing.T) {
	if _, err := FindDS18B20(t.TempDir()); !errors.Is(err, ErrNoSensor) {
		t.Errorf("FindDS18B20 = %v, want ErrNoSensor", err)
	}
}

func TestReadCelsiusCRCRetryCancellation(t *testing.T) {
	dir := t.TempDir()
	devDir := filepath.Join(dir, "28-0000000000aa")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(devDir, "w1_slave"), []byte(badCRCPayload), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := FindDS18B20(dir)
	if err != nil {
		t.Fatalf("FindDS18B20 failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.ReadCelsius(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadCelsius = %v, want context.Canceled", err)
	}
}
