package camera

import (
	"log/slog"
	"os"
	"time"
)

// stubJPEG is a minimal valid JPEG so downstream viewers can open
// mock captures.
var stubJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0xFF, 0xD9,
}

// Mock is a camera for development on machines without camera hardware.
// Each shot writes a tiny placeholder JPEG.
type Mock struct {
	SettleDelay time.Duration
}

func (c *Mock) Shoot(path string) error {
	slog.Debug("mock camera shot", "path", path)
	if err := os.WriteFile(path, stubJPEG, 0o644); err != nil {
		return err
	}
	if c.SettleDelay > 0 {
		time.Sleep(c.SettleDelay)
	}
	return nil
}
