package gpio

import "log/slog"

// Level is the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Driver drives output pins. The trap only sinks indicator LEDs, so
// there is no input surface.
type Driver interface {
	SetupOutput(pin int) error
	Write(pin int, level Level) error
	Close() error
}

// MockDriver logs pin activity instead of touching hardware, for
// development on machines without a GPIO block.
type MockDriver struct{}

// NewDriver returns the mock driver when mock is set, otherwise the
// real Raspberry Pi driver.
func NewDriver(mock bool) (Driver, error) {
	if mock {
		slog.Info("using mock GPIO driver")
		return &MockDriver{}, nil
	}
	return NewRPiDriver()
}

func (m *MockDriver) SetupOutput(pin int) error {
	slog.Debug("gpio setup output", "pin", pin)
	return nil
}

func (m *MockDriver) Write(pin int, level Level) error {
	slog.Debug("gpio write", "pin", pin, "level", bool(level))
	return nil
}

func (m *MockDriver) Close() error {
	slog.Debug("gpio close", "driver", "mock")
	return nil
}
