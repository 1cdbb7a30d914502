package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// RPiDriver talks to the BCM GPIO block through go-rpio. It needs
// /dev/gpiomem access or root.
type RPiDriver struct {
	pins map[int]rpio.Pin
}

// NewRPiDriver memory-maps the GPIO registers.
func NewRPiDriver() (*RPiDriver, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open GPIO: %w (not a Raspberry Pi?)", err)
	}
	return &RPiDriver{pins: make(map[int]rpio.Pin)}, nil
}

func (d *RPiDriver) SetupOutput(pin int) error {
	p := rpio.Pin(pin)
	p.Output()
	d.pins[pin] = p
	return nil
}

func (d *RPiDriver) Write(pin int, level Level) error {
	p, ok := d.pins[pin]
	if !ok {
		return fmt.Errorf("pin %d not configured as output", pin)
	}
	if level == High {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

// Close releases the GPIO block. Configured pins revert to inputs so
// nothing keeps driving the LED after exit.
func (d *RPiDriver) Close() error {
	for _, p := range d.pins {
		p.Input()
	}
	return rpio.Close()
}
