package led

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
)

// DefaultHeartbeat is the blink period used when none is given.
const DefaultHeartbeat = 2 * time.Second

// StatusLED drives a single indicator LED through a GPIO pin.
// It can hold a steady level or blink on a fixed period.
type StatusLED struct {
	driver gpio.Driver
	pin    int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New configures the pin as an output and returns the LED switched off.
func New(driver gpio.Driver, pin int) (*StatusLED, error) {
	if err := driver.SetupOutput(pin); err != nil {
		return nil, fmt.Errorf("setup LED pin %d: %w", pin, err)
	}
	if err := driver.Write(pin, gpio.Low); err != nil {
		return nil, fmt.Errorf("reset LED pin %d: %w", pin, err)
	}
	return &StatusLED{driver: driver, pin: pin}, nil
}

// Steady stops any blinking and holds the LED at the given state.
func (l *StatusLED) Steady(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopBlink()

	level := gpio.Low
	if on {
		level = gpio.High
	}
	return l.driver.Write(l.pin, level)
}

// Heartbeat blinks the LED until Steady or Close is called.
// A period of zero selects DefaultHeartbeat.
func (l *StatusLED) Heartbeat(period time.Duration) {
	if period <= 0 {
		period = DefaultHeartbeat
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopBlink()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(period / 2)
		defer ticker.Stop()

		on := true
		for {
			l.driver.Write(l.pin, toLevel(on))
			on = !on
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Close stops blinking and leaves the LED off.
func (l *StatusLED) Close() error {
	return l.Steady(false)
}

// stopBlink cancels a running blink goroutine and waits for it to exit,
// so a later write cannot race against a trailing toggle.
// Caller must hold l.mu.
func (l *StatusLED) stopBlink() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	l.cancel = nil
	l.done = nil
}

func toLevel(on bool) gpio.Level {
	if on {
		return gpio.High
	}
	return gpio.Low
}
