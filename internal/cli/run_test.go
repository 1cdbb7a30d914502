package cli

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
	"github.com/cjeanneret/TrapGo/internal/hw/led"
	"github.com/cjeanneret/TrapGo/internal/logic/trap"
)

// traceDriver captures pin writes for assertions.
type traceDriver struct {
	mu     sync.Mutex
	writes []gpio.Level
}

func (d *traceDriver) SetupOutput(pin int) error { return nil }

func (d *traceDriver) Write(pin int, level gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, level)
	return nil
}

func (d *traceDriver) Close() error { return nil }

func (d *traceDriver) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

func (d *traceDriver) lastWrite() gpio.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.writes) == 0 {
		return gpio.Low
	}
	return d.writes[len(d.writes)-1]
}

func TestApplyLED_ModeMapping(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	drv := &traceDriver{}
	l, err := led.New(drv, 12)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	applyLED(l, trap.ModePreview, log)
	if drv.lastWrite() != gpio.High {
		t.Fatal("preview should hold the LED on")
	}

	before := drv.writeCount()
	applyLED(l, trap.ModeRecording, log)
	deadline := time.After(2 * time.Second)
	for drv.writeCount() == before {
		select {
		case <-deadline:
			t.Fatal("recording heartbeat never wrote the pin")
		case <-time.After(5 * time.Millisecond):
		}
	}

	applyLED(l, trap.ModeIdle, log)
	if drv.lastWrite() != gpio.Low {
		t.Fatal("idle should turn the LED off")
	}
}

func TestApplyLED_NilLEDIsNoOp(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	applyLED(nil, trap.ModeRecording, log)
	applyLED(nil, trap.ModeIdle, log)
}
