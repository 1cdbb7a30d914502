package led

import (
	"sync"
	"testing"
	"time"

	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
)

// recordingDriver captures pin writes for assertions.
type recordingDriver struct {
	mu     sync.Mutex
	setups []int
	writes []gpio.Level
}

func (d *recordingDriver) SetupOutput(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setups = append(d.setups, pin)
	return nil
}

func (d *recordingDriver) Write(pin int, level gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, level)
	return nil
}

func (d *recordingDriver) Close() error { return nil }

func (d *recordingDriver) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

func (d *recordingDriver) lastWrite() gpio.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.writes) == 0 {
		return gpio.Low
	}
	return d.writes[len(d.writes)-1]
}

func TestNew_ConfiguresPinOff(t *testing.T) {
	drv := &recordingDriver{}
	if _, err := New(drv, 17); err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(drv.setups) != 1 || drv.setups[0] != 17 {
		t.Fatalf("expected pin 17 setup, got %v", drv.setups)
	}
	if drv.lastWrite() != gpio.Low {
		t.Fatal("expected LED to start off")
	}
}

func TestSteady_WritesLevel(t *testing.T) {
	drv := &recordingDriver{}
	l, err := New(drv, 17)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := l.Steady(true); err != nil {
		t.Fatalf("Steady(true): %v", err)
	}
	if drv.lastWrite() != gpio.High {
		t.Fatal("expected LED on")
	}

	if err := l.Steady(false); err != nil {
		t.Fatalf("Steady(false): %v", err)
	}
	if drv.lastWrite() != gpio.Low {
		t.Fatal("expected LED off")
	}
}

func TestHeartbeat_BlinksAndStops(t *testing.T) {
	drv := &recordingDriver{}
	l, err := New(drv, 17)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Heartbeat(20 * time.Millisecond)

	deadline := time.After(2 * time.Second)
	for drv.writeCount() < 5 {
		select {
		case <-deadline:
			t.Fatalf("LED never blinked, %d writes", drv.writeCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if drv.lastWrite() != gpio.Low {
		t.Fatal("expected LED off after Close")
	}

	// No blink goroutine should survive Close.
	n := drv.writeCount()
	time.Sleep(60 * time.Millisecond)
	if drv.writeCount() != n {
		t.Fatal("writes continued after Close")
	}
}

func TestHeartbeat_RestartReplacesBlinker(t *testing.T) {
	drv := &recordingDriver{}
	l, err := New(drv, 17)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Heartbeat(10 * time.Millisecond)
	l.Heartbeat(10 * time.Millisecond)

	if err := l.Steady(true); err != nil {
		t.Fatalf("Steady: %v", err)
	}
	n := drv.writeCount()
	time.Sleep(40 * time.Millisecond)
	if drv.writeCount() != n {
		t.Fatal("writes continued after Steady")
	}
	if drv.lastWrite() != gpio.High {
		t.Fatal("expected LED held on")
	}
}
