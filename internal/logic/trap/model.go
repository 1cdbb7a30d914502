package trap

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/diskspace"
	"github.com/cjeanneret/TrapGo/internal/hw/camera"
	"github.com/cjeanneret/TrapGo/internal/logic/capture"
	"github.com/cjeanneret/TrapGo/internal/logic/policy"
)

// ErrSessionActive is returned when a session start is refused because
// another session already holds the camera. Preview and recording are
// mutually exclusive; stop one before starting the other.
var ErrSessionActive = errors.New("a capture session is already active")

// Model is the capture state machine. It owns the current mode, the
// live settings and at most one running worker, and publishes an Event
// on every transition, capture and failure.
type Model struct {
	cam      camera.Camera
	notifier *Notifier
	log      *slog.Logger
	freeFn   func(path string) (uint64, error)

	mu       sync.Mutex
	mode     Mode
	settings config.Settings
	worker   *capture.Worker
}

// New builds an idle model driving cam with the given settings.
func New(cam camera.Camera, settings config.Settings, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	return &Model{
		cam:      cam,
		notifier: NewNotifier(),
		log:      log,
		freeFn:   diskspace.FreeBytes,
		mode:     ModeIdle,
		settings: settings,
	}
}

// Subscribe registers for event notifications. The returned cleanup
// must be called when the subscriber is done.
func (m *Model) Subscribe() (<-chan Event, func()) {
	return m.notifier.Subscribe()
}

// Mode returns the current operating mode.
func (m *Model) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Interval returns the configured capture interval in seconds.
func (m *Model) Interval() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Interval
}

// SetInterval updates the capture interval. An out-of-range value is
// logged and ignored, keeping the previous one. A running recording
// picks up the new pace on its next tick.
func (m *Model) SetInterval(seconds float64) {
	if !config.ValidInterval(seconds) {
		m.log.Warn("ignoring out-of-range interval",
			"interval", seconds,
			"min", config.MinInterval,
			"max", config.MaxInterval)
		return
	}
	m.mu.Lock()
	m.settings.Interval = seconds
	m.mu.Unlock()
	m.log.Info("interval updated", "interval", seconds)
}

// Settings returns a snapshot of the live settings.
func (m *Model) Settings() config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// StartPreview begins a preview session refreshing one well-known file
// every second. Returns the preview image path.
func (m *Model) StartPreview() (string, error) {
	return m.start(ModePreview)
}

// StopPreview ends a preview session. In any other mode it is a no-op.
func (m *Model) StopPreview() {
	m.stop(ModePreview)
}

// StartRecording begins a recording session at the configured
// interval. Returns the path the first capture targets.
func (m *Model) StartRecording() (string, error) {
	return m.start(ModeRecording)
}

// StopRecording ends a recording session. In any other mode it is a
// no-op.
func (m *Model) StopRecording() {
	m.stop(ModeRecording)
}

// Shutdown stops whatever session is active and waits for its worker
// to wind down.
func (m *Model) Shutdown() {
	m.mu.Lock()
	w := m.worker
	mode := m.mode
	m.mu.Unlock()

	switch mode {
	case ModePreview:
		m.StopPreview()
	case ModeRecording:
		m.StopRecording()
	}
	if w != nil {
		<-w.Done()
	}
}

func (m *Model) start(mode Mode) (string, error) {
	m.mu.Lock()
	if m.mode != ModeIdle {
		current := m.mode
		m.mu.Unlock()
		return "", fmt.Errorf("cannot start %s while %s: %w", mode, current, ErrSessionActive)
	}

	s := m.settings
	var pol policy.Policy
	switch mode {
	case ModePreview:
		pol = policy.Preview(s.WorkDir)
	case ModeRecording:
		pol = policy.Record(s.WorkDir, s.FilePrefix, m.liveInterval)
	}

	var guard *capture.Guard
	if s.MinFreeMB > 0 {
		guard = &capture.Guard{MinBytes: s.MinFreeBytes(), Free: m.freeFn}
	}

	var w *capture.Worker
	w = capture.New(m.cam, pol, guard, m.log,
		func(path string, taken time.Time) {
			m.notifier.Publish(ImageCaptured{Path: path, Taken: taken, Mode: mode})
		},
		func(err error) {
			m.workerExited(w, err)
		},
	)
	m.worker = w
	m.mode = mode
	m.mu.Unlock()

	m.log.Info("session starting", "mode", mode.String(), "work_dir", s.WorkDir)
	m.notifier.Publish(ModeChanged{From: ModeIdle, To: mode})
	w.Start()
	return pol.NextPath(time.Now()), nil
}

func (m *Model) stop(mode Mode) {
	m.mu.Lock()
	if m.mode != mode {
		current := m.mode
		m.mu.Unlock()
		m.log.Debug("stop ignored", "requested", mode.String(), "mode", current.String())
		return
	}
	w := m.worker
	m.worker = nil
	m.mode = ModeIdle
	m.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	m.log.Info("session stopped", "mode", mode.String())
	m.notifier.Publish(ModeChanged{From: mode, To: ModeIdle})
}

// liveInterval is read by a recording worker before every sleep, so
// SetInterval takes effect on the next tick.
func (m *Model) liveInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.IntervalDuration()
}

// workerExited handles a session loop winding down. A nil err is a
// clean stop already accounted for. A failure forces the model back to
// Idle and is published, but only while w is still the active worker;
// trailing failures from an already-replaced session are only logged.
func (m *Model) workerExited(w *capture.Worker, err error) {
	if err == nil {
		return
	}

	m.mu.Lock()
	active := m.worker == w
	mode := m.mode
	if active {
		m.worker = nil
		m.mode = ModeIdle
	}
	m.mu.Unlock()

	if !active {
		m.log.Warn("stale capture session failed", "error", err)
		return
	}

	var dfe *capture.DiskFullError
	if errors.As(err, &dfe) {
		m.log.Error("disk space exhausted, session stopped",
			"free_bytes", dfe.Free, "required_bytes", dfe.Need)
		m.notifier.Publish(DiskFull{Free: dfe.Free, Need: dfe.Need})
	} else {
		m.log.Error("capture session failed", "mode", mode.String(), "error", err)
		m.notifier.Publish(CaptureFailed{Err: err})
	}
	m.notifier.Publish(ModeChanged{From: mode, To: ModeIdle})
}
