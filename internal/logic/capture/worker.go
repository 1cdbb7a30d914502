package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cjeanneret/TrapGo/internal/hw/camera"
	"github.com/cjeanneret/TrapGo/internal/logic/policy"
)

// DiskFullError reports that free space fell below the admission
// threshold before a shot was attempted.
type DiskFullError struct {
	Free uint64
	Need uint64
}

func (e *DiskFullError) Error() string {
	return fmt.Sprintf("disk full: %d bytes free, %d required", e.Free, e.Need)
}

// Guard is the disk admission check run before every capture. Free
// measures available bytes on the filesystem holding the given path.
type Guard struct {
	MinBytes uint64
	Free     func(path string) (uint64, error)
}

// check returns a *DiskFullError when the filesystem holding dir's
// parent has fewer than MinBytes available. A failed measurement is
// logged and the capture admitted; the guard refuses only on evidence.
func (g *Guard) check(dir string, log *slog.Logger) error {
	free, err := g.Free(filepath.Dir(dir))
	if err != nil {
		log.Warn("free space check failed", "dir", dir, "error", err)
		return nil
	}
	if free < g.MinBytes {
		return &DiskFullError{Free: free, Need: g.MinBytes}
	}
	return nil
}

// Worker runs one capture session: shoot, report, sleep, repeat, until
// stopped or the session fails. The pace and destination of each shot
// come from the injected policy, so the same loop serves previews and
// recordings.
type Worker struct {
	cam     camera.Camera
	policy  policy.Policy
	guard   *Guard
	log     *slog.Logger
	onImage func(path string, taken time.Time)
	onExit  func(err error)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds a worker. guard may be nil to disable admission control;
// onImage and onExit may be nil. onExit is invoked exactly once per
// session after the loop has fully wound down, with nil on a clean
// stop and the loop's failure otherwise.
func New(cam camera.Camera, pol policy.Policy, guard *Guard, log *slog.Logger, onImage func(string, time.Time), onExit func(error)) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		cam:     cam,
		policy:  pol,
		guard:   guard,
		log:     log,
		onImage: onImage,
		onExit:  onExit,
	}
}

// Start launches the capture loop. If a session is already running the
// call is logged and ignored.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.log.Info("capture start ignored, already running", "policy", w.policy.Name)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.running = true
	w.cancel = cancel
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	w.log.Info("capture worker starting", "policy", w.policy.Name)
	go w.run(ctx, done)
}

// Stop requests cooperative termination. The loop quits at its next
// boundary; an in-flight shot is never interrupted. If no session is
// running the call is logged and ignored.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.log.Info("capture stop ignored, not running", "policy", w.policy.Name)
		return
	}
	cancel := w.cancel
	w.mu.Unlock()

	w.log.Info("capture worker stopping", "policy", w.policy.Name)
	cancel()
}

func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Done returns a channel closed when the current session's loop has
// fully exited. With no session running, an already-closed channel is
// returned.
func (w *Worker) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return w.done
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	err := w.loop(ctx)

	w.mu.Lock()
	w.running = false
	w.cancel = nil
	w.done = nil
	close(done)
	w.mu.Unlock()

	if err != nil {
		w.log.Error("capture worker failed", "policy", w.policy.Name, "error", err)
	} else {
		w.log.Info("capture worker stopped", "policy", w.policy.Name)
	}
	if w.onExit != nil {
		w.onExit(err)
	}
}

func (w *Worker) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		now := time.Now()
		path := w.policy.NextPath(now)
		dir := filepath.Dir(path)

		if w.guard != nil {
			if err := w.guard.check(dir, w.log); err != nil {
				return err
			}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create capture dir %s: %w", dir, err)
		}
		if err := w.cam.Shoot(path); err != nil {
			return fmt.Errorf("capture %s: %w", path, err)
		}
		w.log.Debug("captured image", "path", path, "policy", w.policy.Name)
		if w.onImage != nil {
			w.onImage(path, now)
		}

		timer := time.NewTimer(w.policy.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
