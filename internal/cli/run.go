package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cjeanneret/TrapGo/internal/catalog"
	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/hw/gpio"
	"github.com/cjeanneret/TrapGo/internal/hw/led"
	"github.com/cjeanneret/TrapGo/internal/logic/trap"
	"github.com/cjeanneret/TrapGo/internal/tui"
)

var (
	runInterval float64
	runWorkDir  string
	runMinFree  int
	runHeadless bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the camera trap",
	Long: `Run the camera trap. With a terminal attached an interactive
dashboard comes up; otherwise (or with --headless) recording starts
immediately and runs until interrupted.`,
	RunE: runTrap,
}

func init() {
	runCmd.Flags().Float64Var(&runInterval, "interval", 0, "capture interval in seconds (overrides settings)")
	runCmd.Flags().StringVar(&runWorkDir, "work-dir", "", "directory for captures (overrides settings)")
	runCmd.Flags().IntVar(&runMinFree, "min-free", 0, "minimum free disk space in MB (overrides settings)")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without the dashboard")
	rootCmd.AddCommand(runCmd)
}

func runTrap(cmd *cobra.Command, args []string) error {
	s, path, err := loadSettings()
	if err != nil {
		return err
	}

	over := config.Overrides{Interval: runInterval, WorkDir: runWorkDir, MinFreeMB: runMinFree}
	if err := over.Validate(); err != nil {
		return err
	}
	s = over.Apply(s)

	cam, err := newCameraFromSettings(s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create work dir %s: %w", s.WorkDir, err)
	}

	log := slog.Default()
	model := trap.New(cam, s, log)

	// The status LED is best effort: a Pi without wired GPIO still
	// records.
	var statusLED *led.StatusLED
	if s.GPIO.StatusLEDPin > 0 {
		driver, err := gpio.NewDriver(s.GPIO.Mock)
		if err != nil {
			log.Warn("GPIO unavailable, status LED disabled", "error", err)
		} else {
			defer driver.Close()
			statusLED, err = led.New(driver, s.GPIO.StatusLEDPin)
			if err != nil {
				log.Warn("status LED setup failed", "error", err)
				statusLED = nil
			} else {
				defer statusLED.Close()
			}
		}
	}

	// So is the catalog: recording must not stop because SQLite broke.
	var cat *catalog.Catalog
	if c, err := catalog.Open(filepath.Join(s.WorkDir, "captures.db")); err != nil {
		log.Warn("capture catalog unavailable", "error", err)
	} else {
		cat = c
		defer cat.Close()
	}

	events, unsub := model.Subscribe()
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		recordEvents(events, statusLED, cat, log)
	}()

	if runHeadless || !term.IsTerminal(int(os.Stdout.Fd())) {
		err = runHeadlessLoop(model, log)
	} else {
		err = runDashboard(model)
	}

	model.Shutdown()
	// Let the recorder drain before the deferred closes take the
	// catalog and LED away from it.
	unsub()
	<-recorderDone

	if saveErr := config.Save(path, model.Settings()); saveErr != nil {
		log.Warn("saving settings failed", "path", path, "error", saveErr)
	}
	return err
}

// recordEvents mirrors session state onto the LED and catalogs
// recorded images.
func recordEvents(events <-chan trap.Event, statusLED *led.StatusLED, cat *catalog.Catalog, log *slog.Logger) {
	for evt := range events {
		switch e := evt.(type) {
		case trap.ModeChanged:
			applyLED(statusLED, e.To, log)
		case trap.ImageCaptured:
			if cat == nil || e.Mode != trap.ModeRecording {
				continue
			}
			var size int64
			if fi, err := os.Stat(e.Path); err == nil {
				size = fi.Size()
			}
			err := cat.Add(catalog.Capture{
				Path:      e.Path,
				Mode:      e.Mode.String(),
				TakenAt:   e.Taken,
				SizeBytes: size,
			})
			if err != nil {
				log.Error("cataloging capture failed", "path", e.Path, "error", err)
			}
		}
	}
}

// applyLED maps modes to LED behavior: recording blinks, preview is
// steady on, idle is dark.
func applyLED(l *led.StatusLED, mode trap.Mode, log *slog.Logger) {
	if l == nil {
		return
	}
	var err error
	switch mode {
	case trap.ModeRecording:
		l.Heartbeat(0)
	case trap.ModePreview:
		err = l.Steady(true)
	default:
		err = l.Steady(false)
	}
	if err != nil {
		log.Warn("status LED update failed", "mode", mode.String(), "error", err)
	}
}

func runHeadlessLoop(model *trap.Model, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, unsub := model.Subscribe()
	defer unsub()

	path, err := model.StartRecording()
	if err != nil {
		return err
	}
	log.Info("recording started", "first_capture", path)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case evt := <-events:
			switch e := evt.(type) {
			case trap.CaptureFailed:
				return fmt.Errorf("capture failed: %w", e.Err)
			case trap.DiskFull:
				return fmt.Errorf("disk full: %d bytes free, %d required", e.Free, e.Need)
			}
		}
	}
}

func runDashboard(model *trap.Model) error {
	p := tea.NewProgram(tui.New(model), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
