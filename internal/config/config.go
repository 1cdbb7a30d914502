package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Interval bounds in seconds. Values outside this range are never accepted,
// neither from the settings file nor from SetInterval.
const (
	MinInterval = 1.0
	MaxInterval = 600.0
)

// CameraSettings describes how captures are taken.
// Type selects a concrete implementation ("raspistill", "libcamera", "mock").
type CameraSettings struct {
	Type            string `yaml:"type"`               // capture backend
	Quality         int    `yaml:"quality"`            // JPEG quality 1-100
	VFlip           bool   `yaml:"vflip"`              // vertical flip
	HFlip           bool   `yaml:"hflip"`              // horizontal flip
	PostShotDelayMs int    `yaml:"post_shot_delay_ms"` // settle time after the tool returns (ms)
}

// GPIOSettings configures the optional status LED.
type GPIOSettings struct {
	StatusLEDPin int  `yaml:"status_led_pin"` // BCM pin. 0 = no LED.
	Mock         bool `yaml:"mock"`           // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Settings aggregates the persisted camera-trap configuration.
type Settings struct {
	Interval   float64        `yaml:"interval"`    // seconds between recorded captures
	WorkDir    string         `yaml:"work_dir"`    // image tree root, created on demand
	MinFreeMB  int            `yaml:"min_free"`    // admission threshold in MB. 0 = check disabled.
	FilePrefix string         `yaml:"file_prefix"` // recorded filename prefix
	Camera     CameraSettings `yaml:"camera"`
	GPIO       GPIOSettings   `yaml:"gpio"`
	Log        LogSettings    `yaml:"log"`
}

// Default returns the built-in settings used when no file exists.
func Default() Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Settings{
		Interval:   60,
		WorkDir:    filepath.Join(home, "trapgo"),
		MinFreeMB:  50,
		FilePrefix: "trap",
		Camera: CameraSettings{
			Type:            "raspistill",
			Quality:         90,
			VFlip:           true,
			HFlip:           true,
			PostShotDelayMs: 500,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".trapgo.yaml")
}

// Load reads the settings file at path. A missing or unreadable file yields
// the built-in defaults without error; a file that exists but does not parse
// is an error. Unknown fields are ignored; fields absent from the file keep
// their defaults; values outside their valid range are replaced by the
// default with a warning.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Info("settings file not readable, using defaults", "path", path, "err", err)
		return s, nil
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}

	s.sanitize()
	return s, nil
}

// Save writes the settings to path as YAML, creating the parent directory
// if needed.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// sanitize replaces out-of-range values with their defaults. The file is
// trusted as far as possible; only values the rest of the program cannot
// operate with are touched.
func (s *Settings) sanitize() {
	d := Default()
	if !ValidInterval(s.Interval) {
		slog.Warn("interval out of range, using default",
			"interval", s.Interval, "default", d.Interval)
		s.Interval = d.Interval
	}
	if s.WorkDir == "" {
		s.WorkDir = d.WorkDir
	}
	if s.MinFreeMB < 0 {
		slog.Warn("min_free must be >= 0, using default",
			"min_free", s.MinFreeMB, "default", d.MinFreeMB)
		s.MinFreeMB = d.MinFreeMB
	}
	if s.FilePrefix == "" {
		s.FilePrefix = d.FilePrefix
	}
	if s.Camera.Type == "" {
		s.Camera.Type = d.Camera.Type
	}
	if s.Camera.Quality < 1 || s.Camera.Quality > 100 {
		slog.Warn("camera.quality must be 1-100, using default",
			"quality", s.Camera.Quality, "default", d.Camera.Quality)
		s.Camera.Quality = d.Camera.Quality
	}
	if s.Camera.PostShotDelayMs <= 0 {
		s.Camera.PostShotDelayMs = d.Camera.PostShotDelayMs
	}
	if s.GPIO.StatusLEDPin < 0 {
		s.GPIO.StatusLEDPin = 0
	}
	if s.Log.Level == "" {
		s.Log.Level = d.Log.Level
	}
	if s.Log.Format == "" {
		s.Log.Format = d.Log.Format
	}
}

// ValidInterval reports whether n is an acceptable capture interval.
func ValidInterval(n float64) bool {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n >= MinInterval && n <= MaxInterval
}

// IntervalDuration returns the recording cadence as a duration.
func (s Settings) IntervalDuration() time.Duration {
	return time.Duration(s.Interval * float64(time.Second))
}

// MinFreeBytes returns the admission threshold in bytes. 0 = disabled.
func (s Settings) MinFreeBytes() uint64 {
	return uint64(s.MinFreeMB) * (1 << 20)
}

// PostShotDelay returns the settle time after the capture tool returns.
func (c CameraSettings) PostShotDelay() time.Duration {
	return time.Duration(c.PostShotDelayMs) * time.Millisecond
}

// Overrides carries command-line values. Zero values mean "not provided":
// an explicit zero can never override the stored value.
type Overrides struct {
	Interval  float64
	WorkDir   string
	MinFreeMB int
}

// Validate checks that non-zero overrides are within valid ranges.
// Zero values are ignored (they mean "use the stored value").
func (o Overrides) Validate() error {
	if o.Interval != 0 && !ValidInterval(o.Interval) {
		return fmt.Errorf("interval must be between %g and %g seconds, got %g",
			MinInterval, MaxInterval, o.Interval)
	}
	if o.MinFreeMB < 0 {
		return fmt.Errorf("min-free must be >= 0, got %d", o.MinFreeMB)
	}
	return nil
}

// Apply returns a copy of s with the non-zero overrides applied.
func (o Overrides) Apply(s Settings) Settings {
	if o.Interval > 0 {
		s.Interval = o.Interval
	}
	if o.WorkDir != "" {
		s.WorkDir = o.WorkDir
	}
	if o.MinFreeMB > 0 {
		s.MinFreeMB = o.MinFreeMB
	}
	return s
}
