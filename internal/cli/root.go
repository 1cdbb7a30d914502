package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/hw/camera"
	"github.com/cjeanneret/TrapGo/internal/logging"
)

var (
	cfgPath  string
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "trapgo",
	Short: "Camera trap controller for Raspberry Pi",
	Long: `trapgo drives a Raspberry Pi camera as an automated trap:
timed captures into per-year directories, a live preview image,
a capture catalog and one-day PDF reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, logJSON, os.Stderr)
	},
}

// Execute runs the CLI and returns the failing command's error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to settings file (default ~/.trapgo.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
}

// loadSettings reads the settings store honoring --config, then lines
// the logger up with the stored preferences unless logging flags were
// given explicitly.
func loadSettings() (config.Settings, string, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, "", err
	}

	flags := rootCmd.PersistentFlags()
	if !flags.Changed("log-level") && !flags.Changed("log-json") {
		logging.Setup(s.Log.Level, s.Log.Format == "json", os.Stderr)
	}
	return s, path, nil
}

// newCameraFromSettings selects a camera implementation based on the
// configured type.
func newCameraFromSettings(s config.Settings) (camera.Camera, error) {
	switch s.Camera.Type {
	case "raspistill":
		return &camera.Raspistill{
			Quality:     s.Camera.Quality,
			VFlip:       s.Camera.VFlip,
			HFlip:       s.Camera.HFlip,
			SettleDelay: s.Camera.PostShotDelay(),
		}, nil
	case "libcamera", "libcamera-still":
		return &camera.Libcamera{
			Quality:     s.Camera.Quality,
			VFlip:       s.Camera.VFlip,
			HFlip:       s.Camera.HFlip,
			SettleDelay: s.Camera.PostShotDelay(),
		}, nil
	case "mock":
		return &camera.Mock{SettleDelay: s.Camera.PostShotDelay()}, nil
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", s.Camera.Type)
	}
}
