package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/TrapGo/internal/config"
	"github.com/cjeanneret/TrapGo/internal/logic/policy"
)

var shootWorkDir string

var shootCmd = &cobra.Command{
	Use:   "shoot",
	Short: "Take a single capture and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSettings()
		if err != nil {
			return err
		}
		over := config.Overrides{WorkDir: shootWorkDir}
		if err := over.Validate(); err != nil {
			return err
		}
		s = over.Apply(s)

		cam, err := newCameraFromSettings(s)
		if err != nil {
			return err
		}

		pol := policy.Record(s.WorkDir, s.FilePrefix, s.IntervalDuration)
		path := pol.NextPath(time.Now())
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create capture dir: %w", err)
		}
		if err := cam.Shoot(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	shootCmd.Flags().StringVar(&shootWorkDir, "work-dir", "", "directory for captures (overrides settings)")
	rootCmd.AddCommand(shootCmd)
}
