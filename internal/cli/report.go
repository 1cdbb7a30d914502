package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/TrapGo/internal/catalog"
	"github.com/cjeanneret/TrapGo/internal/report"
)

var (
	reportDate string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a PDF report of one day's captures",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSettings()
		if err != nil {
			return err
		}

		day := time.Now()
		if reportDate != "" {
			day, err = time.ParseInLocation("2006-01-02", reportDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", reportDate, err)
			}
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("trapgo-report_%s.pdf", day.Format("2006-01-02"))
		}

		cat, err := catalog.Open(filepath.Join(s.WorkDir, "captures.db"))
		if err != nil {
			return err
		}
		defer cat.Close()

		caps, err := cat.OnDay(day)
		if err != nil {
			return err
		}
		if err := report.WritePDF(out, day, caps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d captures)\n", out, len(caps))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report on (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default trapgo-report_<date>.pdf)")
	rootCmd.AddCommand(reportCmd)
}
