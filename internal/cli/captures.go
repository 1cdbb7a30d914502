package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/TrapGo/internal/catalog"
)

var capturesLimit int

var capturesCmd = &cobra.Command{
	Use:   "captures",
	Short: "List recent captures from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSettings()
		if err != nil {
			return err
		}

		dbPath := filepath.Join(s.WorkDir, "captures.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "no captures recorded yet")
			return nil
		}

		cat, err := catalog.Open(dbPath)
		if err != nil {
			return err
		}
		defer cat.Close()

		caps, err := cat.Recent(capturesLimit)
		if err != nil {
			return err
		}
		if len(caps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no captures recorded yet")
			return nil
		}

		w := cmd.OutOrStdout()
		for _, c := range caps {
			fmt.Fprintf(w, "%s  %-9s  %10d  %s\n",
				c.TakenAt.Local().Format("2006-01-02 15:04:05"),
				c.Mode, c.SizeBytes, c.Path)
		}

		st, err := cat.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%d captures total, %d bytes\n", st.Count, st.TotalBytes)
		return nil
	},
}

func init() {
	capturesCmd.Flags().IntVar(&capturesLimit, "limit", 20, "maximum captures to list")
	rootCmd.AddCommand(capturesCmd)
}
