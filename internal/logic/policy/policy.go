package policy

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// PreviewFile is the single file a preview session overwrites
	// on every tick.
	PreviewFile = "preview.jpeg"

	// PreviewInterval is the fixed pace of preview refreshes.
	PreviewInterval = 1 * time.Second

	timestampLayout = "2006-01-02_15-04-05"
)

// Policy tells a capture worker how fast to shoot and where each frame
// goes. Interval is consulted before every sleep, so a running session
// picks up pace changes without restarting.
type Policy struct {
	Name     string
	Interval func() time.Duration
	NextPath func(now time.Time) string
}

// Preview refreshes one well-known file in workDir once a second.
func Preview(workDir string) Policy {
	path := filepath.Join(workDir, PreviewFile)
	return Policy{
		Name:     "preview",
		Interval: func() time.Duration { return PreviewInterval },
		NextPath: func(time.Time) string { return path },
	}
}

// Record files each frame under a per-year directory with a
// timestamped name, pacing shots by the supplied interval function.
func Record(workDir, prefix string, interval func() time.Duration) Policy {
	return Policy{
		Name:     "record",
		Interval: interval,
		NextPath: func(now time.Time) string {
			name := fmt.Sprintf("%s_%s.jpeg", prefix, now.Format(timestampLayout))
			return filepath.Join(workDir, now.Format("2006"), name)
		},
	}
}
