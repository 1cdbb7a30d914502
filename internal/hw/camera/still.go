package camera

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Raspistill shells out to the legacy Raspberry Pi camera tool.
type Raspistill struct {
	Quality     int
	VFlip       bool
	HFlip       bool
	SettleDelay time.Duration
}

func (c *Raspistill) Shoot(path string) error {
	if err := runTool("raspistill", c.args(path)); err != nil {
		return err
	}
	// Give the sensor pipeline time to flush before the next frame.
	if c.SettleDelay > 0 {
		time.Sleep(c.SettleDelay)
	}
	return nil
}

func (c *Raspistill) args(path string) []string {
	args := []string{"-q", strconv.Itoa(c.Quality), "-o", path}
	if c.VFlip {
		args = append(args, "-vf")
	}
	if c.HFlip {
		args = append(args, "-hf")
	}
	return args
}

// Libcamera shells out to libcamera-still, the current Pi camera stack.
type Libcamera struct {
	Quality     int
	VFlip       bool
	HFlip       bool
	SettleDelay time.Duration
}

func (c *Libcamera) Shoot(path string) error {
	if err := runTool("libcamera-still", c.args(path)); err != nil {
		return err
	}
	if c.SettleDelay > 0 {
		time.Sleep(c.SettleDelay)
	}
	return nil
}

func (c *Libcamera) args(path string) []string {
	args := []string{"-n", "-q", strconv.Itoa(c.Quality), "-o", path}
	if c.VFlip {
		args = append(args, "--vflip")
	}
	if c.HFlip {
		args = append(args, "--hflip")
	}
	return args
}

func runTool(tool string, args []string) error {
	out, err := exec.Command(tool, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", tool, err, msg)
		}
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}
