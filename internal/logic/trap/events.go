package trap

import "time"

// Event is a notification delivered to subscribers on every state
// change. The concrete types below are the full set.
type Event interface {
	event()
}

// ModeChanged reports a mode transition, including transitions forced
// by a failing session.
type ModeChanged struct {
	From Mode
	To   Mode
}

// ImageCaptured reports one successful capture.
type ImageCaptured struct {
	Path  string
	Taken time.Time
	Mode  Mode
}

// CaptureFailed reports a session ended by a capture error.
type CaptureFailed struct {
	Err error
}

// DiskFull reports a session ended by the disk admission guard.
type DiskFull struct {
	Free uint64
	Need uint64
}

func (ModeChanged) event()   {}
func (ImageCaptured) event() {}
func (CaptureFailed) event() {}
func (DiskFull) event()      {}
