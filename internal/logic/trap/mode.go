package trap

// Mode is the capture subsystem's operating state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePreview
	ModeRecording
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePreview:
		return "preview"
	case ModeRecording:
		return "recording"
	default:
		return "unknown"
	}
}
