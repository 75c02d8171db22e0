package capture

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode is the ingestion policy applied to incoming frames.
type Mode int

const (
	// Realtime replaces the buffer contents with every frame.
	Realtime Mode = iota
	// Accumulating appends every frame to the buffer.
	Accumulating
	// Stopped ignores frames and keeps the buffer for inspection and export.
	Stopped
)

func (m Mode) String() string {
	switch m {
	case Realtime:
		return "realtime"
	case Accumulating:
		return "accumulating"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "realtime", "":
		return Realtime, nil
	case "accumulating", "accumulate":
		return Accumulating, nil
	case "stopped", "stop":
		return Stopped, nil
	default:
		return 0, errors.Errorf("unknown capture mode %q", s)
	}
}

// FrameResult tells what happened to a frame passed to Controller.OnFrame.
type FrameResult int

const (
	FrameAppended FrameResult = iota
	FrameIgnored
	FrameNoPose
	FrameDropped
	FrameMalformed
)

func (r FrameResult) String() string {
	switch r {
	case FrameAppended:
		return "appended"
	case FrameIgnored:
		return "ignored"
	case FrameNoPose:
		return "no_pose"
	case FrameDropped:
		return "dropped"
	case FrameMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}
