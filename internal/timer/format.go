package timer

import (
	"fmt"
	"time"

	"github.com/julianstephens/pomohabit/internal/constants"
)

// Mode is the kind of interval the timer is counting.
type Mode int

const (
	Work Mode = iota
	Break
)

func (m Mode) String() string {
	switch m {
	case Work:
		return "work"
	case Break:
		return "break"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next returns the mode that follows m after a natural completion.
func (m Mode) Next() Mode {
	if m == Work {
		return Break
	}
	return Work
}

// Duration returns the full length of an interval in mode m.
func Duration(m Mode) time.Duration {
	if m == Break {
		return constants.BreakDuration
	}
	return constants.WorkDuration
}

// FormatRemaining renders seconds as MM:SS. Minutes are not capped at 59
// and negative input renders as 00:00.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
