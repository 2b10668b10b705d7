package tui

import "time"

// TickMsg drives polling of background computations.
type TickMsg struct {
	Time time.Time
}
