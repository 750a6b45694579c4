package scheduler

import (
	"fmt"
	"time"
)

// Window is a daily time-of-day range, in whole hours of local time. Both
// ends are inclusive. A window whose start is after its end wraps past
// midnight, e.g. 22..6.
type Window struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// DefaultWindow covers office hours.
func DefaultWindow() Window {
	return Window{StartHour: 8, EndHour: 18}
}

// Validate checks both hours are in 0..23.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("window start_hour %d out of range 0-23", w.StartHour)
	}
	if w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("window end_hour %d out of range 0-23", w.EndHour)
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	h := t.Hour()
	if w.StartHour <= w.EndHour {
		return h >= w.StartHour && h <= w.EndHour
	}
	return h >= w.StartHour || h <= w.EndHour
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:59", w.StartHour, w.EndHour)
}
