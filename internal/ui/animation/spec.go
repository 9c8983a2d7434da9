package animation

import (
	"fmt"
	"time"
)

// CelebrationSpec defines the banner frames for one celebration.
type CelebrationSpec struct {
	Frames   []string
	Duration time.Duration
}

// CelebrationFrames returns the banner frames shown when label is reached.
func CelebrationFrames(label string) []string {
	return []string{
		fmt.Sprintf("It's %s!", label),
		fmt.Sprintf("*  It's %s!  *", label),
		fmt.Sprintf("* *  It's %s!  * *", label),
		fmt.Sprintf("*  It's %s!  *", label),
	}
}
