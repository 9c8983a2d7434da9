package animation

import "time"

// DefaultConfig returns the celebration timing used by the countdown window.
func DefaultConfig() Config {
	return Config{
		FrameHold: Range{
			Min: 350 * time.Millisecond,
			Max: 600 * time.Millisecond,
		},
		FlashHold: Range{
			Min: 80 * time.Millisecond,
			Max: 150 * time.Millisecond,
		},
		FlashChance: 0.15,
	}
}
