package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source used to stamp new records. Tests
// freeze it via SetClock for deterministic timestamps.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for record stamping. Pass nil to restore
// the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
