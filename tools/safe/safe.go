package safe

import (
	"FamilyHub/logger"
)

// Go starts a goroutine that recovers from panic, so a misbehaving hook
// or mirror write can never take down the transport loop.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Call invokes f inline with panic recovery and returns whether it
// completed normally.
func Call(f func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[safe.Call] panic recovered: %v", r)
			ok = false
		}
	}()
	f()
	return true
}
