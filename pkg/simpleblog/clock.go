package simpleblog

import "time"

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewRealClock returns a Clock backed by the system clock (UTC).
func NewRealClock() Clock { return realClock{} }
