package sweep

import "time"

// Clock abstracts one-shot timer scheduling so tests can drive a sweep
// with a fake clock instead of real time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled call that can be cancelled before it fires.
type Timer interface {
	// Stop cancels the timer. It reports whether the call was prevented
	// from firing, matching time.Timer semantics.
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock Clock backed by time.AfterFunc.
func SystemClock() Clock {
	return realClock{}
}
