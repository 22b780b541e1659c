package globe

// Latch is a one-time trigger: the first Fire runs its action and every later
// call is a no-op. The zero value is ready to use.
type Latch struct {
	fired bool
}

// Fire runs fn if the latch has not fired yet and reports whether it ran.
// A nil fn still trips the latch.
func (l *Latch) Fire(fn func()) bool {
	if l.fired {
		return false
	}
	l.fired = true
	if fn != nil {
		fn()
	}
	return true
}

// Fired reports whether Fire has already run.
func (l *Latch) Fired() bool {
	return l.fired
}
