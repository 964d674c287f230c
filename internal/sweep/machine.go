package sweep

// machine is the pure Idle/Running cursor state machine behind a Sweeper.
// It knows nothing about timers or callbacks, so transitions can be
// tested without any clock involved.
type machine struct {
	n       int
	cursor  int
	running bool
}

// start moves Idle -> Running with the cursor reset to segment 0.
// It reports false, changing nothing, when already running or when there
// are no segments to cycle.
func (m *machine) start() bool {
	if m.running || m.n == 0 {
		return false
	}
	m.running = true
	m.cursor = 0
	return true
}

// stop moves Running -> Idle. Reports false when already idle.
func (m *machine) stop() bool {
	if !m.running {
		return false
	}
	m.running = false
	return true
}

// step returns the current cursor position and advances it, wrapping
// around the segment count. The sweep is a non-terminating cycle; only
// stop ends it.
func (m *machine) step() int {
	i := m.cursor
	m.cursor = (m.cursor + 1) % m.n
	return i
}
