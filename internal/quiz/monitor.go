package quiz

import "sync"

// Monitor coalesces page-visibility and window-focus signals into
// loss-of-attention episodes. A single tab switch typically fires both a
// hidden and a blur signal; only the first signal of an episode invokes the
// penalty callback. Regaining attention re-arms the monitor so a later loss
// counts again.
type Monitor struct {
	mu        sync.Mutex
	away      bool
	onEpisode func()
}

// NewMonitor builds a monitor that calls onEpisode once per attention-loss
// episode. The callback decides whether a penalty actually applies (the
// session rejects penalties outside active timed phases).
func NewMonitor(onEpisode func()) *Monitor {
	return &Monitor{onEpisode: onEpisode}
}

// Hidden reports a visibilitychange-to-hidden signal.
func (m *Monitor) Hidden() { m.lost() }

// Blurred reports a window blur signal.
func (m *Monitor) Blurred() { m.lost() }

// Visible reports a visibilitychange-to-visible signal.
func (m *Monitor) Visible() { m.regained() }

// Focused reports a window focus signal.
func (m *Monitor) Focused() { m.regained() }

func (m *Monitor) lost() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.away {
		return
	}
	m.away = true
	if m.onEpisode != nil {
		m.onEpisode()
	}
}

func (m *Monitor) regained() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.away = false
}
