package session

import "log/slog"

// EventKind names what changed.
type EventKind string

const (
	EventLoaded       EventKind = "loaded"
	EventTeam         EventKind = "team"
	EventReset        EventKind = "reset"
	EventDamageConfig EventKind = "damageConfig"
	EventSettings     EventKind = "settings"
)

// Event is a change notification. Position is set for single-axie changes.
type Event struct {
	Kind     EventKind `json:"kind"`
	Position string    `json:"position,omitempty"`
	Seq      uint64    `json:"seq"`
}

// subscriberBuffer is the per-subscriber queue length. A subscriber that
// falls further behind misses events; every event means "re-read state".
const subscriberBuffer = 16

// Subscribe registers for change events. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.subMu.Unlock()

	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) publish(kind EventKind, position string) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.seq++
	ev := Event{Kind: kind, Position: position, Seq: m.seq}
	for id, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("subscriber lagging, dropping event", "subscriber", id, "kind", kind)
		}
	}
}
