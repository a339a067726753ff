package ws

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type idSet map[uuid.UUID]struct{}

// Hub tracks one live connection per student and which sessions each
// student is watching.
type Hub struct {
	mu       sync.RWMutex
	conns    map[uuid.UUID]*Connection
	watchers map[uuid.UUID]idSet // session -> students
	watching map[uuid.UUID]idSet // student -> sessions
	logger   zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:    make(map[uuid.UUID]*Connection),
		watchers: make(map[uuid.UUID]idSet),
		watching: make(map[uuid.UUID]idSet),
		logger:   logger.With().Str("component", "ws_hub").Logger(),
	}
}

// RegisterConnection makes conn the student's active connection, closing
// any previous one. Watches survive a reconnect.
func (h *Hub) RegisterConnection(studentID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	prev := h.conns[studentID]
	h.conns[studentID] = conn
	h.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close()
	}
	h.logger.Debug().Str("student_id", studentID.String()).Msg("connection registered")
}

// UnregisterConnection closes conn and, when it is still the active one,
// forgets the student and all of their watches.
func (h *Hub) UnregisterConnection(studentID uuid.UUID, conn *Connection) {
	conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[studentID] != conn {
		return
	}
	delete(h.conns, studentID)
	for sessionID := range h.watching[studentID] {
		h.dropWatcher(sessionID, studentID)
	}
	delete(h.watching, studentID)
	h.logger.Debug().Str("student_id", studentID.String()).Msg("connection unregistered")
}

// WatchSession subscribes a student to pushes about a session.
func (h *Hub) WatchSession(sessionID, studentID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.watchers[sessionID] == nil {
		h.watchers[sessionID] = idSet{}
	}
	h.watchers[sessionID][studentID] = struct{}{}
	if h.watching[studentID] == nil {
		h.watching[studentID] = idSet{}
	}
	h.watching[studentID][sessionID] = struct{}{}
}

// UnwatchSession removes a student from a session's watchers.
func (h *Hub) UnwatchSession(sessionID, studentID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropWatcher(sessionID, studentID)
	if sessions := h.watching[studentID]; sessions != nil {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(h.watching, studentID)
		}
	}
}

// dropWatcher requires h.mu held.
func (h *Hub) dropWatcher(sessionID, studentID uuid.UUID) {
	students := h.watchers[sessionID]
	delete(students, studentID)
	if len(students) == 0 {
		delete(h.watchers, sessionID)
	}
}

// Watchers returns the students watching a session.
func (h *Hub) Watchers(sessionID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Collect(maps.Keys(h.watchers[sessionID]))
}

// BroadcastToSession queues msg for every watcher of a session and returns
// the first delivery error.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, msg Message) error {
	var firstErr error
	for _, studentID := range h.Watchers(sessionID) {
		if err := h.SendToUser(studentID, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToUser queues msg on the student's active connection.
func (h *Hub) SendToUser(studentID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn := h.conns[studentID]
	h.mu.RUnlock()

	if conn == nil {
		return ErrConnectionNotFound
	}
	return conn.Send(msg)
}
