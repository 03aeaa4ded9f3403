// Package runtime wires connections, rooms, and workers together.
// It orchestrates the system without containing business rules.
package runtime

import (
	"sync"

	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/errors"
)

// session is the ephemeral handle for one live connection.
type session struct {
	userID string
	sink   contract.EventSink
	rooms  map[domain.RoomID]struct{}
}

// Registry tracks live connections, their bound identity, and which rooms
// each belongs to. A user may hold several sessions at once (multi-device).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	byUser   map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		byUser:   make(map[string]map[string]struct{}),
	}
}

// Register creates an unauthenticated handle for a new connection.
func (r *Registry) Register(connID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = &session{sink: sink, rooms: make(map[domain.RoomID]struct{})}
}

// BindIdentity attaches an identity after gate approval. Rebinding to the
// same user is a no-op; binding to a different user is rejected.
func (r *Registry) BindIdentity(connID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return errors.ErrNotFound
	}
	if s.userID != "" && s.userID != userID {
		return errors.ErrUnauthorized
	}
	s.userID = userID

	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(map[string]struct{})
	}
	r.byUser[userID][connID] = struct{}{}
	return nil
}

// Unregister removes the handle and returns the rooms it belonged to so the
// caller can cascade the membership cleanup. The sink disappears atomically
// with the session: a broadcast resolving targets afterwards simply no
// longer sees this connection.
func (r *Registry) Unregister(connID string) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	delete(r.sessions, connID)

	if s.userID != "" {
		if conns, ok := r.byUser[s.userID]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(r.byUser, s.userID)
			}
		}
	}

	rooms := make([]domain.RoomID, 0, len(s.rooms))
	for room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// ConnectionsFor supports multi-device fan-out: one user, several sockets.
func (r *Registry) ConnectionsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]string, 0, len(r.byUser[userID]))
	for connID := range r.byUser[userID] {
		conns = append(conns, connID)
	}
	return conns
}

func (r *Registry) SinkFor(connID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil, false
	}
	return s.sink, true
}

func (r *Registry) UserOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok || s.userID == "" {
		return "", false
	}
	return s.userID, true
}

func (r *Registry) AddRoom(connID string, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[connID]; ok {
		s.rooms[room] = struct{}{}
	}
}

func (r *Registry) RemoveRoom(connID string, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[connID]; ok {
		delete(s.rooms, room)
	}
}

func (r *Registry) RoomsOf(connID string) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	rooms := make([]domain.RoomID, 0, len(s.rooms))
	for room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
