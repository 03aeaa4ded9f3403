package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/errors"
)

// room holds one in-memory member set. Each room carries its own lock so
// unrelated rooms never serialize on each other.
type room struct {
	mu       sync.Mutex
	kind     domain.RoomKind
	capacity *int
	members  map[string]struct{}
	// dead is set under mu when Leave unlinks the room from the map.
	// A joiner still holding the detached pointer must retry, otherwise
	// its membership would be invisible to MembersOf and IsMember.
	dead bool
}

// Rooms maps room ids to member connection sets. Rooms are created lazily
// on first join and dropped when the last member leaves; durable chat-room
// membership lives in the directory, never here.
type Rooms struct {
	mu        sync.RWMutex
	log       *slog.Logger
	directory contract.IDirectory
	rooms     map[domain.RoomID]*room
}

func NewRooms(log *slog.Logger, directory contract.IDirectory) *Rooms {
	return &Rooms{log: log, directory: directory, rooms: make(map[domain.RoomID]*room)}
}

// Join adds a connection to a room's member set. It is idempotent.
// Chat rooms require the user to be a verified member of the underlying
// persisted room and respect the room's capacity; a notification room only
// admits its own user.
func (r *Rooms) Join(roomID domain.RoomID, connID, userID string) error {
	kind := domain.KindOf(roomID)
	switch kind {
	case domain.RoomKindNotification:
		if domain.OwnerOf(roomID) != userID {
			return errors.ErrForbidden
		}
	case domain.RoomKindChat:
		// Directory lookups happen before any lock is taken.
		member, err := r.directory.IsMember(userID, roomID)
		if err != nil {
			return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		if !member {
			return errors.ErrForbidden
		}
	}

	// A concurrent last-member Leave can unlink the room between the map
	// read and the member lock; joining that detached set would succeed
	// silently while never being broadcast to, so the join retries.
	for {
		rm, err := r.getOrCreate(roomID, kind)
		if err != nil {
			return err
		}

		rm.mu.Lock()
		if rm.dead {
			rm.mu.Unlock()
			continue
		}
		if _, ok := rm.members[connID]; ok {
			rm.mu.Unlock()
			return nil
		}
		if rm.capacity != nil && len(rm.members) >= *rm.capacity {
			rm.mu.Unlock()
			return errors.ErrCapacityExceeded
		}
		rm.members[connID] = struct{}{}
		rm.mu.Unlock()
		return nil
	}
}

// Leave is an idempotent removal. The last leave only drops the in-memory
// set; history survives and the room is recreated on the next join.
func (r *Rooms) Leave(roomID domain.RoomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return
	}
	rm.mu.Lock()
	delete(rm.members, connID)
	if len(rm.members) == 0 {
		rm.dead = true
		delete(r.rooms, roomID)
	}
	rm.mu.Unlock()
}

// MembersOf returns a snapshot of the room's member connections,
// used by the fan-out loop for broadcast targeting.
func (r *Rooms) MembersOf(roomID domain.RoomID) []string {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	members := make([]string, 0, len(rm.members))
	for connID := range rm.members {
		members = append(members, connID)
	}
	return members
}

func (r *Rooms) IsMember(roomID domain.RoomID, connID string) bool {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	_, ok = rm.members[connID]
	return ok
}

func (r *Rooms) getOrCreate(roomID domain.RoomID, kind domain.RoomKind) (*room, error) {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return rm, nil
	}

	// The capacity is fixed at room creation, derived from the related
	// planet or spaceship membership cap.
	var capacity *int
	if kind == domain.RoomKindChat {
		limit, err := r.directory.RoomCapacity(roomID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		capacity = limit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[roomID]; ok {
		return existing, nil
	}
	rm = &room{kind: kind, capacity: capacity, members: make(map[string]struct{})}
	r.rooms[roomID] = rm
	r.log.Debug("Room created", "room", roomID, "kind", kind)
	return rm, nil
}
