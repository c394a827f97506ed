// internal/game/room_store.go
package game

import "sync"

// RoomStore manages rooms in memory, keyed by id. Rooms are created lazily on
// first reference and live for the rest of the process; there is no eviction.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRoomStore returns an empty in-memory store.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// Ensure returns the room for id, creating it (with emit as its event sink) on
// first reference. Repeated calls with the same id always return the same
// instance, never a fresh deck.
func (s *RoomStore) Ensure(id string, emit EmitFunc) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, emit)
	s.rooms[id] = r
	return r
}

// Get retrieves a room if it exists.
func (s *RoomStore) Get(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Len reports how many rooms exist, typically for debugging or stats.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
