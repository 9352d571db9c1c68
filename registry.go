package main

import "sync"

const maxRooms = 100

// RoomRegistry is the process-wide mapping from room id to Room. Rooms are
// created on first join and destroyed the instant they become empty.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	db    *DB
}

// NewRoomRegistry creates an empty registry
func NewRoomRegistry(db *DB) *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*Room),
		db:    db,
	}
}

// GetOrCreate returns the room with the given id, creating it with the
// joining connection as owner if it doesn't exist. Returns nil when the
// room limit is reached.
func (rr *RoomRegistry) GetOrCreate(id, creatorConnID string) *Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if room, ok := rr.rooms[id]; ok {
		return room
	}
	if len(rr.rooms) >= maxRooms {
		return nil
	}
	room := NewRoom(id, creatorConnID, rr.db)
	rr.rooms[id] = room
	return room
}

// Get returns a room by id, or nil
func (rr *RoomRegistry) Get(id string) *Room {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.rooms[id]
}

// RemoveIfEmpty destroys the room if its player set is empty
func (rr *RoomRegistry) RemoveIfEmpty(id string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	room, ok := rr.rooms[id]
	if !ok {
		return
	}
	if room.PlayerCount() == 0 {
		room.StopTicker()
		delete(rr.rooms, id)
	}
}

// List returns the lobby view of every room
func (rr *RoomRegistry) List() []LobbyInfo {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	list := make([]LobbyInfo, 0, len(rr.rooms))
	for _, room := range rr.rooms {
		list = append(list, LobbyInfo{
			ID:          room.ID(),
			PlayerCount: room.PlayerCount(),
			GameState:   room.State(),
			OwnerID:     room.OwnerID(),
		})
	}
	return list
}
