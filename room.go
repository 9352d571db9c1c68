package main

import (
	"errors"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate     = 120 // physics ticks per second
	TickDuration = time.Second / TickRate

	WinScore          = 3
	maxPlayersPerRoom = 8
)

var (
	errNotOwnerStart = errors.New("Only the room owner can start the game")
	errNotOwnerLobby = errors.New("Only the room owner can return to lobby")
	errRoomFull      = errors.New("room is full")
	errNotInLobby    = errors.New("game already in progress")
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Room holds one isolated lobby/match instance
type Room struct {
	mu      sync.RWMutex
	id      string
	ownerID string
	state   string
	players map[string]*Player
	clients map[string]Broadcaster

	ball    *Ball
	pads    []*BoostPad
	field   FieldDimensions
	scores  Scores
	kickoff Kickoff

	tick    uint64
	ticking bool
	stop    chan struct{}

	db *DB
}

// Kickoff restricts the scoring team from the center area until the
// conceding team touches the ball. Team is the team holding the kickoff.
type Kickoff struct {
	Active bool
	Team   string
}

// NewRoom creates a room owned by the creating connection
func NewRoom(id, ownerID string, db *DB) *Room {
	field := FieldForPlayerCount(0)
	return &Room{
		id:      id,
		ownerID: ownerID,
		state:   StateLobby,
		players: make(map[string]*Player),
		clients: make(map[string]Broadcaster),
		ball:    NewBall(field),
		pads:    MakeBoostPads(field),
		field:   field,
		db:      db,
	}
}

// ID returns the room identifier
func (r *Room) ID() string { return r.id }

// OwnerID returns the current owner's connection id
func (r *Room) OwnerID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ownerID
}

// State returns the current room state tag
func (r *Room) State() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// PlayerCount returns the number of players in the room
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// HasPlayer reports whether the connection is a member of the room
func (r *Room) HasPlayer(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[connID]
	return ok
}

// AddPlayer adds a player. The player starts unassigned and in the
// lobby-safe default position. Returns nil if the room is full.
func (r *Room) AddPlayer(connID, name string, authenticated bool) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= maxPlayersPerRoom {
		return nil
	}

	p := NewPlayer(connID, name, authenticated, r.field)
	r.players[connID] = p
	r.refitFieldLocked()
	return p
}

// SetClient associates a broadcaster with a player
func (r *Room) SetClient(connID string, client Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[connID] = client
}

// RemovePlayer removes a player. If the owner left and others remain,
// ownership transfers to an arbitrary remaining member. Returns true
// if the room is now empty (the caller destroys it).
func (r *Room) RemovePlayer(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.players, connID)
	delete(r.clients, connID)

	if r.ownerID == connID {
		for id := range r.players {
			r.ownerID = id
			break
		}
	}

	if len(r.players) == 0 {
		r.stopTickerLocked()
		return true
	}
	r.refitFieldLocked()
	return false
}

// SetTeam assigns a player to a team
func (r *Room) SetTeam(connID, team string) {
	if team != TeamRed && team != TeamBlue && team != TeamNone {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[connID]; ok {
		p.Team = team
	}
}

// SetInput replaces a player's key state wholesale. Inputs take effect
// at the start of the next tick; most recent input wins.
func (r *Room) SetInput(connID string, keys KeyState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[connID]; ok {
		p.Keys = keys
		p.LastInputAt = time.Now()
	}
}

// StartGame transitions Lobby -> Playing. Only the owner may start.
// Red kicks off the very first point by convention.
func (r *Room) StartGame(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if connID != r.ownerID {
		return errNotOwnerStart
	}
	if r.state != StateLobby {
		return errNotInLobby
	}

	r.state = StatePlaying
	r.scores = Scores{}
	r.kickoff = Kickoff{Active: true, Team: TeamRed}
	r.field = FieldForPlayerCount(len(r.players))
	r.pads = MakeBoostPads(r.field)
	r.ball.Reset(r.field)
	for _, p := range r.players {
		p.Goals = 0
		p.ResetForKickoff(r.field)
	}
	r.tick = 0
	r.startTickerLocked()

	r.broadcastLocked(Envelope{T: MsgGameStarted, Data: GameStartedMsg{OwnerID: r.ownerID}})
	// First snapshot goes out immediately so clients don't wait a tick
	r.broadcastSnapshotLocked()
	return nil
}

// ReturnToLobby transitions Playing/Finished -> Lobby. Only the owner may
// call it; calling it twice is harmless.
func (r *Room) ReturnToLobby(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if connID != r.ownerID {
		return errNotOwnerLobby
	}

	r.stopTickerLocked()
	r.state = StateLobby
	r.scores = Scores{}
	r.kickoff = Kickoff{}
	r.ball.Reset(r.field)
	for _, p := range r.players {
		p.Goals = 0
		p.X = 100
		p.Y = r.field.Height / 2
		p.Boost = BoostMax
	}

	r.broadcastLocked(Envelope{T: MsgRoomUpdate, Data: r.roomStateLocked()})
	return nil
}

// refitFieldLocked recomputes the field tier for the current population and
// regenerates the boost pad layout when the tier changed. Pad state resets
// with the layout; regeneration only happens here and at game start, never
// mid-tick.
func (r *Room) refitFieldLocked() {
	field := FieldForPlayerCount(len(r.players))
	if field == r.field {
		return
	}
	r.field = field
	r.pads = MakeBoostPads(field)
}

// startTickerLocked starts the fixed-tick loop. Safe to call when running.
func (r *Room) startTickerLocked() {
	if r.ticking {
		return
	}
	r.ticking = true
	r.stop = make(chan struct{})
	go r.run(r.stop)
}

// stopTickerLocked stops the tick loop. Safe to call when already stopped.
func (r *Room) stopTickerLocked() {
	if !r.ticking {
		return
	}
	r.ticking = false
	close(r.stop)
}

// StopTicker stops the room's tick loop
func (r *Room) StopTicker() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTickerLocked()
}

// run drives the fixed-interval tick loop for one match
func (r *Room) run(stop chan struct{}) {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.step()
		case <-stop:
			return
		}
	}
}

// step advances the simulation one tick and broadcasts the snapshot.
// All physics for a tick are applied before that tick's broadcast.
func (r *Room) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return
	}
	r.tick++
	r.updatePhysicsLocked()
	r.resolveGoalsLocked()
	r.broadcastSnapshotLocked()
}

// snapshotLocked assembles the full per-tick state
func (r *Room) snapshotLocked() GameSnapshot {
	snap := GameSnapshot{
		Players:       make([]PlayerState, 0, len(r.players)),
		Ball:          r.ball.ToState(),
		Scores:        r.scores,
		BoostPads:     make([]BoostPadState, 0, len(r.pads)),
		GameState:     r.state,
		KickoffActive: r.kickoff.Active,
		KickoffTeam:   r.kickoff.Team,
		MapDimensions: r.field,
		GoalHeight:    r.field.GoalHeight(),
		Tick:          r.tick,
	}
	for _, p := range r.players {
		snap.Players = append(snap.Players, p.ToState())
	}
	for _, pad := range r.pads {
		snap.BoostPads = append(snap.BoostPads, pad.ToState())
	}
	return snap
}

// broadcastSnapshotLocked pushes the snapshot to every connection in the
// room as a binary msgpack frame
func (r *Room) broadcastSnapshotLocked() {
	data, err := msgpack.Marshal(r.snapshotLocked())
	if err != nil {
		return
	}
	for _, client := range r.clients {
		client.SendBinary(data)
	}
}

// roomStateLocked builds the out-of-band room broadcast payload
func (r *Room) roomStateLocked() RoomState {
	state := RoomState{
		ID:      r.id,
		OwnerID: r.ownerID,
		Players: make([]PlayerState, 0, len(r.players)),
		State:   r.state,
		Scores:  r.scores,
	}
	for _, p := range r.players {
		state.Players = append(state.Players, p.ToState())
	}
	return state
}

// RoomState returns the current membership/score view of the room
func (r *Room) RoomState() RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomStateLocked()
}

// broadcastLocked sends a JSON envelope to every connection in the room
func (r *Room) broadcastLocked(msg Envelope) {
	for _, client := range r.clients {
		client.SendJSON(msg)
	}
}

// BroadcastRoomState pushes the membership view to all room members
func (r *Room) BroadcastRoomState() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.broadcastLocked(Envelope{T: MsgRoomUpdate, Data: r.roomStateLocked()})
}
