package main

import "time"

const (
	PlayerRadius   = 20.0
	BaseSpeed      = 1.5  // pixels/tick
	BoostSpeed     = 2.7  // pixels/tick while boosting
	DiagonalFactor = 0.70710678
	BoostMax       = 100.0
	BoostDrainRate = 1.0  // per tick while boosting
	BoostRegenRate = 0.05 // per tick while not boosting
	// Players may extend this far past the field boundary (soft bounds)
	BoundsOverflow = PlayerRadius * 0.6
)

// Team identifiers as used on the wire
const (
	TeamNone = ""
	TeamRed  = "red"
	TeamBlue = "blue"
)

// KeyState is the last-known input, replaced wholesale on every input message
type KeyState struct {
	Up    bool `json:"w" msgpack:"w"`
	Down  bool `json:"s" msgpack:"s"`
	Left  bool `json:"a" msgpack:"a"`
	Right bool `json:"d" msgpack:"d"`
	Kick  bool `json:"space" msgpack:"space"`
	Boost bool `json:"shift" msgpack:"shift"`
}

// Player represents one connected participant in a room
type Player struct {
	ID            string
	Name          string
	Team          string
	X, Y          float64
	Boost         float64
	Keys          KeyState
	Goals         int
	Authenticated bool
	LastInputAt   time.Time
}

// NewPlayer creates a player at the lobby default position
func NewPlayer(id, name string, authenticated bool, field FieldDimensions) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		Team:          TeamNone,
		X:             100,
		Y:             field.Height / 2,
		Boost:         BoostMax,
		Authenticated: authenticated,
	}
}

// Boosting reports whether the player is actively boosting this tick
func (p *Player) Boosting() bool {
	return p.Keys.Boost && p.Boost > 0
}

// MoveDir returns the raw movement direction from the held keys (-1/0/1 per axis)
func (p *Player) MoveDir() (dx, dy float64) {
	if p.Keys.Left {
		dx--
	}
	if p.Keys.Right {
		dx++
	}
	if p.Keys.Up {
		dy--
	}
	if p.Keys.Down {
		dy++
	}
	return dx, dy
}

// ResetForKickoff moves the player to the team spawn and refills boost
func (p *Player) ResetForKickoff(field FieldDimensions) {
	if p.Team == TeamBlue {
		p.X = field.Width - 100
	} else {
		p.X = 100
	}
	p.Y = field.Height / 2
	p.Boost = BoostMax
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		Team:  p.Team,
		X:     p.X,
		Y:     p.Y,
		Boost: p.Boost,
		Keys:  p.Keys,
	}
}
