package main

const (
	GoalDepth          = 20.0
	GoalHeightMax      = 160.0
	GoalHeightFraction = 0.3
	CenterCircleRadius = 80.0
	PadRadius          = 20.0
	PadMaxCooldown     = 180 // ticks
	PadMargin          = 50.0
)

// FieldDimensions is the playfield size for the current population tier
type FieldDimensions struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// FieldForPlayerCount returns the map tier for the given room population:
// small for up to 4 players, medium for 5-6, large for 7-8
func FieldForPlayerCount(n int) FieldDimensions {
	switch {
	case n <= 4:
		return FieldDimensions{Width: 700, Height: 400}
	case n <= 6:
		return FieldDimensions{Width: 900, Height: 500}
	default:
		return FieldDimensions{Width: 1100, Height: 600}
	}
}

// GoalHeight returns the goal mouth height for the field size
func (f FieldDimensions) GoalHeight() float64 {
	h := f.Height * GoalHeightFraction
	if h > GoalHeightMax {
		h = GoalHeightMax
	}
	return h
}

// GoalRect is an axis-aligned goal mouth at one end of the field
type GoalRect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether a point lies inside the goal rectangle
func (g GoalRect) Contains(x, y float64) bool {
	return x >= g.X && x <= g.X+g.Width && y >= g.Y && y <= g.Y+g.Height
}

// LeftGoal returns the goal red defends; a ball inside it scores for blue
func (f FieldDimensions) LeftGoal() GoalRect {
	gh := f.GoalHeight()
	return GoalRect{X: 0, Y: f.Height/2 - gh/2, Width: GoalDepth, Height: gh}
}

// RightGoal returns the goal blue defends; a ball inside it scores for red
func (f FieldDimensions) RightGoal() GoalRect {
	gh := f.GoalHeight()
	return GoalRect{X: f.Width - GoalDepth, Y: f.Height/2 - gh/2, Width: GoalDepth, Height: gh}
}

// BoostPad is a fixed-position boost pickup
type BoostPad struct {
	X, Y     float64
	Active   bool
	Cooldown int
}

// MakeBoostPads lays out the four corner pads for the field size.
// Regenerating the layout resets any in-flight cooldowns.
func MakeBoostPads(f FieldDimensions) []*BoostPad {
	return []*BoostPad{
		{X: PadMargin, Y: PadMargin, Active: true},
		{X: f.Width - PadMargin, Y: PadMargin, Active: true},
		{X: PadMargin, Y: f.Height - PadMargin, Active: true},
		{X: f.Width - PadMargin, Y: f.Height - PadMargin, Active: true},
	}
}

// ToState converts to protocol state
func (p *BoostPad) ToState() BoostPadState {
	return BoostPadState{
		X:        p.X,
		Y:        p.Y,
		Active:   p.Active,
		Cooldown: p.Cooldown,
	}
}
