package main

const (
	BallRadius   = 15.0
	BallFriction = 0.995 // velocity multiplier per tick
	WallBounce   = 0.3   // inelastic bounce coefficient
)

// Ball is the single ball entity in a room
type Ball struct {
	X, Y          float64
	VX, VY        float64
	Radius        float64
	LastTouchedBy string // player id, "" when untouched since last reset
}

// NewBall creates a ball at the center of the field
func NewBall(field FieldDimensions) *Ball {
	return &Ball{
		X:      field.Width / 2,
		Y:      field.Height / 2,
		Radius: BallRadius,
	}
}

// Reset recenters the ball and clears velocity and touch attribution
func (b *Ball) Reset(field FieldDimensions) {
	b.X = field.Width / 2
	b.Y = field.Height / 2
	b.VX = 0
	b.VY = 0
	b.LastTouchedBy = ""
}

// ToState converts to protocol state
func (b *Ball) ToState() BallState {
	return BallState{
		X:      b.X,
		Y:      b.Y,
		VX:     b.VX,
		VY:     b.VY,
		Radius: b.Radius,
	}
}
