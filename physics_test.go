package main

import (
	"math"
	"testing"
)

// newPlayingRoom builds a room in the playing state without a ticker, so
// tests can step the simulation by hand
func newPlayingRoom(t *testing.T, teams ...string) (*Room, []*Player) {
	t.Helper()
	r := NewRoom("test", "p0", nil)
	players := make([]*Player, 0, len(teams))
	for i, team := range teams {
		id := "p" + string(rune('0'+i))
		p := r.AddPlayer(id, "Player"+string(rune('0'+i)), false)
		if p == nil {
			t.Fatal("add player failed")
		}
		p.Team = team
		p.ResetForKickoff(r.field)
		players = append(players, p)
	}
	r.state = StatePlaying
	return r, players
}

func TestDiagonalSpeedEqualsAxisSpeed(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	x0, y0 := p.X, p.Y

	p.Keys = KeyState{Right: true, Down: true}
	r.movePlayer(p)

	moved := Distance(x0, y0, p.X, p.Y)
	if math.Abs(moved-BaseSpeed) > 1e-6 {
		t.Errorf("diagonal speed %f, want %f", moved, BaseSpeed)
	}
}

func TestBoostDrainAndRegen(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]

	p.Keys = KeyState{Right: true, Boost: true}
	r.movePlayer(p)
	if p.Boost != BoostMax-BoostDrainRate {
		t.Errorf("boost after one boosting tick: %f", p.Boost)
	}

	p.Keys = KeyState{}
	r.movePlayer(p)
	if p.Boost != BoostMax-BoostDrainRate+BoostRegenRate {
		t.Errorf("boost after regen tick: %f", p.Boost)
	}
}

func TestBoostClampedEveryTick(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]

	p.Keys = KeyState{Right: true, Boost: true}
	for i := 0; i < 200; i++ {
		r.updatePhysicsLocked()
		if p.Boost < 0 || p.Boost > BoostMax {
			t.Fatalf("boost out of range at tick %d: %f", i, p.Boost)
		}
	}
	if p.Boost != 0 {
		t.Errorf("boost should be fully drained after 200 ticks, got %f", p.Boost)
	}

	p.Keys = KeyState{}
	for i := 0; i < 5000; i++ {
		r.movePlayer(p)
	}
	if p.Boost != BoostMax {
		t.Errorf("boost should cap at %f, got %f", BoostMax, p.Boost)
	}
}

func TestBoostSpeedWhileBoosting(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	x0 := p.X

	p.Keys = KeyState{Right: true, Boost: true}
	r.movePlayer(p)
	if math.Abs((p.X-x0)-BoostSpeed) > 1e-6 {
		t.Errorf("boosted speed %f, want %f", p.X-x0, BoostSpeed)
	}

	// No reserve left: base speed even with the key held
	p.Boost = 0
	x0 = p.X
	r.movePlayer(p)
	if math.Abs((p.X-x0)-BaseSpeed) > 1e-6 {
		t.Errorf("speed without reserve %f, want %f", p.X-x0, BaseSpeed)
	}
}

func TestPlayerSeparationSymmetric(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed, TeamBlue)
	a, b := players[0], players[1]
	a.X, a.Y = 300, 200
	b.X, b.Y = 300+PlayerRadius, 200 // overlapping by one radius

	r.separatePlayers()

	if dist := Distance(a.X, a.Y, b.X, b.Y); math.Abs(dist-2*PlayerRadius) > 1e-6 {
		t.Errorf("separation distance %f, want %f", dist, 2*PlayerRadius)
	}
	// Symmetric: both moved by the same amount
	movedA := 300 - a.X
	movedB := b.X - (300 + PlayerRadius)
	if movedA < 1e-9 || math.Abs(movedA-movedB) > 1e-6 {
		t.Errorf("push not symmetric: a moved %f, b moved %f", movedA, movedB)
	}
}

func TestBoundsOverflowAllowance(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	p.X, p.Y = -1000, 1000

	r.updatePhysicsLocked()

	if p.X != -BoundsOverflow {
		t.Errorf("x clamped to %f, want %f", p.X, -BoundsOverflow)
	}
	if p.Y != r.field.Height+BoundsOverflow {
		t.Errorf("y clamped to %f, want %f", p.Y, r.field.Height+BoundsOverflow)
	}
}

func TestKickoffHalfClamp(t *testing.T) {
	r, players := newPlayingRoom(t, TeamBlue)
	p := players[0]
	r.kickoff = Kickoff{Active: true, Team: TeamRed} // blue scored restriction... red holds kickoff, blue restricted

	// Blue tries to cross into red's half
	p.X = 100
	p.Y = 50
	r.enforceKickoff()

	if p.X < r.field.Width/2 {
		t.Errorf("restricted blue player crossed center: x=%f", p.X)
	}
}

func TestKickoffCenterCircleExclusion(t *testing.T) {
	r, players := newPlayingRoom(t, TeamBlue)
	p := players[0]
	r.kickoff = Kickoff{Active: true, Team: TeamRed}

	cx, cy := r.field.Width/2, r.field.Height/2
	p.X, p.Y = cx+10, cy+5
	r.enforceKickoff()

	want := CenterCircleRadius + PlayerRadius
	if dist := Distance(p.X, p.Y, cx, cy); math.Abs(dist-want) > 1e-6 {
		t.Errorf("pushed to distance %f from center, want %f", dist, want)
	}
}

func TestKickoffHolderUnrestricted(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	r.kickoff = Kickoff{Active: true, Team: TeamRed}

	cx, cy := r.field.Width/2, r.field.Height/2
	p.X, p.Y = cx+10, cy
	r.enforceKickoff()

	if p.X != cx+10 || p.Y != cy {
		t.Error("kickoff holder should approach freely")
	}
}

func TestKickoffClearsOnHolderTouch(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	r.kickoff = Kickoff{Active: true, Team: TeamRed}

	// Stand touching the ball
	p.X = r.ball.X - PlayerRadius - r.ball.Radius + 5
	p.Y = r.ball.Y
	r.dribbleBall(p)

	if r.kickoff.Active {
		t.Error("kickoff should lift on the holder's first touch")
	}
	if r.ball.LastTouchedBy != p.ID {
		t.Errorf("lastTouchedBy = %q, want %q", r.ball.LastTouchedBy, p.ID)
	}
}

func TestKickoffSurvivesOpponentTouch(t *testing.T) {
	r, players := newPlayingRoom(t, TeamBlue)
	p := players[0]
	r.kickoff = Kickoff{Active: true, Team: TeamRed}

	p.X = r.ball.X - PlayerRadius - r.ball.Radius + 5
	p.Y = r.ball.Y
	r.dribbleBall(p)

	if !r.kickoff.Active {
		t.Error("a non-holder touch must not lift the kickoff")
	}
}

func TestKickImpulse(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	p.X = r.ball.X - PlayerRadius - r.ball.Radius - 5 // inside kick range, outside dribble range
	p.Y = r.ball.Y
	p.Keys = KeyState{Kick: true}

	r.kickBall(p)

	// Impulse along +X of magnitude HitForce, jitter at most 1 per axis
	if r.ball.VX < HitForce-1 || r.ball.VX > HitForce+1 {
		t.Errorf("kick VX %f outside expected band", r.ball.VX)
	}
	if r.ball.LastTouchedBy != p.ID {
		t.Error("kick should attribute the touch")
	}
}

func TestKickOutOfRange(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	p.X = r.ball.X - PlayerRadius - r.ball.Radius - KickRangeBuffer - 1
	p.Y = r.ball.Y

	r.kickBall(p)

	if r.ball.VX != 0 || r.ball.VY != 0 {
		t.Error("out-of-range kick must not move the ball")
	}
}

func TestBoostedKickCostsBoost(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	p.X = r.ball.X - PlayerRadius - r.ball.Radius - 5
	p.Y = r.ball.Y
	p.Keys = KeyState{Kick: true, Boost: true}
	p.Boost = 50

	r.kickBall(p)

	if p.Boost != 50-BoostKickCost {
		t.Errorf("boosted kick should cost %f boost, reserve now %f", BoostKickCost, p.Boost)
	}
	if r.ball.VX < HitForce*BoostHitMultiplier-1 {
		t.Errorf("boosted kick VX %f below expected", r.ball.VX)
	}
}

func TestBallWallBounce(t *testing.T) {
	r, _ := newPlayingRoom(t, TeamRed)
	b := r.ball
	b.X = r.field.Width - b.Radius - 1
	b.Y = 200
	b.VX = 10

	r.updateBall()

	if b.VX >= 0 {
		t.Errorf("VX should reflect, got %f", b.VX)
	}
	wantVX := 10 * BallFriction * -WallBounce
	if math.Abs(b.VX-wantVX) > 1e-6 {
		t.Errorf("bounce VX %f, want %f", b.VX, wantVX)
	}
	if b.X < b.Radius || b.X > r.field.Width-b.Radius {
		t.Errorf("ball outside bounds after bounce: %f", b.X)
	}
}

func TestBallStaysInBounds(t *testing.T) {
	r, _ := newPlayingRoom(t, TeamRed)
	b := r.ball
	b.VX, b.VY = 50, -40

	for i := 0; i < 1000; i++ {
		r.updateBall()
		if b.X < b.Radius || b.X > r.field.Width-b.Radius ||
			b.Y < b.Radius || b.Y > r.field.Height-b.Radius {
			t.Fatalf("ball escaped at tick %d: (%f, %f)", i, b.X, b.Y)
		}
	}
}

func TestBallFriction(t *testing.T) {
	r, _ := newPlayingRoom(t, TeamRed)
	b := r.ball
	b.VX = 1

	r.updateBall()
	if math.Abs(b.VX-BallFriction) > 1e-9 {
		t.Errorf("friction VX %f, want %f", b.VX, BallFriction)
	}
}

func TestDribblePushesBall(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	p.X = r.ball.X - PlayerRadius - r.ball.Radius + 4
	p.Y = r.ball.Y
	p.Keys = KeyState{Right: true}
	px := p.X

	r.dribbleBall(p)

	if r.ball.VX <= 0 {
		t.Errorf("ball should be nudged forward, VX=%f", r.ball.VX)
	}
	if p.X >= px {
		t.Error("player should be pushed back by half the overlap")
	}
}

func TestBoostPadPickupAndCooldown(t *testing.T) {
	r, players := newPlayingRoom(t, TeamRed)
	p := players[0]
	pad := r.pads[0]
	p.X, p.Y = pad.X, pad.Y
	p.Boost = 10

	r.pickUpPads(p)

	if p.Boost != BoostMax {
		t.Errorf("pickup should refill boost to %f, got %f", BoostMax, p.Boost)
	}
	if pad.Active {
		t.Fatal("pad should deactivate on pickup")
	}
	if pad.Cooldown != PadMaxCooldown {
		t.Fatalf("cooldown %d, want %d", pad.Cooldown, PadMaxCooldown)
	}

	// Cannot be picked up while inactive
	p.Boost = 10
	r.pickUpPads(p)
	if p.Boost != 10 {
		t.Error("inactive pad must not grant boost")
	}

	// Reactivates after exactly maxCooldown ticks
	for i := 0; i < PadMaxCooldown-1; i++ {
		r.updatePads()
		if pad.Active {
			t.Fatalf("pad reactivated early at tick %d", i+1)
		}
	}
	r.updatePads()
	if !pad.Active {
		t.Error("pad should reactivate after the full cooldown")
	}
}
