package main

import "math"

const (
	HitForce           = 0.8
	BoostHitMultiplier = 1.3
	BoostKickCost      = 15.0
	KickRangeBuffer    = 10.0
	DribblePush        = 0.02
	DribblePushBoosted = 0.05
	DribbleMoveFactor  = 0.02
)

// updatePhysicsLocked advances all bodies one tick. The order is fixed:
// player movement, player-player separation, kickoff enforcement, bounds
// clamp, kicks and pad pickups, then ball update and pad cooldowns.
func (r *Room) updatePhysicsLocked() {
	for _, p := range r.players {
		r.movePlayer(p)
	}
	r.separatePlayers()
	r.enforceKickoff()
	for _, p := range r.players {
		p.X = Clamp(p.X, -BoundsOverflow, r.field.Width+BoundsOverflow)
		p.Y = Clamp(p.Y, -BoundsOverflow, r.field.Height+BoundsOverflow)
	}
	for _, p := range r.players {
		if p.Keys.Kick {
			r.kickBall(p)
		}
		r.pickUpPads(p)
	}
	r.updateBall()
	r.updatePads()
}

// movePlayer applies 8-directional input and the boost economy
func (r *Room) movePlayer(p *Player) {
	speed := BaseSpeed
	if p.Boosting() {
		speed = BoostSpeed
		p.Boost = math.Max(0, p.Boost-BoostDrainRate)
	} else {
		p.Boost = math.Min(BoostMax, p.Boost+BoostRegenRate)
	}

	dx, dy := p.MoveDir()
	if dx != 0 && dy != 0 {
		dx *= DiagonalFactor
		dy *= DiagonalFactor
	}
	p.X += dx * speed
	p.Y += dy * speed
}

// separatePlayers pushes overlapping players apart by half the overlap
// each, symmetrically, with no mass weighting
func (r *Room) separatePlayers() {
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			dist := Distance(a.X, a.Y, b.X, b.Y)
			if dist >= 2*PlayerRadius || dist == 0 {
				continue
			}
			angle := math.Atan2(b.Y-a.Y, b.X-a.X)
			half := (2*PlayerRadius - dist) / 2
			a.X -= math.Cos(angle) * half
			a.Y -= math.Sin(angle) * half
			b.X += math.Cos(angle) * half
			b.Y += math.Sin(angle) * half
		}
	}
}

// enforceKickoff keeps the scoring team on its own half and out of the
// center circle until the kickoff holder touches the ball
func (r *Room) enforceKickoff() {
	if !r.kickoff.Active {
		return
	}
	restricted := TeamBlue
	if r.kickoff.Team == TeamBlue {
		restricted = TeamRed
	}
	cx := r.field.Width / 2
	cy := r.field.Height / 2
	exclusion := CenterCircleRadius + PlayerRadius

	for _, p := range r.players {
		if p.Team != restricted {
			continue
		}
		// Own half: red defends the left side
		if p.Team == TeamRed {
			p.X = math.Min(p.X, cx)
		} else {
			p.X = math.Max(p.X, cx)
		}
		// Push radially out of the center circle
		dist := Distance(p.X, p.Y, cx, cy)
		if dist < exclusion {
			if dist == 0 {
				p.X = cx + exclusion
				continue
			}
			angle := math.Atan2(p.Y-cy, p.X-cx)
			p.X = cx + math.Cos(angle)*exclusion
			p.Y = cy + math.Sin(angle)*exclusion
		}
	}
}

// touchBall records attribution and lifts the kickoff restriction when the
// kickoff holder makes first contact
func (r *Room) touchBall(p *Player) {
	r.ball.LastTouchedBy = p.ID
	if r.kickoff.Active && p.Team == r.kickoff.Team {
		r.kickoff = Kickoff{}
	}
}

// kickBall applies an instantaneous impulse along the player->ball vector,
// with a stronger (and boost-costing) hit while boosting, plus a small
// random jitter on both axes
func (r *Room) kickBall(p *Player) {
	dist := Distance(p.X, p.Y, r.ball.X, r.ball.Y)
	if dist >= PlayerRadius+r.ball.Radius+KickRangeBuffer {
		return
	}
	angle := math.Atan2(r.ball.Y-p.Y, r.ball.X-p.X)
	force := HitForce
	if p.Boosting() && p.Boost > BoostKickCost {
		force *= BoostHitMultiplier
		p.Boost -= BoostKickCost
	}
	r.ball.VX += math.Cos(angle)*force + (randFloat()-0.5)*2
	r.ball.VY += math.Sin(angle)*force + (randFloat()-0.5)*2
	r.touchBall(p)
}

// dribbleBall resolves passive player-ball contact: separate the two bodies
// and nudge the ball so it loosely follows a moving player
func (r *Room) dribbleBall(p *Player) {
	dist := Distance(p.X, p.Y, r.ball.X, r.ball.Y)
	minDist := PlayerRadius + r.ball.Radius
	if dist >= minDist {
		return
	}
	angle := math.Atan2(r.ball.Y-p.Y, r.ball.X-p.X)
	overlap := minDist - dist
	sepX := math.Cos(angle) * overlap * 0.5
	sepY := math.Sin(angle) * overlap * 0.5
	r.ball.X += sepX
	r.ball.Y += sepY
	p.X -= sepX
	p.Y -= sepY

	push := DribblePush
	if p.Boosting() {
		push = DribblePushBoosted
	}
	dx, dy := p.MoveDir()
	r.ball.VX += math.Cos(angle)*push + dx*DribbleMoveFactor
	r.ball.VY += math.Sin(angle)*push + dy*DribbleMoveFactor
	r.touchBall(p)
}

// updateBall resolves player contact, integrates velocity with friction and
// bounces off the walls inelastically
func (r *Room) updateBall() {
	for _, p := range r.players {
		r.dribbleBall(p)
	}

	b := r.ball
	b.X += b.VX
	b.Y += b.VY
	b.VX *= BallFriction
	b.VY *= BallFriction

	if b.X-b.Radius <= 0 || b.X+b.Radius >= r.field.Width {
		b.VX *= -WallBounce
		b.X = Clamp(b.X, b.Radius, r.field.Width-b.Radius)
	}
	if b.Y-b.Radius <= 0 || b.Y+b.Radius >= r.field.Height {
		b.VY *= -WallBounce
		b.Y = Clamp(b.Y, b.Radius, r.field.Height-b.Radius)
	}
}

// pickUpPads refills boost from any active pad the player is standing on
func (r *Room) pickUpPads(p *Player) {
	for _, pad := range r.pads {
		if !pad.Active {
			continue
		}
		if Distance(p.X, p.Y, pad.X, pad.Y) < PlayerRadius+PadRadius {
			p.Boost = BoostMax
			pad.Active = false
			pad.Cooldown = PadMaxCooldown
		}
	}
}

// updatePads ticks down inactive pad cooldowns and reactivates them at zero
func (r *Room) updatePads() {
	for _, pad := range r.pads {
		if pad.Active {
			continue
		}
		pad.Cooldown--
		if pad.Cooldown <= 0 {
			pad.Cooldown = 0
			pad.Active = true
		}
	}
}
