package main

import (
	"log"
	"sort"
)

// resolveGoalsLocked tests the ball against both goal mouths after ball
// physics. Each team defends the goal on its own side: a ball in the left
// goal scores for blue, the right goal for red.
func (r *Room) resolveGoalsLocked() {
	if r.state != StatePlaying {
		return
	}

	switch {
	case r.field.LeftGoal().Contains(r.ball.X, r.ball.Y):
		r.scoreGoalLocked(TeamBlue, TeamRed)
	case r.field.RightGoal().Contains(r.ball.X, r.ball.Y):
		r.scoreGoalLocked(TeamRed, TeamBlue)
	}
}

// scoreGoalLocked credits a goal to scoring and hands the kickoff to
// conceding. The last toucher only gets a personal tally when their team
// matches the scoring team, so an own goal counts for the team but credits
// nobody.
func (r *Room) scoreGoalLocked(scoring, conceding string) {
	if scoring == TeamRed {
		r.scores.Red++
	} else {
		r.scores.Blue++
	}

	if toucher, ok := r.players[r.ball.LastTouchedBy]; ok && toucher.Team == scoring {
		toucher.Goals++
	}

	r.kickoff = Kickoff{Active: true, Team: conceding}

	if r.scores.Red >= WinScore || r.scores.Blue >= WinScore {
		r.finishMatchLocked(scoring)
		return
	}

	r.ball.Reset(r.field)
	for _, p := range r.players {
		p.ResetForKickoff(r.field)
	}
}

// finishMatchLocked ends the match: Finished is terminal until the owner
// explicitly returns the room to the lobby
func (r *Room) finishMatchLocked(winningTeam string) {
	r.state = StateFinished
	r.stopTickerLocked()

	results := GameEndedMsg{
		WinningTeam: winningTeam,
		FinalScores: r.scores,
		PlayerStats: make([]PlayerResult, 0, len(r.players)),
	}
	for _, p := range r.players {
		results.PlayerStats = append(results.PlayerStats, PlayerResult{
			ID:    p.ID,
			Name:  p.Name,
			Team:  p.Team,
			Goals: p.Goals,
		})
	}
	sort.Slice(results.PlayerStats, func(i, j int) bool {
		return results.PlayerStats[i].Goals > results.PlayerStats[j].Goals
	})

	r.broadcastLocked(Envelope{T: MsgGameEnded, Data: results})
	r.persistResultsLocked(winningTeam)
}

// eligibleForStats reports whether a player's result should be persisted
func eligibleForStats(p *Player) bool {
	return len(p.Name) >= 3 && p.Team != TeamNone
}

// persistResultsLocked records final per-player totals through the stats
// collaborator. Fire-and-forget: a failed write is logged and never affects
// the in-memory outcome or other players' results.
func (r *Room) persistResultsLocked(winningTeam string) {
	if r.db == nil {
		return
	}
	type result struct {
		name  string
		won   bool
		goals int
	}
	var eligible []result
	for _, p := range r.players {
		if !eligibleForStats(p) {
			continue
		}
		eligible = append(eligible, result{p.Name, p.Team == winningTeam, p.Goals})
	}

	go func(db *DB, roomID string) {
		for _, res := range eligible {
			if err := db.RecordMatchResult(res.name, res.won, res.goals); err != nil {
				log.Printf("room %s: stats persist failed for %s: %v", roomID, res.name, err)
			}
		}
	}(r.db, r.id)
}
