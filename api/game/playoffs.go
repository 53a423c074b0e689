/* playoffs.go
 * Contains the human team's side of the playoff bracket
 */

package game

import (
	"major-sim/api/battle"
	"major-sim/api/shared"
	"major-sim/api/tournament"
)

// nextPlayoffMatch returns the human's next ready bracket match, or nil
func (o *Orchestrator) nextPlayoffMatch() *tournament.PlayoffMatch {
	if o.tour == nil || o.tour.Bracket == nil || o.selected == nil {
		return nil
	}
	m := o.tour.Bracket.NextMatchFor(o.selected)
	if m == nil || !m.Ready() {
		return nil
	}
	return m
}

// PlayerPlayoffMatch returns the human's next bracket match
func (o *Orchestrator) PlayerPlayoffMatch() (tournament.PlayoffMatchSnapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Bracket == nil || o.selected == nil {
		return tournament.PlayoffMatchSnapshot{}, false
	}
	m := o.tour.Bracket.NextMatchFor(o.selected)
	if m == nil {
		return tournament.PlayoffMatchSnapshot{}, false
	}
	return matchView(m), true
}

// StartPlayoffMatch starts the human's next ready bracket match on three fresh maps
func (o *Orchestrator) StartPlayoffMatch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startPlayoffMatch(o.nextPlayoffMatch())
}

func (o *Orchestrator) startPlayoffMatch(m *tournament.PlayoffMatch) bool {
	if m == nil || o.inProgress() || o.tour.Stage != tournament.StagePlayoffs {
		return false
	}
	if !o.startBattle(m.Opponent(o.selected), shared.PickMaps(o.rng, battle.MapsInSeries), KindPlayoff, m.ID) {
		return false
	}
	o.playoff = m
	return true
}

// CanPlayFinal reports whether the final is drawn, unplayed and features the human team
func (o *Orchestrator) CanPlayFinal() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canPlayFinal()
}

func (o *Orchestrator) canPlayFinal() bool {
	if o.tour == nil || o.tour.Bracket == nil {
		return false
	}
	f := o.tour.Bracket.Final
	return f != nil && f.Ready() && f.Involves(o.selected)
}

// StartFinalMatch starts the final if the human team plays in it
func (o *Orchestrator) StartFinalMatch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.canPlayFinal() {
		return false
	}
	return o.startPlayoffMatch(o.tour.Bracket.Final)
}

// CompletePlayoffMatch records the human's bracket match
// Preconditions: A playoff series is current and the scores have a winner. Map results are from the human's view
// Postconditions: The bracket is advanced. A win simulates the other matches of the same stage, a loss plays out
// the whole bracket. The tournament is finished once there is a champion
func (o *Orchestrator) CompletePlayoffMatch(playerMaps, opponentMaps int, results []shared.MapResult) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completePlayoffMatch(playerMaps, opponentMaps, results)
}

func (o *Orchestrator) completePlayoffMatch(playerMaps, opponentMaps int, results []shared.MapResult) bool {
	if o.kind != KindPlayoff || o.playoff == nil || o.battle == nil || playerMaps == opponentMaps {
		return false
	}
	m, bracket := o.playoff, o.tour.Bracket
	stage := bracket.RoundOf(m)

	t1Maps, t2Maps, oriented := playerMaps, opponentMaps, results
	if m.Team1.Team() != o.selected {
		t1Maps, t2Maps, oriented = opponentMaps, playerMaps, flipResults(results)
	}
	if err := bracket.Complete(m, t1Maps, t2Maps, oriented); err != nil {
		return false
	}

	o.finishSeries()
	if playerMaps > opponentMaps {
		bracket.SimulateStage(stage, o.selected, o.rng)
	} else {
		bracket.SimulateRemaining(o.rng)
	}
	o.tour.Sync()
	return true
}
