/* bracket.go
 * Single elimination bracket for the 8 group qualifiers. Every completion, simulated or played by the human, goes
 * through Complete so the bracket can only move one stage at a time
 */

package tournament

import (
	"fmt"
	"major-sim/api/shared"
	"math/rand"
)

const bracketSize = 8

// NewBracket seeds the quarter finals in the order given: 0v1, 2v3, 4v5, 6v7
// Preconditions: Receives exactly 8 distinct teams
// Postconditions: Returns the bracket with QF1..QF4, or ErrQualifierCount
func NewBracket(qualifiers []*shared.Team) (*PlayoffBracket, error) {
	if len(qualifiers) != bracketSize {
		return nil, fmt.Errorf("%w, got %d", ErrQualifierCount, len(qualifiers))
	}
	b := &PlayoffBracket{}
	for i := 0; i < bracketSize; i += 2 {
		b.QuarterFinals = append(b.QuarterFinals, &PlayoffMatch{
			ID:    fmt.Sprintf("QF%d", i/2+1),
			Team1: Resolved(qualifiers[i]),
			Team2: Resolved(qualifiers[i+1]),
		})
	}
	return b, nil
}

// Complete records the result of a playoff match and advances the bracket
// Preconditions: Receives a ready match of this bracket, maps won from the match's team1/team2 view and the map results
// Postconditions: The match is completed and later stages are filled in when their feeders are done. Returns an
// error and changes nothing otherwise
func (b *PlayoffBracket) Complete(m *PlayoffMatch, team1Maps, team2Maps int, results []shared.MapResult) error {
	if m.Completed {
		return fmt.Errorf("%s: %w", m.ID, ErrMatchPlayed)
	}
	if !m.Ready() {
		return fmt.Errorf("%s: %w", m.ID, ErrMatchNotReady)
	}
	if team1Maps == team2Maps {
		return fmt.Errorf("%s %d:%d: %w", m.ID, team1Maps, team2Maps, ErrNoWinner)
	}

	m.Team1Score = team1Maps
	m.Team2Score = team2Maps
	m.MapResults = append([]shared.MapResult(nil), results...)
	m.Winner = m.Team1.Team()
	if team2Maps > team1Maps {
		m.Winner = m.Team2.Team()
	}
	m.Completed = true

	b.Advance()
	return nil
}

// Advance fills in the next stage once every match of the current one is completed
func (b *PlayoffBracket) Advance() {
	if len(b.SemiFinals) == 0 && allCompleted(b.QuarterFinals) {
		if winners := winnersOf(b.QuarterFinals); len(winners) == 4 {
			b.SemiFinals = []*PlayoffMatch{
				{ID: "SF1", Team1: Resolved(winners[0]), Team2: Resolved(winners[1])},
				{ID: "SF2", Team1: Resolved(winners[2]), Team2: Resolved(winners[3])},
			}
		}
		return
	}
	if b.Final == nil && len(b.SemiFinals) > 0 && allCompleted(b.SemiFinals) {
		if winners := winnersOf(b.SemiFinals); len(winners) == 2 {
			b.Final = &PlayoffMatch{ID: "Final", Team1: Resolved(winners[0]), Team2: Resolved(winners[1])}
		}
		return
	}
	if b.Final != nil && b.Final.Completed && b.Champion == nil {
		b.Champion = b.Final.Winner
	}
}

func allCompleted(matches []*PlayoffMatch) bool {
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.Completed {
			return false
		}
	}
	return true
}

func winnersOf(matches []*PlayoffMatch) []*shared.Team {
	var winners []*shared.Team
	for _, m := range matches {
		if m.Winner != nil {
			winners = append(winners, m.Winner)
		}
	}
	return winners
}

// SimulateMatch plays a quick best of three for a ready match
func (b *PlayoffBracket) SimulateMatch(m *PlayoffMatch, rng *rand.Rand) error {
	if !m.Ready() {
		if m.Completed {
			return fmt.Errorf("%s: %w", m.ID, ErrMatchPlayed)
		}
		return fmt.Errorf("%s: %w", m.ID, ErrMatchNotReady)
	}
	res := SimulateSeries(m.Team1.Team(), m.Team2.Team(), rng)
	return b.Complete(m, res.Team1Maps, res.Team2Maps, res.MapResults)
}

// CurrentRound returns the earliest stage with an unplayed match
func (b *PlayoffBracket) CurrentRound() PlayoffRound {
	switch {
	case !allCompleted(b.QuarterFinals):
		return RoundQuarterFinal
	case !allCompleted(b.SemiFinals):
		return RoundSemiFinal
	case b.Final == nil || !b.Final.Completed:
		return RoundFinal
	default:
		return RoundFinished
	}
}

// RoundMatches returns the matches of a stage
func (b *PlayoffBracket) RoundMatches(r PlayoffRound) []*PlayoffMatch {
	switch r {
	case RoundQuarterFinal:
		return b.QuarterFinals
	case RoundSemiFinal:
		return b.SemiFinals
	case RoundFinal:
		if b.Final != nil {
			return []*PlayoffMatch{b.Final}
		}
	}
	return nil
}

// SimulateRound plays every ready match of the current stage that exclude (may be nil) is not part of
// Postconditions: Returns the number of matches simulated
func (b *PlayoffBracket) SimulateRound(exclude *shared.Team, rng *rand.Rand) int {
	return b.SimulateStage(b.CurrentRound(), exclude, rng)
}

// SimulateStage plays every ready match of stage r that exclude is not part of
func (b *PlayoffBracket) SimulateStage(r PlayoffRound, exclude *shared.Team, rng *rand.Rand) int {
	played := 0
	// Complete can open the next stage, so take the list up front
	for _, m := range b.RoundMatches(r) {
		if m.Ready() && !m.Involves(exclude) {
			if err := b.SimulateMatch(m, rng); err == nil {
				played++
			}
		}
	}
	return played
}

// RoundOf returns the stage a match belongs to
func (b *PlayoffBracket) RoundOf(m *PlayoffMatch) PlayoffRound {
	for _, r := range []PlayoffRound{RoundQuarterFinal, RoundSemiFinal, RoundFinal} {
		for _, candidate := range b.RoundMatches(r) {
			if candidate == m {
				return r
			}
		}
	}
	return ""
}

// SimulateRemaining plays the bracket out stage by stage until there is a champion
func (b *PlayoffBracket) SimulateRemaining(rng *rand.Rand) int {
	played := 0
	for b.CurrentRound() != RoundFinished {
		n := b.SimulateRound(nil, rng)
		if n == 0 {
			break
		}
		played += n
	}
	return played
}

// Matches returns every match in bracket order
func (b *PlayoffBracket) Matches() []*PlayoffMatch {
	all := make([]*PlayoffMatch, 0, 7)
	all = append(all, b.QuarterFinals...)
	all = append(all, b.SemiFinals...)
	if b.Final != nil {
		all = append(all, b.Final)
	}
	return all
}

// Match finds a match by id such as "QF2" or "Final"
func (b *PlayoffBracket) Match(id string) *PlayoffMatch {
	for _, m := range b.Matches() {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// NextMatchFor returns the first uncompleted match of team, or nil
func (b *PlayoffBracket) NextMatchFor(team *shared.Team) *PlayoffMatch {
	for _, m := range b.Matches() {
		if !m.Completed && m.Involves(team) {
			return m
		}
	}
	return nil
}

// Eliminated reports whether team lost a completed match
func (b *PlayoffBracket) Eliminated(team *shared.Team) bool {
	for _, m := range b.Matches() {
		if m.Completed && m.Involves(team) && m.Winner != team {
			return true
		}
	}
	return false
}
