/* tournament.go
 * Contains the Tournament lifecycle: group stage from the 16 strongest teams, then the playoff bracket
 */

package tournament

import (
	"fmt"
	"major-sim/api/shared"
	"math/rand"
	"sort"
)

// New builds a tournament from the 16 strongest teams
// Preconditions: Receives the tournament info and at least 16 teams
// Postconditions: Returns the tournament in the group stage, teams sorted by strength (stable) and dealt into
// Group A..D four at a time. Returns ErrTeamCount if there are too few teams
func New(info Info, teams []*shared.Team) (*Tournament, error) {
	if len(teams) < TournamentSize {
		return nil, fmt.Errorf("%w, got %d", ErrTeamCount, len(teams))
	}
	sorted := make([]*shared.Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Strength > sorted[j].Strength })

	groups, err := CreateGroups(sorted[:TournamentSize])
	if err != nil {
		return nil, err
	}
	if info.ParticipantCount == 0 {
		info.ParticipantCount = TournamentSize
	}
	return &Tournament{Info: info, Groups: groups, Stage: StageGroups}, nil
}

// Teams returns the 16 participants in group order
func (t *Tournament) Teams() []*shared.Team {
	var teams []*shared.Team
	for _, g := range t.Groups {
		for _, gt := range g.Teams {
			teams = append(teams, gt.Team)
		}
	}
	return teams
}

// GroupOf returns the group team plays in, or nil
func (t *Tournament) GroupOf(team *shared.Team) *Group {
	for _, g := range t.Groups {
		if g.Contains(team) {
			return g
		}
	}
	return nil
}

// GroupStageFinished reports whether every group match has been played
func (t *Tournament) GroupStageFinished() bool {
	for _, g := range t.Groups {
		if !g.Finished() {
			return false
		}
	}
	return true
}

// HasQualified reports whether team currently sits in the top two of its group
func (t *Tournament) HasQualified(team *shared.Team) bool {
	g := t.GroupOf(team)
	if g == nil {
		return false
	}
	pos := g.Position(team)
	return pos >= 1 && pos <= QualifiersPerGroup
}

// Qualifiers returns the top two of every group, group by group
func (t *Tournament) Qualifiers() []*shared.Team {
	var out []*shared.Team
	for _, g := range t.Groups {
		out = append(out, g.Qualifiers()...)
	}
	return out
}

// StartPlayoffs shuffles the 8 qualifiers into the quarter finals
// Preconditions: The tournament is in the group stage
// Postconditions: Stage is Playoffs and Bracket is set. Unplayed group matches are left as they are, callers
// finish the group stage first
func (t *Tournament) StartPlayoffs(rng *rand.Rand) error {
	if t.Stage != StageGroups {
		return fmt.Errorf("start playoffs in stage %s: %w", t.Stage, ErrWrongStage)
	}
	qualifiers := t.Qualifiers()
	rng.Shuffle(len(qualifiers), func(i, j int) { qualifiers[i], qualifiers[j] = qualifiers[j], qualifiers[i] })

	bracket, err := NewBracket(qualifiers)
	if err != nil {
		return err
	}
	t.Bracket = bracket
	t.Stage = StagePlayoffs
	return nil
}

// Sync marks the tournament finished once the bracket has a champion
func (t *Tournament) Sync() {
	if t.Bracket == nil {
		return
	}
	t.Bracket.Advance()
	if t.Bracket.Champion != nil {
		t.Stage = StageFinished
		t.Completed = true
	}
}

// Champion returns the winner of the final, or nil
func (t *Tournament) Champion() *shared.Team {
	if t.Bracket == nil {
		return nil
	}
	return t.Bracket.Champion
}

// SimulateRemaining finishes the whole tournament from its current state
// Postconditions: Every group match and playoff match is played, Stage is Finished
func (t *Tournament) SimulateRemaining(rng *rand.Rand) error {
	if t.Stage == StageGroups {
		SimulateAll(t.Groups, nil, rng)
		if err := t.StartPlayoffs(rng); err != nil {
			return err
		}
	}
	if t.Stage == StagePlayoffs {
		t.Bracket.SimulateRemaining(rng)
		t.Sync()
	}
	return nil
}
