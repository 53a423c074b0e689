/* groups.go
 * Contains the group stage: round robin fixtures, result recording, standings and the interleaved simulation of
 * matches the human is not part of
 */

package tournament

import (
	"fmt"
	"major-sim/api/shared"
	"math/rand"
	"sort"
)

var groupNames = []string{"Group A", "Group B", "Group C", "Group D"}

// CreateGroups splits 16 teams into 4 groups of 4 in the order given
// Preconditions: Receives exactly 16 teams, usually sorted by strength
// Postconditions: Returns Group A..D, each with its 6 round robin matches, or ErrTeamCount
func CreateGroups(teams []*shared.Team) ([]*Group, error) {
	if len(teams) != TournamentSize {
		return nil, fmt.Errorf("%w, got %d", ErrTeamCount, len(teams))
	}
	groups := make([]*Group, 0, GroupCount)
	for i := 0; i < GroupCount; i++ {
		groups = append(groups, NewGroup(groupNames[i], teams[i*TeamsPerGroup:(i+1)*TeamsPerGroup]))
	}
	return groups, nil
}

func NewGroup(name string, teams []*shared.Team) *Group {
	g := &Group{Name: name, Matches: GenerateRoundRobin(teams)}
	for _, t := range teams {
		g.Teams = append(g.Teams, &GroupTeam{Team: t})
	}
	return g
}

// GenerateRoundRobin pairs every team with every later team once
func GenerateRoundRobin(teams []*shared.Team) []*GroupMatch {
	var matches []*GroupMatch
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, &GroupMatch{Team1: teams[i], Team2: teams[j]})
		}
	}
	return matches
}

// Entry returns the table row of team, or nil
func (g *Group) Entry(team *shared.Team) *GroupTeam {
	for _, gt := range g.Teams {
		if gt.Team == team {
			return gt
		}
	}
	return nil
}

func (g *Group) Contains(team *shared.Team) bool {
	return g.Entry(team) != nil
}

// RecordResult marks the match as played and updates both table rows
// Preconditions: Receives a match of this group, the maps won by each side (from the match's team1/team2 view) and
// the map results in the same orientation
// Postconditions: Winner gets a win, 3 points and the round margin. Loser gets a loss and loses the margin.
// Both rows count the maps played. Returns an error and changes nothing if the match was played or has no winner
func (g *Group) RecordResult(m *GroupMatch, team1Maps, team2Maps int, results []shared.MapResult) error {
	if m.Played {
		return fmt.Errorf("%s vs %s: %w", m.Team1.Name, m.Team2.Name, ErrMatchPlayed)
	}
	if team1Maps == team2Maps {
		return fmt.Errorf("%s vs %s %d:%d: %w", m.Team1.Name, m.Team2.Name, team1Maps, team2Maps, ErrNoWinner)
	}
	winnerRow, loserRow := g.Entry(m.Team1), g.Entry(m.Team2)
	if winnerRow == nil || loserRow == nil {
		return fmt.Errorf("%s vs %s in %s: %w", m.Team1.Name, m.Team2.Name, g.Name, ErrUnknownTeam)
	}

	team1Won := team1Maps > team2Maps
	m.Team1Score = team1Maps
	m.Team2Score = team2Maps
	m.MapResults = append([]shared.MapResult(nil), results...)
	m.Played = true
	m.Winner = m.Team1
	if !team1Won {
		m.Winner = m.Team2
		winnerRow, loserRow = loserRow, winnerRow
	}

	maps := len(results)
	if maps == 0 {
		maps = team1Maps + team2Maps
	}
	margin := winnerRoundMargin(results, team1Won)
	winnerRow.AddWin(margin, maps)
	loserRow.AddLoss(margin, maps)
	return nil
}

// SimulateMatch plays a quick best of three and records it
func (g *Group) SimulateMatch(m *GroupMatch, rng *rand.Rand) error {
	if m.Played {
		return ErrMatchPlayed
	}
	res := SimulateSeries(m.Team1, m.Team2, rng)
	return g.RecordResult(m, res.Team1Maps, res.Team2Maps, res.MapResults)
}

// Remaining returns the unplayed matches in fixture order, skipping those of exclude (which may be nil)
func (g *Group) Remaining(exclude *shared.Team) []*GroupMatch {
	var out []*GroupMatch
	for _, m := range g.Matches {
		if !m.Played && !m.Involves(exclude) {
			out = append(out, m)
		}
	}
	return out
}

func (g *Group) Finished() bool {
	return len(g.Remaining(nil)) == 0
}

// MatchBetween returns the fixture of two teams in either orientation
func (g *Group) MatchBetween(a, b *shared.Team) *GroupMatch {
	for _, m := range g.Matches {
		if m.Involves(a) && m.Involves(b) && a != b {
			return m
		}
	}
	return nil
}

// Standings returns the table sorted by points, round difference, the head to head result of a two team tie and
// finally group order
func (g *Group) Standings() []*GroupTeam {
	table := make([]*GroupTeam, len(g.Teams))
	copy(table, g.Teams)
	type tieKey struct{ points, roundDifference int }
	tied := make(map[tieKey]int, len(table))
	for _, gt := range table {
		tied[tieKey{gt.Points, gt.RoundDifference}]++
	}
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.RoundDifference != b.RoundDifference {
			return a.RoundDifference > b.RoundDifference
		}
		// head to head only splits a two team tie, larger ties can be cyclic and keep group order
		if tied[tieKey{a.Points, a.RoundDifference}] != 2 {
			return false
		}
		if m := g.MatchBetween(a.Team, b.Team); m != nil && m.Played {
			return m.Winner == a.Team
		}
		return false
	})
	return table
}

// Qualifiers returns the top two teams of the table
func (g *Group) Qualifiers() []*shared.Team {
	table := g.Standings()
	n := min(QualifiersPerGroup, len(table))
	out := make([]*shared.Team, 0, n)
	for _, gt := range table[:n] {
		out = append(out, gt.Team)
	}
	return out
}

// Position returns the 1-based table position of team, or 0
func (g *Group) Position(team *shared.Team) int {
	for i, gt := range g.Standings() {
		if gt.Team == team {
			return i + 1
		}
	}
	return 0
}

// SimulateOneRound plays at most one unplayed match per group, skipping matches of exclude
// Postconditions: Returns the number of matches simulated
func SimulateOneRound(groups []*Group, exclude *shared.Team, rng *rand.Rand) int {
	played := 0
	for _, g := range groups {
		remaining := g.Remaining(exclude)
		if len(remaining) == 0 {
			continue
		}
		if err := g.SimulateMatch(remaining[0], rng); err == nil {
			played++
		}
	}
	return played
}

// SimulateAll plays every unplayed match of every group, skipping matches of exclude
func SimulateAll(groups []*Group, exclude *shared.Team, rng *rand.Rand) int {
	played := 0
	for {
		n := SimulateOneRound(groups, exclude, rng)
		if n == 0 {
			return played
		}
		played += n
	}
}
