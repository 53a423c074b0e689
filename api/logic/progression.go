/* progression.go
 * Contains the logic for turning a playoff bracket into per-team progression: how far each team got and whether
 * it is still alive
 */

package logic

import (
	"fmt"
	"major-sim/api/shared"
	"major-sim/api/tournament"
	"sort"
	"strings"
)

const (
	StatusAdvanced   = "advanced"
	StatusEliminated = "eliminated"
	StatusPending    = "pending"
)

var roundNames = map[tournament.PlayoffRound]string{
	tournament.RoundFinal:        "Grand Final",
	tournament.RoundSemiFinal:    "Semi Final",
	tournament.RoundQuarterFinal: "Quarter Final",
}

// BracketProgression maps every team in the bracket to the furthest round it reached
// Preconditions: Receives a bracket snapshot
// Postconditions: Returns team name : TeamProgress. The champion is "Grand Final"/advanced, losers are eliminated in the
// round they lost and teams with a match still to play are pending in that round
func BracketProgression(b tournament.BracketSnapshot) map[string]shared.TeamProgress {
	progression := make(map[string]shared.TeamProgress)

	stages := []struct {
		round   tournament.PlayoffRound
		matches []tournament.PlayoffMatchSnapshot
	}{
		{tournament.RoundQuarterFinal, b.QuarterFinals},
		{tournament.RoundSemiFinal, b.SemiFinals},
	}
	if b.Final != nil {
		stages = append(stages, struct {
			round   tournament.PlayoffRound
			matches []tournament.PlayoffMatchSnapshot
		}{tournament.RoundFinal, []tournament.PlayoffMatchSnapshot{*b.Final}})
	}

	// Later stages overwrite earlier ones, so each team ends on its furthest round
	for _, stage := range stages {
		name := roundNames[stage.round]
		for _, m := range stage.matches {
			for _, team := range []string{m.Team1, m.Team2} {
				if team == "" {
					continue
				}
				status := StatusPending
				if m.Completed {
					status = StatusEliminated
					if m.Winner == team {
						status = StatusAdvanced
					}
				}
				progression[team] = shared.TeamProgress{Round: name, Status: status}
			}
		}
	}
	return progression
}

// ProgressionReport lists the progression of every team, furthest first
func ProgressionReport(progression map[string]shared.TeamProgress) string {
	order := map[string]int{"Grand Final": 0, "Semi Final": 1, "Quarter Final": 2}
	teams := make([]string, 0, len(progression))
	for team := range progression {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		a, b := progression[teams[i]], progression[teams[j]]
		if order[a.Round] != order[b.Round] {
			return order[a.Round] < order[b.Round]
		}
		if a.Status != b.Status {
			return a.Status == StatusAdvanced || (a.Status == StatusPending && b.Status == StatusEliminated)
		}
		return teams[i] < teams[j]
	})

	var response strings.Builder
	for _, team := range teams {
		p := progression[team]
		switch {
		case p.Round == "Grand Final" && p.Status == StatusAdvanced:
			response.WriteString(fmt.Sprintf("- %s won the %s\n", team, p.Round))
		case p.Status == StatusPending:
			response.WriteString(fmt.Sprintf("- %s is playing in the %s [Pending]\n", team, p.Round))
		case p.Status == StatusAdvanced:
			response.WriteString(fmt.Sprintf("- %s made it past the %s\n", team, p.Round))
		default:
			response.WriteString(fmt.Sprintf("- %s was eliminated in the %s\n", team, p.Round))
		}
	}
	return response.String()
}
