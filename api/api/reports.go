/* reports.go
 * Contains the helpers that turn orchestrator views into the text the bot posts
 */

package api

import (
	"fmt"
	"major-sim/api/battle"
	"major-sim/api/game"
	"major-sim/api/shared"
	"major-sim/api/tournament"
	"sort"
	"strings"
)

func formatStandings(tables []game.GroupTable) string {
	var response strings.Builder
	for _, table := range tables {
		response.WriteString(fmt.Sprintf("**%s**\n```\n", table.Name))
		response.WriteString(fmt.Sprintf("%-2s %-20s %3s %5s %4s\n", "#", "Team", "Pts", "W-L", "RD"))
		for i, row := range table.Rows {
			marker := " "
			if i < tournament.QualifiersPerGroup {
				marker = "*"
			}
			response.WriteString(fmt.Sprintf("%d%s %-20s %3d %5s %+4d\n", i+1, marker, row.Team, row.Points, fmt.Sprintf("%d-%d", row.Wins, row.Losses), row.RoundDifference))
		}
		response.WriteString("```\n")
	}
	return response.String()
}

func formatFixtures(fixtures []game.FixtureView) string {
	var response strings.Builder
	for _, f := range fixtures {
		if f.Played {
			response.WriteString(fmt.Sprintf("- vs %s: %d-%d%s\n", f.Opponent, f.PlayerScore, f.OpponentScore, formatMapScores(f.MapResults)))
			continue
		}
		response.WriteString(fmt.Sprintf("- vs %s on %s [Pending]\n", f.Opponent, strings.Join(f.Maps, ", ")))
	}
	return response.String()
}

// formatMapScores renders " (Mirage 13-9, Nuke 10-13)", or nothing without results
func formatMapScores(results []shared.MapResult) string {
	if len(results) == 0 {
		return ""
	}
	scores := make([]string, len(results))
	for i, r := range results {
		scores[i] = fmt.Sprintf("%s %d-%d", r.MapName, r.Team1Score, r.Team2Score)
	}
	return " (" + strings.Join(scores, ", ") + ")"
}

func formatSeriesHeader(v *game.BattleView) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("**%s**: %s vs %s, best of three on %s\n%s\n", v.Label, v.Team1, v.Team2, strings.Join(v.Maps, ", "), v.RoundInfo)
}

// formatRound reports the latest round: its log line, anything logged after it and the scoreline
func formatRound(v *game.BattleView) string {
	if v == nil {
		return ""
	}
	start := 0
	for i := len(v.Log) - 1; i >= 0; i-- {
		if strings.HasPrefix(v.Log[i], "Round ") {
			start = i
			break
		}
	}

	var response strings.Builder
	for _, line := range v.Log[start:] {
		response.WriteString(line + "\n")
	}
	response.WriteString(fmt.Sprintf("%s %d:%d %s (maps %d:%d)\n", v.Team1, v.Team1Score, v.Team2Score, v.Team2, v.Team1Maps, v.Team2Maps))
	return response.String()
}

func formatScoreboard(v *game.BattleView) string {
	var response strings.Builder
	response.WriteString(fmt.Sprintf("Map %d (%s), round %d: %s %d:%d %s\n```\n", v.MapNumber, v.MapName, v.Round, v.Team1, v.Team1Score, v.Team2Score, v.Team2))
	for _, lines := range [][]battle.PlayerLine{v.Team1Players, v.Team2Players} {
		for _, p := range lines {
			response.WriteString(fmt.Sprintf("%-14s %-8s %3d hp  %2d/%2d/%2d\n", p.Name, p.Role, p.Health, p.Kills, p.Deaths, p.Assists))
		}
	}
	response.WriteString("```\n")
	return response.String()
}

func formatSeriesSummary(s game.SeriesSummary) string {
	var response strings.Builder
	response.WriteString(fmt.Sprintf("**%s**: %s %d-%d %s, %s win the series\n", s.Label, s.Team1, s.Team1Maps, s.Team2Maps, s.Team2, s.Winner))
	for _, r := range s.MapResults {
		response.WriteString(fmt.Sprintf("- Map %d %s: %d-%d\n", r.MapNumber, r.MapName, r.Team1Score, r.Team2Score))
	}

	// Top fragger of each team
	best := make(map[string]battle.SeriesLine)
	for _, line := range s.Players {
		if cur, ok := best[line.Team]; !ok || line.Stats.TotalKills > cur.Stats.TotalKills {
			best[line.Team] = line
		}
	}
	teams := make([]string, 0, len(best))
	for team := range best {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		line := best[team]
		response.WriteString(fmt.Sprintf("Top fragger %s: %s %d/%d/%d\n", team, line.Player, line.Stats.TotalKills, line.Stats.TotalDeaths, line.Stats.TotalAssists))
	}
	return response.String()
}

func formatPlayoffMatch(m tournament.PlayoffMatchSnapshot) string {
	team1, team2 := m.Team1, m.Team2
	if team1 == "" {
		team1 = "TBD"
	}
	if team2 == "" {
		team2 = "TBD"
	}
	if !m.Completed {
		return fmt.Sprintf("%s: %s vs %s\n", m.ID, team1, team2)
	}
	return fmt.Sprintf("%s: %s %d-%d %s\n", m.ID, team1, m.Team1Score, m.Team2Score, team2)
}

func formatBracket(b tournament.BracketSnapshot) string {
	var response strings.Builder
	response.WriteString("**Quarter Finals**\n")
	for _, m := range b.QuarterFinals {
		response.WriteString(formatPlayoffMatch(m))
	}
	if len(b.SemiFinals) > 0 {
		response.WriteString("**Semi Finals**\n")
		for _, m := range b.SemiFinals {
			response.WriteString(formatPlayoffMatch(m))
		}
	}
	if b.Final != nil {
		response.WriteString("**Grand Final**\n")
		response.WriteString(formatPlayoffMatch(*b.Final))
	}
	if b.Champion != "" {
		response.WriteString(fmt.Sprintf("Champion: **%s**\n", b.Champion))
	}
	return response.String()
}
