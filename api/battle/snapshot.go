/* snapshot.go
 * Serialisable copy of a Battle, used to persist a live series and to restore it later
 */

package battle

import (
	"fmt"
	"major-sim/api/shared"
	"math/rand"
	"sort"
)

// StatLine is a flattened per-player stat entry
type StatLine struct {
	Team    string `bson:"team" json:"team"`
	Player  string `bson:"player" json:"player"`
	Kills   int    `bson:"kills" json:"kills"`
	Deaths  int    `bson:"deaths" json:"deaths"`
	Assists int    `bson:"assists" json:"assists"`
	Maps    int    `bson:"maps,omitempty" json:"maps,omitempty"`
}

type Snapshot struct {
	Team1           string             `bson:"team1" json:"team1"`
	Team2           string             `bson:"team2" json:"team2"`
	SelectedMaps    []shared.MapPool   `bson:"selected_maps" json:"selectedMaps"`
	CurrentMap      int                `bson:"current_map" json:"currentMap"`
	Round           int                `bson:"round" json:"round"`
	Team1Score      int                `bson:"team1_score" json:"team1Score"`
	Team2Score      int                `bson:"team2_score" json:"team2Score"`
	Team1Maps       int                `bson:"team1_maps" json:"team1Maps"`
	Team2Maps       int                `bson:"team2_maps" json:"team2Maps"`
	Team1Attacking  bool               `bson:"team1_attacking" json:"team1Attacking"`
	FirstHalf       bool               `bson:"first_half" json:"firstHalf"`
	Overtime        bool               `bson:"overtime" json:"overtime"`
	SuperOvertime   bool               `bson:"super_overtime" json:"superOvertime"`
	SeriesFinished  bool               `bson:"series_finished" json:"seriesFinished"`
	LastRoundWinner string             `bson:"last_round_winner,omitempty" json:"lastRoundWinner,omitempty"`
	Log             []string           `bson:"log" json:"log"`
	Events          []KillEvent        `bson:"events" json:"events"`
	MapStats        []StatLine         `bson:"map_stats" json:"mapStats"`
	SeriesStats     []StatLine         `bson:"series_stats" json:"seriesStats"`
	MapResults      []shared.MapResult `bson:"map_results" json:"mapResults"`
}

// Snapshot copies the battle state. Teams are referenced by name, their records are saved with the tournament
func (b *Battle) Snapshot() Snapshot {
	s := Snapshot{
		Team1:          b.Team1.Name,
		Team2:          b.Team2.Name,
		SelectedMaps:   append([]shared.MapPool(nil), b.SelectedMaps...),
		CurrentMap:     b.CurrentMap,
		Round:          b.Round,
		Team1Score:     b.Team1Score,
		Team2Score:     b.Team2Score,
		Team1Maps:      b.Team1Maps,
		Team2Maps:      b.Team2Maps,
		Team1Attacking: b.Team1Attacking,
		FirstHalf:      b.FirstHalf,
		Overtime:       b.Overtime,
		SuperOvertime:  b.SuperOvertime,
		SeriesFinished: b.SeriesFinished,
		Log:            b.Log(),
		Events:         b.Events(),
		MapResults:     b.MapResults(),
	}
	if b.LastRoundWinner != nil {
		s.LastRoundWinner = b.LastRoundWinner.Name
	}
	for key, st := range b.mapStats {
		s.MapStats = append(s.MapStats, StatLine{Team: key.team, Player: key.player, Kills: st.Kills, Deaths: st.Deaths, Assists: st.Assists})
	}
	for key, st := range b.seriesStats {
		s.SeriesStats = append(s.SeriesStats, StatLine{Team: key.team, Player: key.player, Kills: st.TotalKills, Deaths: st.TotalDeaths, Assists: st.TotalAssists, Maps: st.MapsPlayed})
	}
	sortStatLines(s.MapStats)
	sortStatLines(s.SeriesStats)
	return s
}

func sortStatLines(lines []StatLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Team != lines[j].Team {
			return lines[i].Team < lines[j].Team
		}
		return lines[i].Player < lines[j].Player
	})
}

// Restore rebuilds a Battle from a snapshot
// Preconditions: Receives a snapshot, an index holding both teams and a random source (nil picks a time seeded one)
// Postconditions: Returns the Battle with the snapshot state, or an error if a team is missing. Player health is not touched
func Restore(s Snapshot, teams shared.TeamIndex, rng *rand.Rand) (*Battle, error) {
	team1, team2 := teams.Lookup(s.Team1), teams.Lookup(s.Team2)
	if team1 == nil {
		return nil, fmt.Errorf("restore battle: unknown team %q", s.Team1)
	}
	if team2 == nil {
		return nil, fmt.Errorf("restore battle: unknown team %q", s.Team2)
	}
	if len(s.SelectedMaps) != MapsInSeries {
		return nil, fmt.Errorf("restore battle: %w, got %d", ErrMapCount, len(s.SelectedMaps))
	}
	if rng == nil {
		rng = shared.NewRand(0)
	}

	b := &Battle{
		Team1:          team1,
		Team2:          team2,
		SelectedMaps:   append([]shared.MapPool(nil), s.SelectedMaps...),
		CurrentMap:     s.CurrentMap,
		Round:          s.Round,
		Team1Score:     s.Team1Score,
		Team2Score:     s.Team2Score,
		Team1Maps:      s.Team1Maps,
		Team2Maps:      s.Team2Maps,
		Team1Attacking: s.Team1Attacking,
		FirstHalf:      s.FirstHalf,
		Overtime:       s.Overtime,
		SuperOvertime:  s.SuperOvertime,
		SeriesFinished: s.SeriesFinished,
		rng:            rng,
		log:            append([]string(nil), s.Log...),
		events:         append([]KillEvent(nil), s.Events...),
		mapStats:       make(map[statKey]*PlayerMapStats),
		seriesStats:    make(map[statKey]*PlayerSeriesStats),
		mapResults:     append([]shared.MapResult(nil), s.MapResults...),
	}
	switch s.LastRoundWinner {
	case team1.Name:
		b.LastRoundWinner = team1
	case team2.Name:
		b.LastRoundWinner = team2
	}
	for _, l := range s.MapStats {
		b.mapStats[statKey{team: l.Team, player: l.Player}] = &PlayerMapStats{Kills: l.Kills, Deaths: l.Deaths, Assists: l.Assists}
	}
	for _, l := range s.SeriesStats {
		b.seriesStats[statKey{team: l.Team, player: l.Player}] = &PlayerSeriesStats{TotalKills: l.Kills, TotalDeaths: l.Deaths, TotalAssists: l.Assists, MapsPlayed: l.Maps}
	}
	return b, nil
}
