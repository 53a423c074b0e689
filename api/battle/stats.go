/* stats.go
 * Per-map and per-series player statistics kept by a Battle
 */

package battle

import (
	"major-sim/api/shared"
	"sort"
)

type statKey struct {
	team   string
	player string
}

// PlayerMapStats is what a player has done on the current map
type PlayerMapStats struct {
	Kills   int `bson:"kills" json:"kills"`
	Deaths  int `bson:"deaths" json:"deaths"`
	Assists int `bson:"assists" json:"assists"`
}

// PlayerSeriesStats accumulates finished maps only
type PlayerSeriesStats struct {
	TotalKills   int `bson:"total_kills" json:"totalKills"`
	TotalDeaths  int `bson:"total_deaths" json:"totalDeaths"`
	TotalAssists int `bson:"total_assists" json:"totalAssists"`
	MapsPlayed   int `bson:"maps_played" json:"mapsPlayed"`
}

// PlayerLine is one row of the live scoreboard
type PlayerLine struct {
	Team    string            `json:"team"`
	Name    string            `json:"name"`
	Role    shared.PlayerRole `json:"role"`
	Health  int               `json:"health"`
	Alive   bool              `json:"alive"`
	Kills   int               `json:"kills"`
	Deaths  int               `json:"deaths"`
	Assists int               `json:"assists"`
}

// SeriesLine is one player's series totals, used when reporting and persisting finished series
type SeriesLine struct {
	Team   string            `bson:"team" json:"team"`
	Player string            `bson:"player" json:"player"`
	Stats  PlayerSeriesStats `bson:"stats" json:"stats"`
}

func (b *Battle) mapStat(team, player string) *PlayerMapStats {
	key := statKey{team: team, player: player}
	st, ok := b.mapStats[key]
	if !ok {
		st = &PlayerMapStats{}
		b.mapStats[key] = st
	}
	return st
}

// flushMapStats adds the current map onto the series totals of every rostered player and clears the map stats
func (b *Battle) flushMapStats() {
	for _, team := range []*shared.Team{b.Team1, b.Team2} {
		for _, p := range team.Players {
			key := statKey{team: team.Name, player: p.Name}
			series, ok := b.seriesStats[key]
			if !ok {
				series = &PlayerSeriesStats{}
				b.seriesStats[key] = series
			}
			if st, ok := b.mapStats[key]; ok {
				series.TotalKills += st.Kills
				series.TotalDeaths += st.Deaths
				series.TotalAssists += st.Assists
			}
			series.MapsPlayed++
		}
	}
	b.mapStats = make(map[statKey]*PlayerMapStats)
}

// MapStatsFor returns the current map stats of a player. Unknown players report zeros
func (b *Battle) MapStatsFor(team, player string) PlayerMapStats {
	if st, ok := b.mapStats[statKey{team: team, player: player}]; ok {
		return *st
	}
	return PlayerMapStats{}
}

// SeriesStatsFor returns the series totals of a player
func (b *Battle) SeriesStatsFor(team, player string) (PlayerSeriesStats, bool) {
	st, ok := b.seriesStats[statKey{team: team, player: player}]
	if !ok {
		return PlayerSeriesStats{}, false
	}
	return *st, true
}

// SeriesLines lists every player's series totals, team1 first and then by kills
func (b *Battle) SeriesLines() []SeriesLine {
	lines := make([]SeriesLine, 0, len(b.seriesStats))
	for key, st := range b.seriesStats {
		lines = append(lines, SeriesLine{Team: key.team, Player: key.player, Stats: *st})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Team != lines[j].Team {
			return lines[i].Team == b.Team1.Name
		}
		if lines[i].Stats.TotalKills != lines[j].Stats.TotalKills {
			return lines[i].Stats.TotalKills > lines[j].Stats.TotalKills
		}
		return lines[i].Player < lines[j].Player
	})
	return lines
}

func (b *Battle) Team1Players() []PlayerLine {
	return b.playerLines(b.Team1)
}

func (b *Battle) Team2Players() []PlayerLine {
	return b.playerLines(b.Team2)
}

func (b *Battle) playerLines(team *shared.Team) []PlayerLine {
	lines := make([]PlayerLine, 0, len(team.Players))
	for _, p := range team.Players {
		st := b.MapStatsFor(team.Name, p.Name)
		lines = append(lines, PlayerLine{
			Team:    team.Name,
			Name:    p.Name,
			Role:    p.Role,
			Health:  p.Health,
			Alive:   p.IsAlive(),
			Kills:   st.Kills,
			Deaths:  st.Deaths,
			Assists: st.Assists,
		})
	}
	return lines
}
