/* series.go
 * Quick best of three used for every match the human is not playing. Each map is a single draw on the match-level
 * win probability, the winner takes it 13 to a uniform 0..12
 */

package tournament

import (
	"major-sim/api/battle"
	"major-sim/api/shared"
	"math/rand"
)

const (
	quickMapWinnerScore = 13
	mapsToWin           = 2
)

// SeriesResult is the outcome of a finished best of three
type SeriesResult struct {
	Team1Maps  int
	Team2Maps  int
	MapResults []shared.MapResult
	Winner     *shared.Team
}

// SimulateSeries plays a quick best of three between two teams
// Preconditions: Receives two teams and a random source
// Postconditions: Returns the result of 2 or 3 maps, stopping as soon as a team has 2 map wins
func SimulateSeries(team1, team2 *shared.Team, rng *rand.Rand) SeriesResult {
	maps := shared.PickMaps(rng, battle.MapsInSeries)
	p := battle.MatchWinProbability(team1, team2)

	var res SeriesResult
	for i, m := range maps {
		if res.Team1Maps == mapsToWin || res.Team2Maps == mapsToWin {
			break
		}
		winner := team2
		if rng.Float64() < p {
			winner = team1
		}
		loserScore := rng.Intn(quickMapWinnerScore)

		mr := shared.MapResult{MapNumber: i + 1, MapName: m.DisplayName(), Winner: winner.Name}
		if winner == team1 {
			mr.Team1Score, mr.Team2Score = quickMapWinnerScore, loserScore
			res.Team1Maps++
		} else {
			mr.Team1Score, mr.Team2Score = loserScore, quickMapWinnerScore
			res.Team2Maps++
		}
		res.MapResults = append(res.MapResults, mr)
	}

	res.Winner = team2
	if res.Team1Maps > res.Team2Maps {
		res.Winner = team1
	}
	return res
}

// winnerRoundMargin sums the round margin of the series winner over the played maps. It is negative when the
// winner dropped more rounds than it took across the series
func winnerRoundMargin(results []shared.MapResult, winnerIsTeam1 bool) int {
	diff := 0
	for _, r := range results {
		if winnerIsTeam1 {
			diff += r.Team1Score - r.Team2Score
		} else {
			diff += r.Team2Score - r.Team1Score
		}
	}
	return diff
}
