/* battle.go
 * Contains the Battle struct: the live state of one best-of-three series. Rounds are resolved in round.go and fed
 * through advance, which owns every score, side, overtime and map transition
 */

package battle

import (
	"errors"
	"fmt"
	"major-sim/api/shared"
	"math/rand"
)

// RoundResult tells the caller what happened to the series after a round
type RoundResult int

const (
	Continue RoundResult = iota
	SideSwitch
	NextMap
	SeriesFinished
)

func (r RoundResult) String() string {
	switch r {
	case Continue:
		return "CONTINUE"
	case SideSwitch:
		return "SIDE_SWITCH"
	case NextMap:
		return "NEXT_MAP"
	case SeriesFinished:
		return "SERIES_FINISHED"
	default:
		return "UNKNOWN"
	}
}

const (
	MapsInSeries = 3
	MapsToWin    = 2

	regulationTarget    = 13
	overtimeTarget      = 16
	superOvertimeTarget = 21

	halfLength           = 12
	overtimeTrigger      = 12
	superOvertimeTrigger = 15
	overtimeSwitchBase   = 24
	overtimeSwitchEvery  = 6
)

var (
	ErrNilTeam   = errors.New("battle requires two teams")
	ErrSameTeam  = errors.New("a team cannot play itself")
	ErrNoPlayers = errors.New("team has no players")
	ErrMapCount  = errors.New("a series needs exactly 3 maps")
)

type Battle struct {
	Team1           *shared.Team
	Team2           *shared.Team
	SelectedMaps    []shared.MapPool
	CurrentMap      int // 1-based
	Round           int // number of the round about to be played
	Team1Score      int
	Team2Score      int
	Team1Maps       int
	Team2Maps       int
	Team1Attacking  bool
	FirstHalf       bool
	Overtime        bool
	SuperOvertime   bool
	LastRoundWinner *shared.Team
	SeriesFinished  bool

	rng         *rand.Rand
	log         []string
	events      []KillEvent
	mapStats    map[statKey]*PlayerMapStats
	seriesStats map[statKey]*PlayerSeriesStats
	mapResults  []shared.MapResult
}

// NewBattle creates a series between two teams on the given maps
// Preconditions: Receives two distinct teams with players, exactly 3 maps and a random source (nil picks a time seeded one)
// Postconditions: Returns the Battle at map 1 round 1 with team1 attacking and every player at full health, or an error
func NewBattle(team1, team2 *shared.Team, maps []shared.MapPool, rng *rand.Rand) (*Battle, error) {
	if team1 == nil || team2 == nil {
		return nil, ErrNilTeam
	}
	if team1 == team2 || team1.Name == team2.Name {
		return nil, ErrSameTeam
	}
	if len(team1.Players) == 0 {
		return nil, fmt.Errorf("%s: %w", team1.Name, ErrNoPlayers)
	}
	if len(team2.Players) == 0 {
		return nil, fmt.Errorf("%s: %w", team2.Name, ErrNoPlayers)
	}
	if len(maps) != MapsInSeries {
		return nil, fmt.Errorf("%w, got %d", ErrMapCount, len(maps))
	}
	if rng == nil {
		rng = shared.NewRand(0)
	}

	selected := make([]shared.MapPool, len(maps))
	copy(selected, maps)

	b := &Battle{
		Team1:          team1,
		Team2:          team2,
		SelectedMaps:   selected,
		CurrentMap:     1,
		Round:          1,
		Team1Attacking: true,
		FirstHalf:      true,
		rng:            rng,
		mapStats:       make(map[statKey]*PlayerMapStats),
		seriesStats:    make(map[statKey]*PlayerSeriesStats),
	}
	team1.ResetHealth()
	team2.ResetHealth()
	b.addToLog(fmt.Sprintf("=== MAP 1: %s ===", b.CurrentMapName()))
	return b, nil
}

// SimulateRound plays one round and applies the resulting state transition. A finished series is left untouched
func (b *Battle) SimulateRound() RoundResult {
	_, res := b.PlayRound()
	return res
}

// PlayRound is SimulateRound that also returns the round details
func (b *Battle) PlayRound() (RoundOutcome, RoundResult) {
	if b.SeriesFinished {
		return RoundOutcome{}, SeriesFinished
	}
	out := b.playRound()
	return out, b.advance(out.Winner)
}

// SimulateFullSeries plays rounds until the series is decided
func (b *Battle) SimulateFullSeries() {
	if b.SeriesFinished {
		return
	}
	b.addToLog("=== FULL SERIES SIMULATION STARTED ===")
	for !b.SeriesFinished {
		b.SimulateRound()
	}
	b.addToLog("=== FULL SERIES SIMULATION FINISHED ===")
}

// advance credits the round to winner and runs the map/series state machine
func (b *Battle) advance(winner *shared.Team) RoundResult {
	if winner == b.Team1 {
		b.Team1Score++
	} else {
		b.Team2Score++
	}
	b.Round++

	b.checkOvertimeStart()

	if mapWinner := b.CheckMapWinner(); mapWinner != nil {
		b.finishMap(mapWinner)

		if seriesWinner := b.CheckSeriesWinner(); seriesWinner != nil {
			b.SeriesFinished = true
			seriesWinner.Wins++
			b.Opponent(seriesWinner).Losses++
			b.addToLog(fmt.Sprintf("=== SERIES FINISHED: %s WINS %d:%d ===", seriesWinner.Name, b.Team1Maps, b.Team2Maps))
			return SeriesFinished
		}
		if b.startNextMap() {
			return NextMap
		}
	}

	if b.Round > halfLength && b.FirstHalf && !b.Overtime {
		b.switchSides()
		return SideSwitch
	}
	if b.Overtime && (b.Round-overtimeSwitchBase)%overtimeSwitchEvery == 0 {
		b.switchSides()
		return SideSwitch
	}
	return Continue
}

func (b *Battle) checkOvertimeStart() {
	if !b.Overtime && b.Team1Score == overtimeTrigger && b.Team2Score == overtimeTrigger {
		b.Overtime = true
		b.addToLog("=== OVERTIME STARTED! FIRST TO 16 ===")
	}
	if b.Overtime && !b.SuperOvertime && b.Team1Score == superOvertimeTrigger && b.Team2Score == superOvertimeTrigger {
		b.SuperOvertime = true
		b.addToLog("=== SUPER OVERTIME STARTED! FIRST TO 21 ===")
	}
}

// CheckMapWinner returns the team that has reached the round target of the current phase, or nil
func (b *Battle) CheckMapWinner() *shared.Team {
	target := regulationTarget
	switch {
	case b.SuperOvertime:
		target = superOvertimeTarget
	case b.Overtime:
		target = overtimeTarget
	}
	switch {
	case b.Team1Score >= target:
		return b.Team1
	case b.Team2Score >= target:
		return b.Team2
	default:
		return nil
	}
}

// CheckSeriesWinner returns the team with 2 map wins, or nil
func (b *Battle) CheckSeriesWinner() *shared.Team {
	switch {
	case b.Team1Maps >= MapsToWin:
		return b.Team1
	case b.Team2Maps >= MapsToWin:
		return b.Team2
	default:
		return nil
	}
}

// finishMap records the map result, rolls player stats into the series and credits the map win
func (b *Battle) finishMap(winner *shared.Team) {
	b.mapResults = append(b.mapResults, shared.MapResult{
		MapNumber:  b.CurrentMap,
		MapName:    b.CurrentMapName(),
		Team1Score: b.Team1Score,
		Team2Score: b.Team2Score,
		Winner:     winner.Name,
	})

	b.Team1.RoundsWon += b.Team1Score
	b.Team1.RoundsLost += b.Team2Score
	b.Team2.RoundsWon += b.Team2Score
	b.Team2.RoundsLost += b.Team1Score
	b.Team1.MapsPlayed++
	b.Team2.MapsPlayed++

	b.flushMapStats()
	b.events = nil

	if winner == b.Team1 {
		b.Team1Maps++
	} else {
		b.Team2Maps++
	}
	b.addToLog(fmt.Sprintf("=== %s TAKES %s %d:%d ===", winner.Name, b.CurrentMapName(), b.Team1Score, b.Team2Score))
}

func (b *Battle) switchSides() {
	b.Team1Attacking = !b.Team1Attacking
	b.FirstHalf = false
	b.addToLog("=== SIDES SWITCHED ===")
}

// startNextMap resets the per-map state. Team1 attacks first on odd maps
func (b *Battle) startNextMap() bool {
	if b.CurrentMap >= MapsInSeries || b.CurrentMap >= len(b.SelectedMaps) {
		return false
	}
	b.CurrentMap++
	b.Round = 1
	b.Team1Score = 0
	b.Team2Score = 0
	b.Team1Attacking = b.CurrentMap%2 == 1
	b.FirstHalf = true
	b.LastRoundWinner = nil
	b.Overtime = false
	b.SuperOvertime = false

	b.Team1.ResetHealth()
	b.Team2.ResetHealth()

	b.addToLog("=== MOVING TO THE NEXT MAP ===")
	b.addToLog(fmt.Sprintf("=== MAP %d: %s ===", b.CurrentMap, b.CurrentMapName()))
	return true
}

func (b *Battle) Attacker() *shared.Team {
	if b.Team1Attacking {
		return b.Team1
	}
	return b.Team2
}

func (b *Battle) Defender() *shared.Team {
	if b.Team1Attacking {
		return b.Team2
	}
	return b.Team1
}

// Opponent returns the other team of the series
func (b *Battle) Opponent(team *shared.Team) *shared.Team {
	if team == b.Team1 {
		return b.Team2
	}
	return b.Team1
}

// Winner is the series winner once the series is finished
func (b *Battle) Winner() *shared.Team {
	if !b.SeriesFinished {
		return nil
	}
	return b.CheckSeriesWinner()
}

func (b *Battle) CurrentMapName() string {
	if b.CurrentMap >= 1 && b.CurrentMap <= len(b.SelectedMaps) {
		return b.SelectedMaps[b.CurrentMap-1].DisplayName()
	}
	return fmt.Sprintf("Map %d", b.CurrentMap)
}

// RoundInfo is the header line shown above the scoreboard
func (b *Battle) RoundInfo() string {
	attacker, defender := b.Attacker(), b.Defender()
	phase := ""
	switch {
	case b.SuperOvertime:
		phase = " | SUPER OVERTIME (to 21)"
	case b.Overtime:
		phase = " | OVERTIME (to 16)"
	}
	return fmt.Sprintf("%s | Round %d: %s (T) vs %s (CT)%s", b.CurrentMapName(), b.Round, attacker.Name, defender.Name, phase)
}

// Scoreline returns "team1 x:y team2 (maps a:b)"
func (b *Battle) Scoreline() string {
	return fmt.Sprintf("%s %d:%d %s (maps %d:%d)", b.Team1.Name, b.Team1Score, b.Team2Score, b.Team2.Name, b.Team1Maps, b.Team2Maps)
}

func (b *Battle) addToLog(line string) {
	b.log = append(b.log, line)
}

func (b *Battle) addKillEvent(ev KillEvent) {
	b.events = append(b.events, ev)
	b.addToLog(ev.String())
}

// Log returns a copy of the text log for the whole series
func (b *Battle) Log() []string {
	out := make([]string, len(b.log))
	copy(out, b.log)
	return out
}

// Events returns a copy of the kill events of the current map
func (b *Battle) Events() []KillEvent {
	out := make([]KillEvent, len(b.events))
	copy(out, b.events)
	return out
}

// MapResults returns the results of the maps finished so far
func (b *Battle) MapResults() []shared.MapResult {
	out := make([]shared.MapResult, len(b.mapResults))
	copy(out, b.mapResults)
	return out
}
