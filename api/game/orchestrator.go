/* orchestrator.go
 * Contains the Orchestrator: the single owner of the roster, the tournament and the series the human team is
 * playing. Every exported method is a critical section so a mutation and the transition it causes are observed
 * together
 */

package game

import (
	"errors"
	"log"
	"major-sim/api/battle"
	"major-sim/api/shared"
	"major-sim/api/tournament"
	"math/rand"
	"sync"
)

// MatchKind tells what the current series counts for
type MatchKind string

const (
	KindNone    MatchKind = ""
	KindFree    MatchKind = "FREE"
	KindGroup   MatchKind = "GROUP"
	KindPlayoff MatchKind = "PLAYOFF"
)

var ErrNoTeams = errors.New("orchestrator needs a roster")

// PlayerMatch is one group fixture of the human team. Maps are drawn when the tournament starts
type PlayerMatch struct {
	Opponent      *shared.Team
	Maps          []shared.MapPool
	Played        bool
	PlayerScore   int
	OpponentScore int
	MapResults    []shared.MapResult // player is team1
	Winner        *shared.Team
}

type Config struct {
	Teams    []*shared.Team
	Info     tournament.Info
	Settings Settings
	Rand     *rand.Rand
}

type Orchestrator struct {
	mu sync.Mutex

	rng      *rand.Rand
	teams    []*shared.Team
	index    shared.TeamIndex
	info     tournament.Info
	settings Settings

	selected *shared.Team
	tour     *tournament.Tournament
	fixtures []*PlayerMatch

	battle      *battle.Battle
	kind        MatchKind
	label       string
	fixture     int // index into fixtures for a group series, -1 otherwise
	playoff     *tournament.PlayoffMatch
	completed   *battle.Battle
	lastSummary *SeriesSummary

	autoplay *autoPlayer
}

// New creates an orchestrator over a roster
// Preconditions: Receives a config with at least one team. Zero Info and Settings fall back to the defaults
// Postconditions: Returns the orchestrator with no team selected and no tournament, or ErrNoTeams
func New(cfg Config) (*Orchestrator, error) {
	if len(cfg.Teams) == 0 {
		return nil, ErrNoTeams
	}
	if cfg.Rand == nil {
		cfg.Rand = shared.NewRand(0)
	}
	if cfg.Info.ID == "" {
		cfg.Info = tournament.BlastAustin2025
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	return &Orchestrator{
		rng:      cfg.Rand,
		teams:    cfg.Teams,
		index:    shared.NewTeamIndex(cfg.Teams),
		info:     cfg.Info,
		settings: cfg.Settings,
		fixture:  -1,
	}, nil
}

// Teams returns the roster in file order
func (o *Orchestrator) Teams() []*shared.Team {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*shared.Team, len(o.teams))
	copy(out, o.teams)
	return out
}

// TeamNames returns the roster names, used for fuzzy matching user input
func (o *Orchestrator) TeamNames() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, len(o.teams))
	for i, t := range o.teams {
		names[i] = t.Name
	}
	return names
}

// Team returns the roster entry with the exact name, or nil
func (o *Orchestrator) Team(name string) *shared.Team {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index.Lookup(name)
}

func (o *Orchestrator) Selected() *shared.Team {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selected
}

// SelectTeam picks the human team. Not allowed while a tournament is running or a series is in progress
func (o *Orchestrator) SelectTeam(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	team := o.index.Lookup(name)
	if team == nil || o.inProgress() || o.tournamentRunning() {
		return false
	}
	o.selected = team
	return true
}

func (o *Orchestrator) inProgress() bool {
	return o.battle != nil && !o.battle.SeriesFinished
}

func (o *Orchestrator) tournamentRunning() bool {
	return o.tour != nil && !o.tour.Completed
}

// StartTournament draws the groups and the human's fixtures
// Preconditions: A team is selected and no series is in progress
// Postconditions: A new tournament is in the group stage. If the human team is outside the 16 strongest it has no
// fixtures and the tournament can only be simulated
func (o *Orchestrator) StartTournament() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil || o.inProgress() {
		return false
	}
	tour, err := tournament.New(o.info, o.teams)
	if err != nil {
		return false
	}
	o.stopAutoPlayLocked()
	o.tour = tour
	o.clearMatch()
	o.completed = nil
	o.fixtures = nil

	if g := tour.GroupOf(o.selected); g != nil {
		for _, gt := range g.Teams {
			if gt.Team == o.selected {
				continue
			}
			o.fixtures = append(o.fixtures, &PlayerMatch{
				Opponent: gt.Team,
				Maps:     shared.PickMaps(o.rng, battle.MapsInSeries),
			})
		}
	}
	return true
}

// clearMatch forgets the current series without touching the completed one
func (o *Orchestrator) clearMatch() {
	o.battle = nil
	o.kind = KindNone
	o.label = ""
	o.fixture = -1
	o.playoff = nil
}

// startBattle replaces the current series with a new one where the human is team1
func (o *Orchestrator) startBattle(opponent *shared.Team, maps []shared.MapPool, kind MatchKind, label string) bool {
	b, err := battle.NewBattle(o.selected, opponent, maps, o.rng)
	if err != nil {
		return false
	}
	o.stopAutoPlayLocked()
	o.battle = b
	o.kind = kind
	o.label = label
	o.completed = nil
	return true
}

// StartNextGroupMatch starts the human's next unplayed group fixture on its pre-drawn maps
func (o *Orchestrator) StartNextGroupMatch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Stage != tournament.StageGroups || o.inProgress() {
		return false
	}
	for i, f := range o.fixtures {
		if f.Played {
			continue
		}
		label := "Group"
		if g := o.tour.GroupOf(o.selected); g != nil {
			label = g.Name
		}
		if !o.startBattle(f.Opponent, f.Maps, KindGroup, label) {
			return false
		}
		o.fixture = i
		return true
	}
	return false
}

// HasUnfinishedGroupMatch reports whether a group series was started and not completed
func (o *Orchestrator) HasUnfinishedGroupMatch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.kind == KindGroup && o.battle != nil
}

// StartFreeMatch starts a series against any other team outside the tournament
func (o *Orchestrator) StartFreeMatch(opponent string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	opp := o.index.Lookup(opponent)
	if o.selected == nil || opp == nil || opp == o.selected || o.inProgress() {
		return false
	}
	return o.startBattle(opp, shared.PickMaps(o.rng, battle.MapsInSeries), KindFree, "Free match")
}

// SimulateRound plays one round of the current series
// Postconditions: Returns the round result and true, or false when there is no series or it is already finished
func (o *Orchestrator) SimulateRound() (battle.RoundResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inProgress() {
		return battle.Continue, false
	}
	return o.battle.SimulateRound(), true
}

// SimulateFullSeries plays the current series to the end
func (o *Orchestrator) SimulateFullSeries() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inProgress() {
		return false
	}
	o.stopAutoPlayLocked()
	o.battle.SimulateFullSeries()
	return true
}

// CompleteGroupMatch records the human's group fixture and moves the rest of the groups along by one round
// Preconditions: A group series is current and the scores have a winner. Map results are from the human's view
// Postconditions: The fixture and the group table are updated, one round of other group matches is simulated and,
// once every fixture is played, the group stage is finished and the playoffs are drawn
func (o *Orchestrator) CompleteGroupMatch(playerMaps, opponentMaps int, results []shared.MapResult) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completeGroupMatch(playerMaps, opponentMaps, results)
}

func (o *Orchestrator) completeGroupMatch(playerMaps, opponentMaps int, results []shared.MapResult) bool {
	if o.kind != KindGroup || o.fixture < 0 || o.fixture >= len(o.fixtures) || o.battle == nil {
		return false
	}
	if playerMaps == opponentMaps {
		return false
	}
	f := o.fixtures[o.fixture]
	g := o.tour.GroupOf(o.selected)
	if g == nil {
		return false
	}
	gm := g.MatchBetween(o.selected, f.Opponent)
	if gm == nil {
		return false
	}

	t1Maps, t2Maps, oriented := playerMaps, opponentMaps, results
	if gm.Team1 != o.selected {
		t1Maps, t2Maps, oriented = opponentMaps, playerMaps, flipResults(results)
	}
	if err := g.RecordResult(gm, t1Maps, t2Maps, oriented); err != nil {
		return false
	}

	f.Played = true
	f.PlayerScore = playerMaps
	f.OpponentScore = opponentMaps
	f.MapResults = append([]shared.MapResult(nil), results...)
	f.Winner = f.Opponent
	if playerMaps > opponentMaps {
		f.Winner = o.selected
	}

	o.finishSeries()
	tournament.SimulateOneRound(o.tour.Groups, o.selected, o.rng)

	if o.allFixturesPlayed() {
		o.startPlayoffs()
	}
	return true
}

func (o *Orchestrator) allFixturesPlayed() bool {
	for _, f := range o.fixtures {
		if !f.Played {
			return false
		}
	}
	return true
}

// startPlayoffs plays whatever is left of the group stage and draws the bracket
func (o *Orchestrator) startPlayoffs() {
	if o.tour.Stage != tournament.StageGroups {
		return
	}
	tournament.SimulateAll(o.tour.Groups, nil, o.rng)
	o.syncFixtures()
	if err := o.tour.StartPlayoffs(o.rng); err != nil {
		log.Printf("failed to start playoffs of %s: %v", o.tour.Name, err)
	}
}

// syncFixtures copies results of human group matches that were simulated into the fixture list
func (o *Orchestrator) syncFixtures() {
	g := o.tour.GroupOf(o.selected)
	if g == nil {
		return
	}
	for _, f := range o.fixtures {
		if f.Played {
			continue
		}
		gm := g.MatchBetween(o.selected, f.Opponent)
		if gm == nil || !gm.Played {
			continue
		}
		f.Played = true
		f.Winner = gm.Winner
		if gm.Team1 == o.selected {
			f.PlayerScore, f.OpponentScore = gm.Team1Score, gm.Team2Score
			f.MapResults = append([]shared.MapResult(nil), gm.MapResults...)
		} else {
			f.PlayerScore, f.OpponentScore = gm.Team2Score, gm.Team1Score
			f.MapResults = flipResults(gm.MapResults)
		}
	}
}

// flipResults swaps the team1/team2 scores of every map
func flipResults(results []shared.MapResult) []shared.MapResult {
	if results == nil {
		return nil
	}
	out := make([]shared.MapResult, len(results))
	for i, r := range results {
		r.Team1Score, r.Team2Score = r.Team2Score, r.Team1Score
		out[i] = r
	}
	return out
}

// finishSeries keeps the finished battle around for display and clears the current series
func (o *Orchestrator) finishSeries() {
	o.stopAutoPlayLocked()
	if o.battle != nil {
		o.lastSummary = summarize(o.battle, o.kind, o.label)
	}
	o.completed = o.battle
	o.clearMatch()
}

// CompleteCurrentMatch completes the current series from the battle's own result
// Preconditions: The current series is finished
// Postconditions: Same as the Complete call for the series kind. Free matches are just moved to completed
func (o *Orchestrator) CompleteCurrentMatch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.battle == nil || !o.battle.SeriesFinished {
		return false
	}
	switch o.kind {
	case KindGroup:
		return o.completeGroupMatch(o.battle.Team1Maps, o.battle.Team2Maps, o.battle.MapResults())
	case KindPlayoff:
		return o.completePlayoffMatch(o.battle.Team1Maps, o.battle.Team2Maps, o.battle.MapResults())
	default:
		o.finishSeries()
		return true
	}
}

// ResetCurrentMatch abandons the current series and the completed one
func (o *Orchestrator) ResetCurrentMatch() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopAutoPlayLocked()
	o.clearMatch()
	o.completed = nil
}

// HasQualified reports whether the human team is in the top two of its group
func (o *Orchestrator) HasQualified() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.selected == nil {
		return false
	}
	return o.tour.HasQualified(o.selected)
}

// SimulateGroupRound plays one round of group matches the human is not part of
func (o *Orchestrator) SimulateGroupRound() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Stage != tournament.StageGroups {
		return 0
	}
	n := tournament.SimulateOneRound(o.tour.Groups, o.selected, o.rng)
	o.maybeStartPlayoffs()
	return n
}

// SimulateGroupStage plays every group match the human is not part of
func (o *Orchestrator) SimulateGroupStage() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Stage != tournament.StageGroups {
		return 0
	}
	n := tournament.SimulateAll(o.tour.Groups, o.selected, o.rng)
	o.maybeStartPlayoffs()
	return n
}

// maybeStartPlayoffs moves on once nothing is left for the human to play in the groups
func (o *Orchestrator) maybeStartPlayoffs() {
	if o.allFixturesPlayed() && o.tour.GroupStageFinished() {
		o.startPlayoffs()
	}
}

// SimulateTournament abandons any tournament series of the human and plays the tournament to the end
func (o *Orchestrator) SimulateTournament() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Completed {
		return false
	}
	if o.kind == KindGroup || o.kind == KindPlayoff {
		o.stopAutoPlayLocked()
		o.clearMatch()
	}
	if o.tour.Stage == tournament.StageGroups {
		o.startPlayoffs()
	}
	if err := o.tour.SimulateRemaining(o.rng); err != nil {
		return false
	}
	return true
}

// Champion returns the tournament winner, or nil
func (o *Orchestrator) Champion() *shared.Team {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil {
		return nil
	}
	return o.tour.Champion()
}

func (o *Orchestrator) Settings() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// UpdateSettings replaces the settings. Turning auto-play off stops a running driver
func (o *Orchestrator) UpdateSettings(s Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings = s
	if !s.AutoPlayEnabled {
		o.stopAutoPlayLocked()
	}
}
