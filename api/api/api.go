/* api.go
 * This file contains the public methods for interacting with the simulator. The bot and the web server only call
 * into this file and the orchestrator views. Every method that changes the session saves a snapshot, and every
 * finished series of the human team is stored as a series record
 */

package api

import (
	"errors"
	"fmt"
	"log"
	"major-sim/api/battle"
	"major-sim/api/game"
	"major-sim/api/logic"
	"major-sim/api/store"
	"major-sim/api/tournament"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// API provides methods for playing a session and persisting it
type API struct {
	Store   store.Interface // nil when persistence is not configured
	Game    *game.Orchestrator
	OwnerID string

	mu           sync.Mutex
	sessionID    string
	tournamentID string
}

// NewAPI creates a new API instance over an orchestrator
// Preconditions: Receives the database name, the mongo URI and the orchestrator. An empty URI disables persistence
// Postconditions: Returns the API with a fresh session id, or an error if the store could not be initialised
func NewAPI(dbName string, mongoURI string, g *game.Orchestrator) (*API, error) {
	if g == nil {
		return nil, ErrNoGame
	}
	a := &API{Game: g, sessionID: uuid.NewString()}
	if mongoURI == "" {
		log.Println("no mongo URI configured, sessions will not be saved")
		return a, nil
	}

	s, err := store.NewStore(dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	a.Store = s
	return a, nil
}

// SessionID returns the id the session is saved under
func (a *API) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// TournamentID returns the id series records are stored under, empty before the first tournament
func (a *API) TournamentID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tournamentID
}

// persist saves the session. Failures are logged, the command that triggered the save still succeeds
func (a *API) persist() {
	if a.Store == nil {
		return
	}
	if err := a.saveSession(); err != nil {
		log.Printf("failed to save session: %v", err)
	}
}

func (a *API) saveSession() error {
	a.mu.Lock()
	doc := store.SessionDoc{ID: a.sessionID, OwnerID: a.OwnerID, TournamentID: a.tournamentID}
	a.mu.Unlock()
	doc.Snapshot = a.Game.Snapshot()
	return a.Store.SaveSession(doc)
}

// GetTeams lists the roster, strongest first
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns a string slice with one "name (country) - strength" line per team
func (a *API) GetTeams() []string {
	var lines []string
	for _, t := range a.Game.Teams() {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", t.Name, t.Country, t.Strength))
	}
	return lines
}

// SelectTeam resolves the user's input against the roster and makes it the human team
// Preconditions: Receives the team name as typed by the user
// Postconditions: Returns a confirmation, a TeamNotFoundError or ErrSeriesInProgress
func (a *API) SelectTeam(input string) (string, error) {
	input = strings.Trim(strings.TrimSpace(input), "\"“”")
	name, ok := logic.MatchTeamName(input, a.Game.TeamNames())
	if !ok {
		return "", &TeamNotFoundError{Input: input}
	}
	if !a.Game.SelectTeam(name) {
		return "", ErrSeriesInProgress
	}
	a.persist()

	t := a.Game.Team(name)
	var response strings.Builder
	response.WriteString(fmt.Sprintf("You are now playing as **%s** (%s), strength %d\n", t.Name, t.Country, t.Strength))
	for _, p := range t.Players {
		response.WriteString(fmt.Sprintf("- %s [%s] skill %d\n", p.Name, p.Role, p.Skill))
	}
	return response.String(), nil
}

// StartTournament draws a new tournament and gives it a new id for series records
// Preconditions: A team is selected and no series is in progress
// Postconditions: Returns the group draw and the human's fixtures, or an error if the tournament could not start
func (a *API) StartTournament() (string, error) {
	if a.Game.Selected() == nil {
		return "", ErrNoTeamSelected
	}
	if !a.Game.StartTournament() {
		return "", ErrSeriesInProgress
	}
	a.mu.Lock()
	a.tournamentID = uuid.NewString()
	a.mu.Unlock()
	a.persist()

	state := a.Game.State()
	var response strings.Builder
	response.WriteString(fmt.Sprintf("**%s** has started!\n", state.Tournament))
	response.WriteString(formatStandings(a.Game.Standings()))
	if len(state.Fixtures) == 0 {
		response.WriteString(fmt.Sprintf("%s did not make the top 16, use $simulate to play the tournament out\n", state.Selected))
		return response.String(), nil
	}
	response.WriteString("Your group matches:\n")
	response.WriteString(formatFixtures(state.Fixtures))
	return response.String(), nil
}

// NextMatch starts the human's next series: the next group fixture or the next ready playoff match
// Preconditions: A tournament is running and no series is in progress
// Postconditions: Returns the series header, or an error explaining why nothing could start
func (a *API) NextMatch() (string, error) {
	state := a.Game.State()
	switch {
	case state.Selected == "":
		return "", ErrNoTeamSelected
	case state.Tournament == "":
		return "", ErrNoTournament
	case state.Battle != nil:
		return "", ErrSeriesInProgress
	case state.Champion != "":
		return "", ErrTournamentOver
	}

	started := false
	switch {
	case a.Game.StartNextGroupMatch():
		started = true
	case a.Game.CanPlayFinal():
		started = a.Game.StartFinalMatch()
	default:
		started = a.Game.StartPlayoffMatch()
	}
	if !started {
		return "", ErrNoMatchAvailable
	}
	a.persist()
	return formatSeriesHeader(a.Game.State().Battle), nil
}

// StartFreeMatch starts a series against any team, outside the tournament
func (a *API) StartFreeMatch(opponent string) (string, error) {
	if a.Game.Selected() == nil {
		return "", ErrNoTeamSelected
	}
	name, ok := logic.MatchTeamName(opponent, a.Game.TeamNames())
	if !ok {
		return "", &TeamNotFoundError{Input: opponent}
	}
	if !a.Game.StartFreeMatch(name) {
		return "", fmt.Errorf("could not start a match against %s", name)
	}
	a.persist()
	return formatSeriesHeader(a.Game.State().Battle), nil
}

// PlayRound simulates one round of the current series
// Preconditions: A series is in progress
// Postconditions: Returns the round report. When the round ends the series, the series is completed and the summary
// is appended
func (a *API) PlayRound() (string, error) {
	result, ok := a.Game.SimulateRound()
	if !ok {
		return "", ErrNoSeries
	}
	state := a.Game.State()
	report := formatRound(state.Battle)
	if result != battle.SeriesFinished {
		a.persist()
		return report, nil
	}
	summary, err := a.completeSeries()
	if err != nil {
		return "", err
	}
	return report + "\n" + summary, nil
}

// PlaySeries simulates the rest of the current series and completes it
func (a *API) PlaySeries() (string, error) {
	if !a.Game.SimulateFullSeries() {
		return "", ErrNoSeries
	}
	return a.completeSeries()
}

// FinishMatch completes the current series. A finished series is completed from its own result, otherwise a
// scoreline from the human's view such as "2-1" is recorded
func (a *API) FinishMatch(score string) (string, error) {
	state := a.Game.State()
	if state.Battle == nil {
		return "", ErrNoSeries
	}
	if state.Battle.Finished {
		return a.completeSeries()
	}
	if strings.TrimSpace(score) == "" {
		return "", ErrSeriesNotFinished
	}

	playerMaps, opponentMaps, err := logic.ParseScoreline(score)
	if err != nil {
		return "", err
	}
	results := state.Battle.MapResults
	var ok bool
	switch state.Battle.Kind {
	case game.KindGroup:
		ok = a.Game.CompleteGroupMatch(playerMaps, opponentMaps, results)
	case game.KindPlayoff:
		ok = a.Game.CompletePlayoffMatch(playerMaps, opponentMaps, results)
	default:
		return "", fmt.Errorf("free matches have no result to record, play them out with $series")
	}
	if !ok {
		return "", fmt.Errorf("could not record %s", score)
	}
	a.persist()
	return fmt.Sprintf("Recorded %s %d-%d %s\n%s", state.Battle.Team1, playerMaps, opponentMaps, state.Battle.Team2, a.progressReport()), nil
}

// AfterAutoPlay completes the series an auto-play driver finished. It is a no-op while the series is still running
func (a *API) AfterAutoPlay() (string, error) {
	state := a.Game.State()
	if state.Battle == nil || !state.Battle.Finished {
		a.persist()
		return formatRound(state.Battle), nil
	}
	return a.completeSeries()
}

// completeSeries moves the finished series into the tournament, stores its record and reports it
func (a *API) completeSeries() (string, error) {
	if !a.Game.CompleteCurrentMatch() {
		return "", ErrSeriesNotFinished
	}
	summary, ok := a.Game.LastSeries()
	if !ok {
		return "", ErrSeriesNotFinished
	}
	a.recordSeries(summary)
	a.persist()
	return formatSeriesSummary(summary) + a.progressReport(), nil
}

// recordSeries stores a series record. Free matches count towards the leaderboard of the current tournament too
func (a *API) recordSeries(summary game.SeriesSummary) {
	if a.Store == nil {
		return
	}
	a.mu.Lock()
	tournamentID, sessionID := a.tournamentID, a.sessionID
	a.mu.Unlock()
	if tournamentID == "" {
		tournamentID = sessionID
	}
	if err := a.Store.StoreSeriesRecord(store.NewSeriesRecord(tournamentID, sessionID, summary)); err != nil {
		log.Printf("failed to store series record: %v", err)
	}
}

// progressReport tells the human what happened around their series and what comes next
func (a *API) progressReport() string {
	state := a.Game.State()
	var response strings.Builder
	switch {
	case state.Champion != "":
		if state.Champion == state.Selected {
			response.WriteString(fmt.Sprintf("🏆 %s are the champions of %s!\n", state.Champion, state.Tournament))
		} else {
			response.WriteString(fmt.Sprintf("%s won %s\n", state.Champion, state.Tournament))
		}
	case state.Stage == tournament.StagePlayoffs:
		if state.CanPlayFinal {
			response.WriteString("You are in the Grand Final! Use $next to play it\n")
		} else if m, ok := a.Game.PlayerPlayoffMatch(); ok && !m.Completed {
			response.WriteString(fmt.Sprintf("Next up: %s %s vs %s\n", m.ID, m.Team1, m.Team2))
		} else if state.Qualified {
			response.WriteString("You have been eliminated from the playoffs\n")
		} else {
			response.WriteString("You did not qualify for the playoffs\n")
		}
	case state.Stage == tournament.StageGroups:
		for _, f := range state.Fixtures {
			if !f.Played {
				response.WriteString(fmt.Sprintf("Next group match: vs %s on %s\n", f.Opponent, strings.Join(f.Maps, ", ")))
				break
			}
		}
	}
	return response.String()
}

// PlayoffMatch reports the human's next or last playoff match
func (a *API) PlayoffMatch() (string, error) {
	m, ok := a.Game.PlayerPlayoffMatch()
	if !ok {
		return "", fmt.Errorf("your team has no playoff match")
	}
	return formatPlayoffMatch(m), nil
}

// Status reports the session: selected team, stage, current series
func (a *API) Status() string {
	state := a.Game.State()
	if state.Selected == "" {
		return "No team selected. Use $teams to list them and $select <team> to pick one\n"
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Team: **%s**\n", state.Selected))
	if state.Tournament != "" {
		response.WriteString(fmt.Sprintf("Tournament: %s (%s)\n", state.Tournament, state.Stage))
	}
	if state.Battle != nil {
		response.WriteString(formatSeriesHeader(state.Battle))
		response.WriteString(formatScoreboard(state.Battle))
	} else if state.Completed != nil {
		response.WriteString(fmt.Sprintf("Last series: %s %d-%d %s\n", state.Completed.Team1, state.Completed.Team1Maps, state.Completed.Team2Maps, state.Completed.Team2))
	}
	if len(state.Fixtures) > 0 {
		response.WriteString("Group matches:\n")
		response.WriteString(formatFixtures(state.Fixtures))
	}
	response.WriteString(a.progressReport())
	if state.AutoPlaying {
		response.WriteString("Auto-play is running\n")
	}
	return response.String()
}

// Standings returns the group tables
func (a *API) Standings() (string, error) {
	tables := a.Game.Standings()
	if tables == nil {
		return "", ErrNoTournament
	}
	return formatStandings(tables), nil
}

// Bracket returns the playoff bracket and how far every team got
func (a *API) Bracket() (string, error) {
	b, ok := a.Game.Bracket()
	if !ok {
		return "", fmt.Errorf("the playoffs have not been drawn yet")
	}
	return formatBracket(b) + "\n" + logic.ProgressionReport(logic.BracketProgression(b)), nil
}

// SimulateGroups plays one round of the other group matches, or the rest of the group stage when all is true
func (a *API) SimulateGroups(all bool) (string, error) {
	var n int
	if all {
		n = a.Game.SimulateGroupStage()
	} else {
		n = a.Game.SimulateGroupRound()
	}
	if n == 0 {
		return "", fmt.Errorf("there are no group matches left to simulate")
	}
	a.persist()
	return fmt.Sprintf("Simulated %d group matches\n%s", n, a.progressReport()), nil
}

// SimulateTournament plays the tournament to the end, the human's open tournament series is abandoned
func (a *API) SimulateTournament() (string, error) {
	if a.Game.State().Tournament == "" {
		return "", ErrNoTournament
	}
	if !a.Game.SimulateTournament() {
		return "", ErrTournamentOver
	}
	a.persist()
	b, _ := a.Game.Bracket()
	return formatBracket(b) + "\n" + a.progressReport(), nil
}

// ToggleAutoPlay flips the auto-play setting. Turned on during a series, the driver starts right away
// Postconditions: Returns whether auto-play is now enabled and the driver's done channel, nil if no driver started
func (a *API) ToggleAutoPlay() (bool, <-chan struct{}) {
	enabled, done := a.Game.ToggleAutoPlay()
	a.persist()
	return enabled, done
}

// StartAutoPlay starts the driver for the current series
func (a *API) StartAutoPlay() (<-chan struct{}, error) {
	if !a.Game.Settings().AutoPlayEnabled {
		return nil, fmt.Errorf("auto-play is off, turn it on with $autoplay")
	}
	done := a.Game.StartAutoPlay()
	if done == nil {
		return nil, ErrNoSeries
	}
	return done, nil
}

// GetLeaderboard fetches the player leaderboard of the current tournament and generates a response string
// Preconditions: Persistence is configured
// Postconditions: Returns at most ten players ordered by kills, or an error if it occurs
func (a *API) GetLeaderboard() (string, error) {
	if a.Store == nil {
		return "", ErrNoStore
	}
	a.mu.Lock()
	tournamentID := a.tournamentID
	if tournamentID == "" {
		tournamentID = a.sessionID
	}
	a.mu.Unlock()

	entries, err := a.Store.FetchLeaderboard(tournamentID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No series have been played yet\n", nil
	}

	var response strings.Builder
	response.WriteString("The best players of this tournament are:\n")
	for i, e := range entries {
		if i == 10 {
			break
		}
		response.WriteString(fmt.Sprintf("%d. %s (%s): %d/%d/%d, K/D %s over %d maps\n", i+1, e.Player, e.Team, e.Kills, e.Deaths, e.Assists, e.KDRatio(), e.Maps))
	}
	return response.String(), nil
}

// Save stores the session now and returns the id to load it with
func (a *API) Save() (string, error) {
	if a.Store == nil {
		return "", ErrNoStore
	}
	if err := a.saveSession(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Session saved, load it again with $load %s", a.SessionID()), nil
}

// Load replaces the session with a saved one
// Preconditions: Receives the session id
// Postconditions: The orchestrator is restored and later saves go to the loaded id, or an error is returned and the
// current session is untouched
func (a *API) Load(id string) (string, error) {
	if a.Store == nil {
		return "", ErrNoStore
	}
	id = strings.TrimSpace(id)
	doc, err := a.Store.LoadSession(id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("no saved session with id %s", id)
		}
		return "", err
	}
	if err := a.Game.Restore(doc.Snapshot); err != nil {
		return "", err
	}

	a.mu.Lock()
	a.sessionID = doc.ID
	a.tournamentID = doc.TournamentID
	a.mu.Unlock()
	return "Session loaded\n" + a.Status(), nil
}
