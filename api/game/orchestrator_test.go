/* orchestrator_test.go
 * Contains unit tests for the orchestrator: group and playoff flow, free matches, auto-play and snapshots
 */

package game

import (
	"bytes"
	"fmt"
	"log"
	"major-sim/api/battle"
	"major-sim/api/shared"
	"major-sim/api/tournament"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTeams(n int) []*shared.Team {
	teams := make([]*shared.Team, n)
	for i := range teams {
		team := &shared.Team{Name: fmt.Sprintf("Team %02d", i+1), Strength: 900 - i*10}
		for p := 1; p <= 5; p++ {
			team.Players = append(team.Players, shared.NewPlayer(fmt.Sprintf("T%02dP%d", i+1, p), shared.RoleEntry, 75))
		}
		teams[i] = team
	}
	return teams
}

func newTestOrchestrator(t *testing.T, seed int64, settings Settings) *Orchestrator {
	t.Helper()
	o, err := New(Config{Teams: newTestTeams(20), Settings: settings, Rand: rand.New(rand.NewSource(seed))})
	require.NoError(t, err)
	return o
}

// startTournamentAs selects a team and starts the tournament
func startTournamentAs(t *testing.T, o *Orchestrator, team string) {
	t.Helper()
	require.True(t, o.SelectTeam(team))
	require.True(t, o.StartTournament())
}

func winMaps(n int) []shared.MapResult {
	results := make([]shared.MapResult, n)
	for i := range results {
		results[i] = shared.MapResult{MapNumber: i + 1, MapName: "Mirage", Team1Score: 13, Team2Score: 5}
	}
	return results
}

// region Setup tests

// TestNew_NoTeams tests that a roster is required
func TestNew_NoTeams(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoTeams)
}

// TestNew_Defaults tests the default info and settings
func TestNew_Defaults(t *testing.T) {
	o, err := New(Config{Teams: newTestTeams(16)})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), o.Settings())
	assert.Equal(t, 1000*time.Millisecond, o.Settings().RoundDuration())
	assert.Nil(t, o.Selected())
	assert.Len(t, o.TeamNames(), 16)
}

// TestSelectTeam tests team selection rules
func TestSelectTeam(t *testing.T) {
	o := newTestOrchestrator(t, 1, DefaultSettings())

	assert.False(t, o.SelectTeam("Nobody"))
	assert.True(t, o.SelectTeam("Team 03"))
	assert.Equal(t, "Team 03", o.Selected().Name)

	require.True(t, o.StartTournament())
	assert.False(t, o.SelectTeam("Team 04"), "no switching teams mid tournament")
}

// TestStartTournament tests group drawing and fixture creation
func TestStartTournament(t *testing.T) {
	o := newTestOrchestrator(t, 1, DefaultSettings())
	assert.False(t, o.StartTournament(), "no team selected")

	startTournamentAs(t, o, "Team 02")
	st := o.State()
	assert.Equal(t, tournament.StageGroups, st.Stage)
	assert.Equal(t, tournament.BlastAustin2025.Name, st.Tournament)
	require.Len(t, st.Fixtures, 3)
	for _, f := range st.Fixtures {
		assert.Len(t, f.Maps, 3)
		assert.False(t, f.Played)
		assert.NotEqual(t, "Team 02", f.Opponent)
	}
	assert.Len(t, o.Standings(), 4)
	_, ok := o.Bracket()
	assert.False(t, ok)
}

// endregion

// region Group stage tests

// TestGroupStage_PlayedThrough tests playing every fixture with the battle engine
func TestGroupStage_PlayedThrough(t *testing.T) {
	o := newTestOrchestrator(t, 2, DefaultSettings())
	startTournamentAs(t, o, "Team 01")

	for i := 0; i < 3; i++ {
		require.True(t, o.StartNextGroupMatch())
		assert.True(t, o.HasUnfinishedGroupMatch())
		assert.False(t, o.StartNextGroupMatch(), "series already in progress")
		assert.False(t, o.CompleteCurrentMatch(), "series not finished")

		require.True(t, o.SimulateFullSeries())
		require.True(t, o.CompleteCurrentMatch())
		assert.False(t, o.HasUnfinishedGroupMatch())

		summary, ok := o.LastSeries()
		require.True(t, ok)
		assert.Equal(t, KindGroup, summary.Kind)
		assert.Equal(t, "Group A", summary.Label)
		assert.Equal(t, "Team 01", summary.Team1)

		if i == 0 {
			for _, table := range o.Standings()[1:] {
				played := 0
				for _, row := range table.Rows {
					played += row.Wins
				}
				assert.Equal(t, 1, played, "%s moved on by exactly one match", table.Name)
			}
		}
	}

	assert.False(t, o.StartNextGroupMatch())
	st := o.State()
	assert.Equal(t, tournament.StagePlayoffs, st.Stage)
	for _, f := range st.Fixtures {
		assert.True(t, f.Played)
	}
	for _, table := range o.Standings() {
		for _, row := range table.Rows {
			assert.Equal(t, 3, row.Wins+row.Losses, "%s in %s", row.Team, table.Name)
		}
	}
	bracket, ok := o.Bracket()
	require.True(t, ok)
	assert.Len(t, bracket.QuarterFinals, 4)
	assert.Equal(t, o.HasQualified(), st.Qualified)
}

// TestCompleteGroupMatch_Guards tests completions that must be ignored
func TestCompleteGroupMatch_Guards(t *testing.T) {
	o := newTestOrchestrator(t, 3, DefaultSettings())
	startTournamentAs(t, o, "Team 01")

	assert.False(t, o.CompleteGroupMatch(2, 0, nil), "no series started")
	require.True(t, o.StartNextGroupMatch())
	assert.False(t, o.CompleteGroupMatch(1, 1, nil), "no winner")
	assert.True(t, o.HasUnfinishedGroupMatch())
}

// TestCompleteGroupMatch_Orientation tests a human listed second in the group fixture
func TestCompleteGroupMatch_Orientation(t *testing.T) {
	o := newTestOrchestrator(t, 4, DefaultSettings())
	// the weakest team of group A is team2 in all of its fixtures
	startTournamentAs(t, o, "Team 04")

	require.True(t, o.StartNextGroupMatch())
	results := []shared.MapResult{
		{MapNumber: 1, MapName: "Mirage", Team1Score: 13, Team2Score: 5, Winner: "Team 04"},
		{MapNumber: 2, MapName: "Nuke", Team1Score: 13, Team2Score: 7, Winner: "Team 04"},
	}
	require.True(t, o.CompleteGroupMatch(2, 0, results))

	table := o.Standings()[0]
	var human tournament.GroupTeamSnapshot
	for _, row := range table.Rows {
		if row.Team == "Team 04" {
			human = row
		}
	}
	assert.Equal(t, 3, human.Points)
	assert.Equal(t, 14, human.RoundDifference)
	assert.Equal(t, 2, human.MapsPlayed)

	st := o.State()
	assert.True(t, st.Fixtures[0].Played)
	assert.Equal(t, "Team 04", st.Fixtures[0].Winner)
	assert.Equal(t, 13, st.Fixtures[0].MapResults[0].Team1Score)
}

// endregion

// region Playoff tests

// qualifyAsWinner wins every group fixture 2-0 so the human tops its group
func qualifyAsWinner(t *testing.T, o *Orchestrator) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.True(t, o.StartNextGroupMatch())
		require.True(t, o.CompleteGroupMatch(2, 0, winMaps(2)))
	}
	require.True(t, o.HasQualified())
}

// TestPlayoffs_WinEverything tests the bracket flow when the human wins every series
func TestPlayoffs_WinEverything(t *testing.T) {
	o := newTestOrchestrator(t, 5, DefaultSettings())
	startTournamentAs(t, o, "Team 16")
	qualifyAsWinner(t, o)

	m, ok := o.PlayerPlayoffMatch()
	require.True(t, ok)
	assert.Contains(t, m.ID, "QF")

	require.True(t, o.StartPlayoffMatch())
	require.True(t, o.CompletePlayoffMatch(2, 0, winMaps(2)))
	bracket, _ := o.Bracket()
	require.Len(t, bracket.SemiFinals, 2, "other quarter finals were simulated")
	assert.Nil(t, bracket.Final)

	require.True(t, o.StartPlayoffMatch())
	assert.False(t, o.CanPlayFinal())
	require.True(t, o.CompletePlayoffMatch(2, 1, winMaps(3)))

	require.True(t, o.CanPlayFinal())
	require.True(t, o.StartFinalMatch())
	assert.False(t, o.StartFinalMatch(), "final already in progress")
	assert.Equal(t, "Final", o.State().Battle.Label)
	require.True(t, o.CompletePlayoffMatch(2, 0, winMaps(2)))

	st := o.State()
	assert.Equal(t, tournament.StageFinished, st.Stage)
	assert.Equal(t, "Team 16", st.Champion)
	assert.False(t, o.CanPlayFinal())
	assert.False(t, o.StartPlayoffMatch())
}

// TestPlayoffs_LossPlaysOutBracket tests that a playoff loss simulates the rest of the tournament
func TestPlayoffs_LossPlaysOutBracket(t *testing.T) {
	o := newTestOrchestrator(t, 6, DefaultSettings())
	startTournamentAs(t, o, "Team 05")
	qualifyAsWinner(t, o)

	require.True(t, o.StartPlayoffMatch())
	require.True(t, o.CompletePlayoffMatch(1, 2, winMaps(3)))

	st := o.State()
	assert.Equal(t, tournament.StageFinished, st.Stage)
	require.NotEmpty(t, st.Champion)
	assert.NotEqual(t, "Team 05", st.Champion)
	bracket, _ := o.Bracket()
	require.NotNil(t, bracket.Final)
	assert.True(t, bracket.Final.Completed)
	_, ok := o.PlayerPlayoffMatch()
	assert.False(t, ok)
}

// TestSimulateTournament tests force simulating from the middle of a group series
func TestSimulateTournament(t *testing.T) {
	o := newTestOrchestrator(t, 7, DefaultSettings())
	startTournamentAs(t, o, "Team 01")
	require.True(t, o.StartNextGroupMatch())
	o.SimulateRound()

	require.True(t, o.SimulateTournament())
	st := o.State()
	assert.Nil(t, st.Battle)
	assert.Equal(t, tournament.StageFinished, st.Stage)
	assert.NotEmpty(t, st.Champion)
	for _, f := range st.Fixtures {
		assert.True(t, f.Played)
	}
	assert.False(t, o.SimulateTournament(), "already finished")

	// a new tournament can be started afterwards
	assert.True(t, o.StartTournament())
}

// TestSimulateGroupStage_OutsideTopSixteen tests a human team that did not make the tournament
func TestSimulateGroupStage_OutsideTopSixteen(t *testing.T) {
	o := newTestOrchestrator(t, 8, DefaultSettings())
	startTournamentAs(t, o, "Team 20")
	assert.Empty(t, o.State().Fixtures)
	assert.False(t, o.StartNextGroupMatch())

	assert.Equal(t, 4, o.SimulateGroupRound())
	assert.Equal(t, 20, o.SimulateGroupStage())
	assert.Equal(t, tournament.StagePlayoffs, o.State().Stage)
	assert.False(t, o.HasQualified())
	assert.False(t, o.StartPlayoffMatch())
}

// TestStartPlayoffs_LogsBracketError tests that a bracket that cannot be drawn is logged and the stage is kept
func TestStartPlayoffs_LogsBracketError(t *testing.T) {
	o := newTestOrchestrator(t, 4, DefaultSettings())
	startTournamentAs(t, o, "Team 01")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	o.mu.Lock()
	o.tour.Groups = o.tour.Groups[:3]
	o.startPlayoffs()
	stage, bracket := o.tour.Stage, o.tour.Bracket
	o.mu.Unlock()

	assert.Equal(t, tournament.StageGroups, stage)
	assert.Nil(t, bracket)
	assert.Contains(t, buf.String(), "failed to start playoffs")
	assert.Contains(t, buf.String(), "got 6")
}

// endregion

// region Series tests

// TestFreeMatch tests a series outside the tournament
func TestFreeMatch(t *testing.T) {
	o := newTestOrchestrator(t, 9, DefaultSettings())
	assert.False(t, o.StartFreeMatch("Team 02"), "no team selected")
	require.True(t, o.SelectTeam("Team 01"))
	assert.False(t, o.StartFreeMatch("Team 01"))
	assert.False(t, o.StartFreeMatch("Nobody"))
	require.True(t, o.StartFreeMatch("Team 02"))

	res, ok := o.SimulateRound()
	assert.True(t, ok)
	assert.NotEqual(t, battle.SeriesFinished, res)

	require.True(t, o.SimulateFullSeries())
	_, ok = o.SimulateRound()
	assert.False(t, ok)
	require.True(t, o.CompleteCurrentMatch())

	st := o.State()
	assert.Nil(t, st.Battle)
	require.NotNil(t, st.Completed)
	assert.True(t, st.Completed.Finished)
	summary, ok := o.LastSeries()
	require.True(t, ok)
	assert.Equal(t, KindFree, summary.Kind)
	assert.Len(t, summary.Players, 10)

	o.ResetCurrentMatch()
	assert.Nil(t, o.State().Completed)
}

// endregion

// region Auto-play tests

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	require.NotNil(t, done)
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("auto-play did not finish")
	}
}

// TestAutoPlay_RunsToEnd tests that the driver plays the series out
func TestAutoPlay_RunsToEnd(t *testing.T) {
	o := newTestOrchestrator(t, 10, Settings{AutoPlayEnabled: true, RoundDurationMs: 1})
	require.True(t, o.SelectTeam("Team 01"))
	require.True(t, o.StartFreeMatch("Team 02"))

	waitDone(t, o.StartAutoPlay())
	assert.True(t, o.State().Battle.Finished)
	assert.False(t, o.AutoPlaying())
}

// TestAutoPlay_Stop tests that no round is played after the driver is stopped
func TestAutoPlay_Stop(t *testing.T) {
	o := newTestOrchestrator(t, 11, Settings{AutoPlayEnabled: true, RoundDurationMs: 20})
	require.True(t, o.SelectTeam("Team 01"))
	require.True(t, o.StartFreeMatch("Team 02"))

	done := o.StartAutoPlay()
	time.Sleep(50 * time.Millisecond)
	o.StopAutoPlay()
	waitDone(t, done)

	before := o.State().Battle
	time.Sleep(60 * time.Millisecond)
	after := o.State().Battle
	assert.Equal(t, before.Round, after.Round)
	assert.Equal(t, before.Team1Score+before.Team2Score, after.Team1Score+after.Team2Score)
}

// TestAutoPlay_Toggle tests the setting toggle
func TestAutoPlay_Toggle(t *testing.T) {
	o := newTestOrchestrator(t, 12, Settings{RoundDurationMs: 5})
	require.True(t, o.SelectTeam("Team 01"))
	require.True(t, o.StartFreeMatch("Team 02"))

	assert.Nil(t, o.StartAutoPlay(), "disabled in settings")

	enabled, done := o.ToggleAutoPlay()
	assert.True(t, enabled)
	require.NotNil(t, done)

	enabled, _ = o.ToggleAutoPlay()
	assert.False(t, enabled)
	waitDone(t, done)
	assert.False(t, o.AutoPlaying())

	o.UpdateSettings(Settings{AutoPlayEnabled: true, RoundDurationMs: 1})
	waitDone(t, o.StartAutoPlay())
	assert.True(t, o.State().Battle.Finished)
}

// TestConcurrentAccess tests readers running alongside the driver
func TestConcurrentAccess(t *testing.T) {
	o := newTestOrchestrator(t, 13, Settings{AutoPlayEnabled: true, RoundDurationMs: 1})
	require.True(t, o.SelectTeam("Team 01"))
	require.True(t, o.StartFreeMatch("Team 02"))
	done := o.StartAutoPlay()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				st := o.State()
				if st.Battle != nil {
					assert.LessOrEqual(t, st.Battle.Team1Maps+st.Battle.Team2Maps, 3)
				}
				o.SimulateRound()
			}
		}()
	}
	wg.Wait()
	o.SimulateFullSeries()
	waitDone(t, done)
	assert.True(t, o.State().Battle.Finished)
}

// endregion

// region Snapshot tests

// TestSnapshot_Restore tests a round trip in the middle of a group series
func TestSnapshot_Restore(t *testing.T) {
	o := newTestOrchestrator(t, 14, DefaultSettings())
	startTournamentAs(t, o, "Team 02")
	require.True(t, o.StartNextGroupMatch())
	require.True(t, o.SimulateFullSeries())
	require.True(t, o.CompleteCurrentMatch())
	require.True(t, o.StartNextGroupMatch())
	for i := 0; i < 15; i++ {
		o.SimulateRound()
	}
	snap := o.Snapshot()

	restored, err := New(Config{Teams: newTestTeams(1), Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, snap, restored.Snapshot())
	assert.True(t, restored.HasUnfinishedGroupMatch())

	require.True(t, restored.SimulateFullSeries())
	require.True(t, restored.CompleteCurrentMatch())
	assert.Equal(t, 2, func() int {
		played := 0
		for _, f := range restored.State().Fixtures {
			if f.Played {
				played++
			}
		}
		return played
	}())

	// the saved session is untouched
	assert.True(t, o.HasUnfinishedGroupMatch())
}

// TestRestore_BadSnapshot tests that a broken snapshot leaves the orchestrator as it was
func TestRestore_BadSnapshot(t *testing.T) {
	o := newTestOrchestrator(t, 15, DefaultSettings())
	require.True(t, o.SelectTeam("Team 01"))

	assert.ErrorIs(t, o.Restore(Snapshot{}), ErrNoTeams)
	snap := o.Snapshot()
	snap.Selected = "Nobody"
	assert.Error(t, o.Restore(snap))
	assert.Equal(t, "Team 01", o.Selected().Name)
}

// endregion
