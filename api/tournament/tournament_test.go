/* tournament_test.go
 * Contains unit tests for series.go, groups.go, bracket.go, tournament.go and snapshot.go
 */

package tournament

import (
	"fmt"
	"major-sim/api/shared"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTeams(n int) []*shared.Team {
	teams := make([]*shared.Team, n)
	for i := range teams {
		team := &shared.Team{Name: fmt.Sprintf("Team %02d", i+1), Strength: 900 - i*10}
		for p := 1; p <= 5; p++ {
			team.Players = append(team.Players, shared.NewPlayer(fmt.Sprintf("T%02dP%d", i+1, p), shared.RoleSupport, 70))
		}
		teams[i] = team
	}
	return teams
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// region Series tests

// TestSimulateSeries_Shape tests the quick best of three result
func TestSimulateSeries_Shape(t *testing.T) {
	teams := newTestTeams(2)
	rng := seeded(1)

	for i := 0; i < 500; i++ {
		res := SimulateSeries(teams[0], teams[1], rng)
		maps := len(res.MapResults)
		assert.True(t, maps == 2 || maps == 3)
		assert.Equal(t, maps, res.Team1Maps+res.Team2Maps)
		assert.True(t, res.Team1Maps == 2 || res.Team2Maps == 2)
		assert.False(t, res.Team1Maps == 2 && res.Team2Maps == 2)

		for _, mr := range res.MapResults {
			winner, loser := mr.Team1Score, mr.Team2Score
			if mr.Winner == teams[1].Name {
				winner, loser = loser, winner
			}
			assert.Equal(t, 13, winner)
			assert.True(t, loser >= 0 && loser < 13)
		}
		if res.Team1Maps == 2 {
			assert.Same(t, teams[0], res.Winner)
		} else {
			assert.Same(t, teams[1], res.Winner)
		}
	}
}

// TestSimulateSeries_StrongerTeamFavoured tests the match-level probability over many series
func TestSimulateSeries_StrongerTeamFavoured(t *testing.T) {
	strong := &shared.Team{Name: "Strong", Strength: 1000}
	weak := &shared.Team{Name: "Weak", Strength: 0}
	rng := seeded(2)

	maps, strongMaps := 0, 0
	for i := 0; i < 2000; i++ {
		for _, mr := range SimulateSeries(strong, weak, rng).MapResults {
			maps++
			if mr.Winner == "Strong" {
				strongMaps++
			}
		}
	}
	assert.InDelta(t, 0.9, float64(strongMaps)/float64(maps), 0.03)
}

// endregion

// region Group stage tests

// TestCreateGroups tests group creation and round robin generation
func TestCreateGroups(t *testing.T) {
	teams := newTestTeams(16)
	groups, err := CreateGroups(teams)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, "Group A", groups[0].Name)
	assert.Equal(t, "Group D", groups[3].Name)
	for i, g := range groups {
		assert.Len(t, g.Teams, 4)
		assert.Len(t, g.Matches, 6)
		assert.Same(t, teams[i*4], g.Teams[0].Team)
	}
	assert.Same(t, teams[0], groups[0].Matches[0].Team1)
	assert.Same(t, teams[1], groups[0].Matches[0].Team2)

	_, err = CreateGroups(teams[:15])
	assert.ErrorIs(t, err, ErrTeamCount)
}

// TestRecordResult tests the standings update of a recorded match
func TestRecordResult(t *testing.T) {
	teams := newTestTeams(4)
	g := NewGroup("Group A", teams)
	m := g.MatchBetween(teams[0], teams[1])
	require.NotNil(t, m)

	results := []shared.MapResult{
		{MapNumber: 1, MapName: "Mirage", Team1Score: 13, Team2Score: 7, Winner: teams[0].Name},
		{MapNumber: 2, MapName: "Nuke", Team1Score: 10, Team2Score: 13, Winner: teams[1].Name},
		{MapNumber: 3, MapName: "Train", Team1Score: 13, Team2Score: 11, Winner: teams[0].Name},
	}
	require.NoError(t, g.RecordResult(m, 2, 1, results))

	winner, loser := g.Entry(teams[0]), g.Entry(teams[1])
	assert.Equal(t, 3, winner.Points)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 5, winner.RoundDifference)
	assert.Equal(t, 3, winner.MapsPlayed)
	assert.Equal(t, 0, loser.Points)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, -5, loser.RoundDifference)
	assert.Equal(t, 3, loser.MapsPlayed)
	assert.True(t, m.Played)
	assert.Same(t, teams[0], m.Winner)

	assert.ErrorIs(t, g.RecordResult(m, 2, 0, nil), ErrMatchPlayed)
	other := g.MatchBetween(teams[2], teams[3])
	assert.ErrorIs(t, g.RecordResult(other, 1, 1, nil), ErrNoWinner)
	assert.False(t, other.Played)
}

// TestSimulateOneRound tests that at most one match per group is played and the excluded team is skipped
func TestSimulateOneRound(t *testing.T) {
	teams := newTestTeams(16)
	groups, err := CreateGroups(teams)
	require.NoError(t, err)
	human := teams[0]
	rng := seeded(3)

	assert.Equal(t, 4, SimulateOneRound(groups, human, rng))
	for _, g := range groups {
		assert.Len(t, g.Remaining(nil), 5)
	}

	total := 4 + SimulateAll(groups, human, rng)
	assert.Equal(t, 21, total, "3 matches of the human stay unplayed")
	assert.Len(t, groups[0].Remaining(nil), 3)
	for _, m := range groups[0].Remaining(nil) {
		assert.True(t, m.Involves(human))
	}
	assert.Equal(t, 0, SimulateOneRound(groups, human, rng))
}

// TestStandings_Tiebreak tests points, then round difference, then head to head
func TestStandings_Tiebreak(t *testing.T) {
	teams := newTestTeams(4)
	g := NewGroup("Group A", teams)
	a, b, c, d := g.Teams[0], g.Teams[1], g.Teams[2], g.Teams[3]

	c.Points, c.RoundDifference = 6, 10
	b.Points, b.RoundDifference = 6, 15
	d.Points, d.RoundDifference = 3, 0
	a.Points, a.RoundDifference = 3, 0
	// d beat a head to head
	m := g.MatchBetween(a.Team, d.Team)
	m.Played, m.Winner = true, d.Team

	table := g.Standings()
	assert.Equal(t, []*GroupTeam{b, c, d, a}, table)
	assert.Equal(t, []*shared.Team{b.Team, c.Team}, g.Qualifiers())
	assert.Equal(t, 3, g.Position(d.Team))

	// the underlying row order is untouched
	assert.Same(t, a, g.Teams[0])
}

// TestStandings_ThreeWayTieKeepsGroupOrder tests that head to head is not used for a tie of three teams
func TestStandings_ThreeWayTieKeepsGroupOrder(t *testing.T) {
	teams := newTestTeams(4)
	g := NewGroup("Group C", teams)
	a, b, c, d := g.Teams[0], g.Teams[1], g.Teams[2], g.Teams[3]

	d.Points = 9
	for _, gt := range []*GroupTeam{a, b, c} {
		gt.Points, gt.RoundDifference = 3, 0
	}
	// a beat b, b beat c, c beat a
	for _, r := range [][2]*GroupTeam{{a, b}, {b, c}, {c, a}} {
		m := g.MatchBetween(r[0].Team, r[1].Team)
		m.Played, m.Winner = true, r[0].Team
	}

	assert.Equal(t, []*GroupTeam{d, a, b, c}, g.Standings())

	// without the cycle a three team tie still keeps group order
	m := g.MatchBetween(c.Team, a.Team)
	m.Winner = a.Team
	assert.Equal(t, []*GroupTeam{d, a, b, c}, g.Standings())
}

// TestStandings_TwoWayTieUsesHeadToHead tests that the later team in group order moves up when it won the match
func TestStandings_TwoWayTieUsesHeadToHead(t *testing.T) {
	teams := newTestTeams(4)
	g := NewGroup("Group D", teams)
	a, b, c, d := g.Teams[0], g.Teams[1], g.Teams[2], g.Teams[3]

	a.Points, b.Points = 6, 6
	c.Points, d.Points = 3, 3
	c.RoundDifference = 4
	m := g.MatchBetween(a.Team, b.Team)
	m.Played, m.Winner = true, b.Team

	assert.Equal(t, []*GroupTeam{b, a, c, d}, g.Standings())
}

// TestStandings_InsertionOrder tests that full ties keep group order
func TestStandings_InsertionOrder(t *testing.T) {
	teams := newTestTeams(4)
	g := NewGroup("Group B", teams)
	table := g.Standings()
	for i := range teams {
		assert.Same(t, teams[i], table[i].Team)
	}
}

// endregion

// region Bracket tests

func newTestBracket(t *testing.T) (*PlayoffBracket, []*shared.Team) {
	t.Helper()
	teams := newTestTeams(8)
	b, err := NewBracket(teams)
	require.NoError(t, err)
	return b, teams
}

// TestNewBracket tests quarter final seeding
func TestNewBracket(t *testing.T) {
	b, teams := newTestBracket(t)

	require.Len(t, b.QuarterFinals, 4)
	assert.Equal(t, "QF1", b.QuarterFinals[0].ID)
	assert.Equal(t, "QF4", b.QuarterFinals[3].ID)
	assert.Same(t, teams[6], b.QuarterFinals[3].Team1.Team())
	assert.Same(t, teams[7], b.QuarterFinals[3].Team2.Team())
	assert.Empty(t, b.SemiFinals)
	assert.Nil(t, b.Final)
	assert.Equal(t, RoundQuarterFinal, b.CurrentRound())

	_, err := NewBracket(teams[:7])
	assert.ErrorIs(t, err, ErrQualifierCount)
}

// TestBracket_Progression tests that no stage opens before the previous one is complete
func TestBracket_Progression(t *testing.T) {
	b, teams := newTestBracket(t)

	for i, m := range b.QuarterFinals {
		assert.Empty(t, b.SemiFinals, "semi finals before QF%d", i+1)
		require.NoError(t, b.Complete(m, 2, 1, nil))
	}
	require.Len(t, b.SemiFinals, 2)
	assert.Equal(t, "SF1", b.SemiFinals[0].ID)
	assert.Same(t, teams[0], b.SemiFinals[0].Team1.Team())
	assert.Same(t, teams[2], b.SemiFinals[0].Team2.Team())
	assert.Same(t, teams[4], b.SemiFinals[1].Team1.Team())
	assert.Equal(t, RoundSemiFinal, b.CurrentRound())

	require.NoError(t, b.Complete(b.SemiFinals[0], 0, 2, nil))
	assert.Nil(t, b.Final)
	require.NoError(t, b.Complete(b.SemiFinals[1], 2, 0, nil))
	require.NotNil(t, b.Final)
	assert.Same(t, teams[2], b.Final.Team1.Team())
	assert.Same(t, teams[4], b.Final.Team2.Team())
	assert.Nil(t, b.Champion)

	require.NoError(t, b.Complete(b.Final, 1, 2, nil))
	assert.Same(t, teams[4], b.Champion)
	assert.Equal(t, RoundFinished, b.CurrentRound())
	assert.True(t, b.Eliminated(teams[2]))
	assert.False(t, b.Eliminated(teams[4]))
}

// TestBracket_CompleteErrors tests that invalid completions change nothing
func TestBracket_CompleteErrors(t *testing.T) {
	b, _ := newTestBracket(t)
	qf := b.QuarterFinals[0]

	assert.ErrorIs(t, b.Complete(qf, 1, 1, nil), ErrNoWinner)
	assert.False(t, qf.Completed)

	require.NoError(t, b.Complete(qf, 2, 0, nil))
	assert.ErrorIs(t, b.Complete(qf, 0, 2, nil), ErrMatchPlayed)
	assert.Equal(t, 2, qf.Team1Score)

	unresolved := &PlayoffMatch{ID: "SF9"}
	assert.ErrorIs(t, b.Complete(unresolved, 2, 0, nil), ErrMatchNotReady)
}

// TestBracket_SimulateRemaining tests playing out the bracket with the invariants holding after every match
func TestBracket_SimulateRemaining(t *testing.T) {
	b, _ := newTestBracket(t)
	rng := seeded(4)

	assert.Equal(t, 7, b.SimulateRemaining(rng))
	require.NotNil(t, b.Champion)
	assert.Same(t, b.Final.Winner, b.Champion)
	assert.Len(t, b.Matches(), 7)
	for _, m := range b.Matches() {
		assert.True(t, m.Completed)
	}
	assert.Equal(t, 0, b.SimulateRemaining(rng))
}

// TestBracket_SimulateRoundExcludes tests that the excluded team's match is left for it to play
func TestBracket_SimulateRoundExcludes(t *testing.T) {
	b, teams := newTestBracket(t)
	human := teams[3]

	assert.Equal(t, 3, b.SimulateRound(human, seeded(5)))
	assert.Empty(t, b.SemiFinals)

	next := b.NextMatchFor(human)
	require.NotNil(t, next)
	assert.Equal(t, "QF2", next.ID)
	assert.Same(t, teams[2], next.Opponent(human))
	assert.Same(t, next, b.Match("QF2"))
}

// endregion

// region Tournament tests

// TestNew_TopSixteen tests that the 16 strongest teams are drawn into groups
func TestNew_TopSixteen(t *testing.T) {
	teams := newTestTeams(20)
	rng := seeded(6)
	rng.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })

	tour, err := New(BlastAustin2025, teams)
	require.NoError(t, err)
	assert.Equal(t, StageGroups, tour.Stage)
	assert.Len(t, tour.Teams(), 16)
	assert.Equal(t, "Team 01", tour.Groups[0].Teams[0].Team.Name)
	assert.Equal(t, "Team 16", tour.Groups[3].Teams[3].Team.Name)
	for _, team := range tour.Teams() {
		assert.GreaterOrEqual(t, team.Strength, 750)
	}

	_, err = New(BlastAustin2025, teams[:10])
	assert.ErrorIs(t, err, ErrTeamCount)
}

// TestStartPlayoffs tests the group stage to playoff hand over
func TestStartPlayoffs(t *testing.T) {
	tour, err := New(BlastAustin2025, newTestTeams(16))
	require.NoError(t, err)
	rng := seeded(7)

	SimulateAll(tour.Groups, nil, rng)
	assert.True(t, tour.GroupStageFinished())

	qualifiers := tour.Qualifiers()
	require.Len(t, qualifiers, 8)
	for _, q := range qualifiers {
		assert.True(t, tour.HasQualified(q))
	}

	require.NoError(t, tour.StartPlayoffs(rng))
	assert.Equal(t, StagePlayoffs, tour.Stage)
	assert.ElementsMatch(t, qualifiers, func() []*shared.Team {
		var inBracket []*shared.Team
		for _, m := range tour.Bracket.QuarterFinals {
			inBracket = append(inBracket, m.Team1.Team(), m.Team2.Team())
		}
		return inBracket
	}())

	assert.ErrorIs(t, tour.StartPlayoffs(rng), ErrWrongStage)
}

// TestSimulateRemaining_FullTournament tests a whole tournament from scratch
func TestSimulateRemaining_FullTournament(t *testing.T) {
	tour, err := New(BlastAustin2025, newTestTeams(16))
	require.NoError(t, err)

	require.NoError(t, tour.SimulateRemaining(seeded(8)))
	assert.Equal(t, StageFinished, tour.Stage)
	assert.True(t, tour.Completed)
	require.NotNil(t, tour.Champion())
	assert.True(t, tour.HasQualified(tour.Champion()))
}

// endregion

// region Snapshot tests

// TestSnapshot_Restore tests a mid playoff round trip
func TestSnapshot_Restore(t *testing.T) {
	teams := newTestTeams(16)
	tour, err := New(BlastAustin2025, teams)
	require.NoError(t, err)
	rng := seeded(9)
	SimulateAll(tour.Groups, nil, rng)
	require.NoError(t, tour.StartPlayoffs(rng))
	tour.Bracket.SimulateRound(nil, rng)

	snap := tour.Snapshot()
	restored, err := Restore(snap, shared.NewTeamIndex(teams))
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, RoundSemiFinal, restored.Bracket.CurrentRound())

	require.NoError(t, restored.SimulateRemaining(rng))
	assert.True(t, restored.Completed)
	assert.False(t, tour.Completed, "the source tournament is not shared with the restored copy")
}

// TestRestore_UnknownTeam tests that unresolvable names fail the restore
func TestRestore_UnknownTeam(t *testing.T) {
	teams := newTestTeams(16)
	tour, err := New(BlastAustin2025, teams)
	require.NoError(t, err)

	_, err = Restore(tour.Snapshot(), shared.NewTeamIndex(teams[:15]))
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

// endregion

// TestBracket_SimulateStage tests that only the named stage is played
func TestBracket_SimulateStage(t *testing.T) {
	b, teams := newTestBracket(t)
	require.NoError(t, b.Complete(b.QuarterFinals[0], 2, 0, nil))

	assert.Equal(t, RoundQuarterFinal, b.RoundOf(b.QuarterFinals[0]))
	assert.Equal(t, 0, b.SimulateStage(RoundSemiFinal, nil, seeded(10)))
	assert.Equal(t, 2, b.SimulateStage(RoundQuarterFinal, teams[6], seeded(10)))
	assert.Empty(t, b.SemiFinals)
	assert.True(t, b.QuarterFinals[3].Ready())
}
