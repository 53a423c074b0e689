/* shared_test.go
 * Contains unit tests for the shared team, player and map helpers
 */

package shared

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTeam() *Team {
	return &Team{
		Name:     "Team A",
		Country:  "Denmark",
		Strength: 800,
		Players: []*Player{
			NewPlayer("alpha", RoleAwper, 90),
			NewPlayer("bravo", RoleEntry, 80),
			NewPlayer("charlie", RoleSupport, 70),
			NewPlayer("delta", RoleLurker, 60),
			NewPlayer("echo", RoleIGL, 50),
		},
		Coach: "zulu",
	}
}

// region Player tests

func TestTakeDamage_CountsDeathOnce(t *testing.T) {
	p := NewPlayer("alpha", RoleAwper, 90)

	p.TakeDamage(60)
	assert.Equal(t, 40, p.Health)
	assert.True(t, p.IsAlive())

	p.TakeDamage(100)
	assert.Equal(t, 0, p.Health)
	assert.Equal(t, 1, p.Deaths)

	p.TakeDamage(100)
	assert.Equal(t, 1, p.Deaths)
}

func TestKDRatio(t *testing.T) {
	p := &Player{Kills: 7}
	assert.Equal(t, "7.00", p.KDRatio())

	p.Deaths = 3
	assert.Equal(t, "2.33", p.KDRatio())
}

// endregion

// region Team tests

func TestAlivePlayers_AndReset(t *testing.T) {
	team := sampleTeam()
	team.Players[1].TakeDamage(MaxHealth)
	team.Players[3].TakeDamage(MaxHealth)

	alive := team.AlivePlayers()
	require.Len(t, alive, 3)
	assert.Equal(t, "alpha", alive[0].Name)
	assert.False(t, team.IsEliminated())

	for _, p := range team.Players {
		p.TakeDamage(MaxHealth)
	}
	assert.True(t, team.IsEliminated())

	team.ResetHealth()
	assert.Len(t, team.AlivePlayers(), 5)
}

func TestCalculatedStrength(t *testing.T) {
	team := sampleTeam()
	assert.Equal(t, 700, team.CalculatedStrength())

	team.Wins, team.Losses = 2, 1
	assert.Equal(t, 708, team.CalculatedStrength())

	assert.Zero(t, (&Team{}).CalculatedStrength())
}

func TestWinRates(t *testing.T) {
	team := sampleTeam()
	assert.Zero(t, team.WinRate())
	assert.Zero(t, team.RoundWinRate())

	team.Wins, team.Losses = 3, 1
	team.RoundsWon, team.RoundsLost = 13, 13
	assert.InDelta(t, 75.0, team.WinRate(), 1e-9)
	assert.InDelta(t, 50.0, team.RoundWinRate(), 1e-9)
}

func TestFindPlayer(t *testing.T) {
	team := sampleTeam()
	assert.Equal(t, "charlie", team.FindPlayer("charlie").Name)
	assert.Nil(t, team.FindPlayer("foxtrot"))
}

// endregion

// region Map tests

func TestParseMap(t *testing.T) {
	m, ok := ParseMap(" dust ii ")
	assert.True(t, ok)
	assert.Equal(t, Dust2, m)

	m, ok = ParseMap("Mirage")
	assert.True(t, ok)
	assert.Equal(t, "Mirage", m.DisplayName())

	_, ok = ParseMap("cache")
	assert.False(t, ok)
}

func TestPickMaps_Distinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	maps := PickMaps(rng, 3)
	require.Len(t, maps, 3)
	assert.NotEqual(t, maps[0], maps[1])
	assert.NotEqual(t, maps[1], maps[2])
	assert.NotEqual(t, maps[0], maps[2])

	assert.Len(t, PickMaps(rng, 20), len(AvailableMaps))
}

func TestPickMaps_LeavesPoolUntouched(t *testing.T) {
	before := append([]MapPool(nil), AvailableMaps...)
	PickMaps(rand.New(rand.NewSource(2)), 3)
	assert.Equal(t, before, AvailableMaps)
}

// endregion

// region Record tests

func TestRecord_IsDeepCopy(t *testing.T) {
	team := sampleTeam()
	team.Players[0].Kills = 4
	rec := team.Record()

	team.Players[0].Kills = 10
	assert.Equal(t, 4, rec.Players[0].Kills)

	restored := TeamFromRecord(rec)
	assert.Equal(t, team.Name, restored.Name)
	assert.Equal(t, "zulu", restored.Coach)
	require.Len(t, restored.Players, 5)
	assert.NotSame(t, team.Players[0], restored.Players[0])
	assert.Equal(t, 4, restored.Players[0].Kills)
}

func TestTeamIndex_Lookup(t *testing.T) {
	team := sampleTeam()
	idx := NewTeamIndex([]*Team{team})

	assert.Same(t, team, idx.Lookup("Team A"))
	assert.Nil(t, idx.Lookup(""))
	assert.Nil(t, idx.Lookup("Team B"))
}

// endregion
