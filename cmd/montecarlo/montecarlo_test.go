/* montecarlo_test.go
 * Contains unit tests for the tournament sampler
 */

package main

import (
	"context"
	"major-sim/api/roster"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region runOnce tests

func TestRunOnce(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	o, err := runOnce(teams, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.NotEmpty(t, o.Champion)
	assert.Len(t, o.Qualifiers, 8)
	require.Len(t, o.Finalists, 2)
	assert.Contains(t, o.Finalists, o.Champion)
	assert.Equal(t, 24+7, o.Series)
	assert.GreaterOrEqual(t, o.Maps, 2*o.Series)
	assert.LessOrEqual(t, o.Maps, 3*o.Series)
}

func TestRunOnce_TooFewTeams(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	_, err = runOnce(teams[:10], rand.New(rand.NewSource(3)))
	assert.Error(t, err)
}

// endregion

// region Simulate tests

func TestSimulate_Totals(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	var calls int64
	totals, err := Simulate(context.Background(), teams, 40, 4, 99, func() { atomic.AddInt64(&calls, 1) })
	require.NoError(t, err)

	assert.Equal(t, 40, totals.Runs)
	assert.Equal(t, int64(40), atomic.LoadInt64(&calls))

	titles, finals, playoffs := 0, 0, 0
	for _, n := range totals.Titles {
		titles += n
	}
	for _, n := range totals.Finals {
		finals += n
	}
	for _, n := range totals.Playoffs {
		playoffs += n
	}
	assert.Equal(t, 40, titles)
	assert.Equal(t, 80, finals)
	assert.Equal(t, 320, playoffs)
	assert.InDelta(t, 2.5, totals.AverageMaps(), 0.5)
}

func TestSimulate_SameSeedSameTotals(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	a, err := Simulate(context.Background(), teams, 25, 1, 5, nil)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), teams, 25, 6, 5, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Titles, b.Titles)
	assert.Equal(t, a.Maps, b.Maps)
}

func TestSimulate_InvalidRuns(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	_, err = Simulate(context.Background(), teams, 0, 2, 1, nil)
	assert.Error(t, err)
}

func TestSimulate_RunError(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	_, err = Simulate(context.Background(), teams[:4], 10, 2, 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run ")
}

func TestSimulate_Cancelled(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Simulate(ctx, teams, 1000, 2, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// endregion

// region Report tests

func TestReport(t *testing.T) {
	teams, err := roster.Default()
	require.NoError(t, err)
	totals, err := Simulate(context.Background(), teams, 10, 2, 8, nil)
	require.NoError(t, err)

	report := totals.Report(3)
	lines := strings.Split(strings.TrimSpace(report), "\n")
	assert.Len(t, lines, 2+3)
	assert.Contains(t, lines[0], "10 tournaments")
	assert.Contains(t, lines[1], "Title")
}

// endregion
