/* leaderboard_test.go
 * Contains unit tests for leaderboard.go
 */

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// region FetchLeaderboard tests

func TestFetchLeaderboard_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes aggregated entries", func(mt *mtest.T) {
		s := NewTestStore(mt.Client, mt.DB)
		s.Collections.SeriesRecords = mt.Coll

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.series_records", mtest.FirstBatch,
			bson.D{
				{Key: "team", Value: "Team A"},
				{Key: "player", Value: "alpha"},
				{Key: "kills", Value: 120},
				{Key: "deaths", Value: 80},
				{Key: "assists", Value: 30},
				{Key: "maps", Value: 7},
				{Key: "series", Value: 3},
			},
			bson.D{
				{Key: "team", Value: "Team B"},
				{Key: "player", Value: "bravo"},
				{Key: "kills", Value: 90},
				{Key: "deaths", Value: 95},
				{Key: "assists", Value: 22},
				{Key: "maps", Value: 6},
				{Key: "series", Value: 3},
			},
		))

		entries, err := s.FetchLeaderboard("tour-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, LeaderboardEntry{Team: "Team A", Player: "alpha", Kills: 120, Deaths: 80, Assists: 30, Maps: 7, Series: 3}, entries[0])
		assert.Equal(t, "bravo", entries[1].Player)
		assert.Equal(t, "1.50", entries[0].KDRatio())
	})
}

func TestFetchLeaderboard_Empty(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns an empty leaderboard", func(mt *mtest.T) {
		s := NewTestStore(mt.Client, mt.DB)
		s.Collections.SeriesRecords = mt.Coll

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.series_records", mtest.FirstBatch))

		entries, err := s.FetchLeaderboard("tour-1")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestFetchLeaderboard_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns error on aggregate failure", func(mt *mtest.T) {
		s := NewTestStore(mt.Client, mt.DB)
		s.Collections.SeriesRecords = mt.Coll

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad pipeline",
		}))

		_, err := s.FetchLeaderboard("tour-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to aggregate leaderboard")
	})
}

// endregion
