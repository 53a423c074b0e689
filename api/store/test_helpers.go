/* test_helpers.go
 * Contains test helper functions for store package tests and for packages that need sample documents
 */

package store

import (
	"context"
	"major-sim/api/battle"
	"major-sim/api/game"
	"major-sim/api/shared"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewTestStore wraps an existing client and database, such as the ones an mtest mock deployment provides
func NewTestStore(client *mongo.Client, db *mongo.Database) *Store {
	return newStore(client, db)
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore("test_major_sim", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateSampleSeriesSummary creates a finished 2-1 series between Team A and Team B
func CreateSampleSeriesSummary() game.SeriesSummary {
	return game.SeriesSummary{
		Kind:      game.KindGroup,
		Label:     "Group A",
		Team1:     "Team A",
		Team2:     "Team B",
		Team1Maps: 2,
		Team2Maps: 1,
		Winner:    "Team A",
		MapResults: []shared.MapResult{
			{MapNumber: 1, MapName: "Mirage", Team1Score: 13, Team2Score: 9, Winner: "Team A"},
			{MapNumber: 2, MapName: "Nuke", Team1Score: 10, Team2Score: 13, Winner: "Team B"},
			{MapNumber: 3, MapName: "Inferno", Team1Score: 16, Team2Score: 14, Winner: "Team A"},
		},
		Players: []battle.SeriesLine{
			{Team: "Team A", Player: "alpha", Stats: battle.PlayerSeriesStats{TotalKills: 55, TotalDeaths: 40, TotalAssists: 12, MapsPlayed: 3}},
			{Team: "Team B", Player: "bravo", Stats: battle.PlayerSeriesStats{TotalKills: 48, TotalDeaths: 50, TotalAssists: 9, MapsPlayed: 3}},
		},
	}
}
