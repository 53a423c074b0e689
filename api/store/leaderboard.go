/* leaderboard.go
 * Contains the leaderboard query: player totals aggregated over the stored series of a tournament
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FetchLeaderboard aggregates player kills, deaths and assists over the series stored for a tournament
// Preconditions: Receives the tournament id
// Postconditions: Returns the entries sorted by kills descending then deaths ascending, or an error if it occurs
func (s *Store) FetchLeaderboard(tournamentID string) ([]LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tournament_id", Value: tournamentID}}}},
		{{Key: "$unwind", Value: "$players"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "team", Value: "$players.team"},
				{Key: "player", Value: "$players.player"},
			}},
			{Key: "kills", Value: bson.D{{Key: "$sum", Value: "$players.stats.total_kills"}}},
			{Key: "deaths", Value: bson.D{{Key: "$sum", Value: "$players.stats.total_deaths"}}},
			{Key: "assists", Value: bson.D{{Key: "$sum", Value: "$players.stats.total_assists"}}},
			{Key: "maps", Value: bson.D{{Key: "$sum", Value: "$players.stats.maps_played"}}},
			{Key: "series", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "team", Value: "$_id.team"},
			{Key: "player", Value: "$_id.player"},
			{Key: "kills", Value: 1},
			{Key: "deaths", Value: 1},
			{Key: "assists", Value: 1},
			{Key: "maps", Value: 1},
			{Key: "series", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "kills", Value: -1},
			{Key: "deaths", Value: 1},
			{Key: "player", Value: 1},
		}}},
	}

	cursor, err := s.Collections.SeriesRecords.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}

	entries := []LeaderboardEntry{}
	if err = cursor.All(context.TODO(), &entries); err != nil {
		return nil, fmt.Errorf("error unpacking leaderboard: %w", err)
	}
	return entries, nil
}
