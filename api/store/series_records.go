/* series_records.go
 * Contains the methods for interacting with the series_records collection
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreSeriesRecord inserts a completed series
// Preconditions: Receives the SeriesRecord; a missing id or timestamp is filled in
// Postconditions: Inserts the record into the series_records collection, or returns an error if it occurs
func (s *Store) StoreSeriesRecord(rec SeriesRecord) error {
	if rec.TournamentID == "" {
		return fmt.Errorf("series record has no tournament id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	_, err := s.Collections.SeriesRecords.InsertOne(context.TODO(), rec)
	if err != nil {
		return fmt.Errorf("failed to insert series record: %w", err)
	}
	return nil
}

// GetSeriesRecords does DB lookup and gets every stored series of a tournament, oldest first
// Preconditions: Receives the tournament id
// Postconditions: Returns slice of SeriesRecord (empty if nothing is stored), or an error if it occurs
func (s *Store) GetSeriesRecords(tournamentID string) ([]SeriesRecord, error) {
	filter := bson.D{{Key: "tournament_id", Value: tournamentID}}
	opts := options.Find().SetSort(bson.D{{Key: "played_at", Value: 1}})

	cursor, err := s.Collections.SeriesRecords.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching series records from db: %w", err)
	}

	// Unpack the cursor into a slice
	results := []SeriesRecord{}
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of series records: %w", err)
	}
	return results, nil
}
