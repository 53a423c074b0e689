/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into three files:
 * sessions, series_records and leaderboard. Each of these files contain methods for interacting with that part of
 * the database
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Sessions      *mongo.Collection
	SeriesRecords *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
}

// Function for initialising Store. Opens the db connection and sets the collections
// Preconditions: Receives strings containing the database name and the mongo URI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	return newStore(client, client.Database(dbName)), nil
}

func newStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Collections: Collections{
			Sessions:      db.Collection("sessions"),
			SeriesRecords: db.Collection("series_records"),
		},
	}
}
