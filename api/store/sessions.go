/* sessions.go
 * Contains the methods for interacting with the sessions collection
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveSession stores a session snapshot, replacing any earlier save with the same id
// Preconditions: Receives receiver pointer for Store and the SessionDoc to be stored
// Postconditions: Upserts the document in the sessions collection and returns nil, or an error if it occurs
func (s *Store) SaveSession(doc SessionDoc) error {
	if doc.ID == "" {
		return ErrMissingID
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.Sessions.ReplaceOne(context.TODO(), bson.D{{Key: "_id", Value: doc.ID}}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", doc.ID, err)
	}
	log.Printf("saved session %s", doc.ID)
	return nil
}

// LoadSession does DB lookup for a saved session
// Preconditions: Receives the session id
// Postconditions: Returns the SessionDoc, mongo.ErrNoDocuments if there is no such session, or an error if it occurs
func (s *Store) LoadSession(id string) (SessionDoc, error) {
	if id == "" {
		return SessionDoc{}, ErrMissingID
	}

	var doc SessionDoc
	err := s.Collections.Sessions.FindOne(context.TODO(), bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SessionDoc{}, err
		}
		return SessionDoc{}, fmt.Errorf("error fetching session from db: %w", err)
	}
	return doc, nil
}

// DeleteSession removes a saved session
// Preconditions: Receives the session id
// Postconditions: Returns nil once deleted, mongo.ErrNoDocuments if nothing was deleted, or an error if it occurs
func (s *Store) DeleteSession(id string) error {
	if id == "" {
		return ErrMissingID
	}

	res, err := s.Collections.Sessions.DeleteOne(context.TODO(), bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
