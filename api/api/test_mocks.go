/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 */

package api

import (
	"context"
	"major-sim/api/store"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Sessions map[string]store.SessionDoc
	Records  []store.SeriesRecord

	// Error injection for testing error paths
	SaveSessionError       error
	LoadSessionError       error
	DeleteSessionError     error
	StoreSeriesRecordError error
	GetSeriesRecordsError  error
	FetchLeaderboardError  error

	DatabaseName string
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// mockClient implements the minimal Client interface needed for tests
type mockClient struct{}

func (m *mockClient) Disconnect(context.Context) error {
	return nil
}

// NewMockStore creates a new MockStore with default values
func NewMockStore() *MockStore {
	return &MockStore{
		Sessions:     make(map[string]store.SessionDoc),
		DatabaseName: "test_db",
	}
}

// SaveSession mock implementation
func (m *MockStore) SaveSession(doc store.SessionDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveSessionError != nil {
		return m.SaveSessionError
	}
	if doc.ID == "" {
		return store.ErrMissingID
	}
	m.Sessions[doc.ID] = doc
	return nil
}

// LoadSession mock implementation
func (m *MockStore) LoadSession(id string) (store.SessionDoc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadSessionError != nil {
		return store.SessionDoc{}, m.LoadSessionError
	}
	doc, ok := m.Sessions[id]
	if !ok {
		return store.SessionDoc{}, mongo.ErrNoDocuments
	}
	return doc, nil
}

// DeleteSession mock implementation
func (m *MockStore) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteSessionError != nil {
		return m.DeleteSessionError
	}
	if _, ok := m.Sessions[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.Sessions, id)
	return nil
}

// StoreSeriesRecord mock implementation
func (m *MockStore) StoreSeriesRecord(rec store.SeriesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreSeriesRecordError != nil {
		return m.StoreSeriesRecordError
	}
	m.Records = append(m.Records, rec)
	return nil
}

// GetSeriesRecords mock implementation
func (m *MockStore) GetSeriesRecords(tournamentID string) ([]store.SeriesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSeriesRecordsError != nil {
		return nil, m.GetSeriesRecordsError
	}
	records := []store.SeriesRecord{}
	for _, rec := range m.Records {
		if rec.TournamentID == tournamentID {
			records = append(records, rec)
		}
	}
	return records, nil
}

// FetchLeaderboard mock implementation, aggregating the stored records in memory
func (m *MockStore) FetchLeaderboard(tournamentID string) ([]store.LeaderboardEntry, error) {
	if m.FetchLeaderboardError != nil {
		return nil, m.FetchLeaderboardError
	}
	records, err := m.GetSeriesRecords(tournamentID)
	if err != nil {
		return nil, err
	}

	type key struct{ team, player string }
	totals := make(map[key]*store.LeaderboardEntry)
	for _, rec := range records {
		for _, line := range rec.Players {
			k := key{line.Team, line.Player}
			e, ok := totals[k]
			if !ok {
				e = &store.LeaderboardEntry{Team: line.Team, Player: line.Player}
				totals[k] = e
			}
			e.Kills += line.Stats.TotalKills
			e.Deaths += line.Stats.TotalDeaths
			e.Assists += line.Stats.TotalAssists
			e.Maps += line.Stats.MapsPlayed
			e.Series++
		}
	}

	entries := make([]store.LeaderboardEntry, 0, len(totals))
	for _, e := range totals {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kills != entries[j].Kills {
			return entries[i].Kills > entries[j].Kills
		}
		if entries[i].Deaths != entries[j].Deaths {
			return entries[i].Deaths < entries[j].Deaths
		}
		return entries[i].Player < entries[j].Player
	})
	return entries, nil
}

// GetDatabase mock implementation
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return &mockDatabase{name: m.DatabaseName}
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// SessionCount returns the number of saved sessions
func (m *MockStore) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sessions)
}

// RecordCount returns the number of stored series records
func (m *MockStore) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

var _ store.Interface = (*MockStore)(nil)
