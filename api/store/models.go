/* models.go
 * This file contain the structs and helper functions that relate to DB objects
 */

package store

import (
	"errors"
	"fmt"
	"major-sim/api/battle"
	"major-sim/api/game"
	"major-sim/api/shared"
	"time"

	"github.com/google/uuid"
)

var ErrMissingID = errors.New("document id cannot be empty")

// SessionDoc is one saved game session. The snapshot holds the whole orchestrator state
type SessionDoc struct {
	ID           string        `bson:"_id"`
	OwnerID      string        `bson:"owner_id,omitempty"`
	TournamentID string        `bson:"tournament_id,omitempty"`
	UpdatedAt    time.Time     `bson:"updated_at"`
	Snapshot     game.Snapshot `bson:"snapshot"`
}

// SeriesRecord is a completed series as it is stored in the series_records collection
type SeriesRecord struct {
	ID           string              `bson:"_id"`
	TournamentID string              `bson:"tournament_id"`
	SessionID    string              `bson:"session_id,omitempty"`
	Stage        string              `bson:"stage"`
	Label        string              `bson:"label,omitempty"`
	Team1        string              `bson:"team1"`
	Team2        string              `bson:"team2"`
	Team1Maps    int                 `bson:"team1_maps"`
	Team2Maps    int                 `bson:"team2_maps"`
	Winner       string              `bson:"winner"`
	MapResults   []shared.MapResult  `bson:"map_results"`
	Players      []battle.SeriesLine `bson:"players"`
	PlayedAt     time.Time           `bson:"played_at"`
}

// NewSeriesRecord converts a finished series summary into a record
// Preconditions: Receives the tournament and session ids and the summary of a finished series
// Postconditions: Returns a SeriesRecord with a new id and the current time
func NewSeriesRecord(tournamentID, sessionID string, s game.SeriesSummary) SeriesRecord {
	return SeriesRecord{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		SessionID:    sessionID,
		Stage:        string(s.Kind),
		Label:        s.Label,
		Team1:        s.Team1,
		Team2:        s.Team2,
		Team1Maps:    s.Team1Maps,
		Team2Maps:    s.Team2Maps,
		Winner:       s.Winner,
		MapResults:   append([]shared.MapResult(nil), s.MapResults...),
		Players:      append([]battle.SeriesLine(nil), s.Players...),
		PlayedAt:     time.Now().UTC(),
	}
}

// LeaderboardEntry is one player's totals across the stored series of a tournament
type LeaderboardEntry struct {
	Team    string `bson:"team" json:"team"`
	Player  string `bson:"player" json:"player"`
	Kills   int    `bson:"kills" json:"kills"`
	Deaths  int    `bson:"deaths" json:"deaths"`
	Assists int    `bson:"assists" json:"assists"`
	Maps    int    `bson:"maps" json:"maps"`
	Series  int    `bson:"series" json:"series"`
}

// KDRatio returns kills per death to two decimals, with no deaths the kill count is used
func (e LeaderboardEntry) KDRatio() string {
	if e.Deaths == 0 {
		return fmt.Sprintf("%.2f", float64(e.Kills))
	}
	return fmt.Sprintf("%.2f", float64(e.Kills)/float64(e.Deaths))
}
