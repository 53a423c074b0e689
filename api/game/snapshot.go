/* snapshot.go
 * Save and restore of a whole game session. A snapshot holds value copies only, restoring replaces the
 * orchestrator state wholesale
 */

package game

import (
	"fmt"
	"major-sim/api/battle"
	"major-sim/api/shared"
	"major-sim/api/tournament"
)

type FixtureSnapshot struct {
	Opponent      string             `bson:"opponent" json:"opponent"`
	Maps          []shared.MapPool   `bson:"maps" json:"maps"`
	Played        bool               `bson:"played" json:"played"`
	PlayerScore   int                `bson:"player_score" json:"playerScore"`
	OpponentScore int                `bson:"opponent_score" json:"opponentScore"`
	MapResults    []shared.MapResult `bson:"map_results,omitempty" json:"mapResults,omitempty"`
	Winner        string             `bson:"winner,omitempty" json:"winner,omitempty"`
}

type Snapshot struct {
	Teams      []shared.TeamRecord  `bson:"teams" json:"teams"`
	Selected   string               `bson:"selected,omitempty" json:"selected,omitempty"`
	Info       tournament.Info      `bson:"info" json:"info"`
	Settings   Settings             `bson:"settings" json:"settings"`
	Tournament *tournament.Snapshot `bson:"tournament,omitempty" json:"tournament,omitempty"`
	Fixtures   []FixtureSnapshot    `bson:"fixtures,omitempty" json:"fixtures,omitempty"`
	Kind       MatchKind            `bson:"kind,omitempty" json:"kind,omitempty"`
	Label      string               `bson:"label,omitempty" json:"label,omitempty"`
	Fixture    int                  `bson:"fixture" json:"fixture"`
	PlayoffID  string               `bson:"playoff_id,omitempty" json:"playoffId,omitempty"`
	Battle     *battle.Snapshot     `bson:"battle,omitempty" json:"battle,omitempty"`
	Completed  *battle.Snapshot     `bson:"completed,omitempty" json:"completed,omitempty"`
	LastSeries *SeriesSummary       `bson:"last_series,omitempty" json:"lastSeries,omitempty"`
}

// Snapshot copies the whole session
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		Info:     o.info,
		Settings: o.settings,
		Kind:     o.kind,
		Label:    o.label,
		Fixture:  o.fixture,
	}
	for _, t := range o.teams {
		s.Teams = append(s.Teams, t.Record())
	}
	if o.selected != nil {
		s.Selected = o.selected.Name
	}
	if o.tour != nil {
		ts := o.tour.Snapshot()
		s.Tournament = &ts
	}
	for _, f := range o.fixtures {
		fs := FixtureSnapshot{
			Opponent:      f.Opponent.Name,
			Maps:          append([]shared.MapPool(nil), f.Maps...),
			Played:        f.Played,
			PlayerScore:   f.PlayerScore,
			OpponentScore: f.OpponentScore,
			MapResults:    append([]shared.MapResult(nil), f.MapResults...),
		}
		if f.Winner != nil {
			fs.Winner = f.Winner.Name
		}
		s.Fixtures = append(s.Fixtures, fs)
	}
	if o.playoff != nil {
		s.PlayoffID = o.playoff.ID
	}
	if o.battle != nil {
		bs := o.battle.Snapshot()
		s.Battle = &bs
	}
	if o.completed != nil {
		cs := o.completed.Snapshot()
		s.Completed = &cs
	}
	if o.lastSummary != nil {
		ls := *o.lastSummary
		s.LastSeries = &ls
	}
	return s
}

// Restore replaces the session with a snapshot. Auto-play is stopped and is not resumed
// Preconditions: Receives a snapshot taken by Snapshot
// Postconditions: Returns nil and the orchestrator holds the snapshot state, or an error and nothing changed
func (o *Orchestrator) Restore(s Snapshot) error {
	if len(s.Teams) == 0 {
		return ErrNoTeams
	}
	teams := make([]*shared.Team, len(s.Teams))
	for i, r := range s.Teams {
		teams[i] = shared.TeamFromRecord(r)
	}
	index := shared.NewTeamIndex(teams)

	o.mu.Lock()
	defer o.mu.Unlock()

	var selected *shared.Team
	if s.Selected != "" {
		if selected = index.Lookup(s.Selected); selected == nil {
			return fmt.Errorf("restore session: unknown selected team %q", s.Selected)
		}
	}

	var tour *tournament.Tournament
	if s.Tournament != nil {
		t, err := tournament.Restore(*s.Tournament, index)
		if err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		tour = t
	}

	var fixtures []*PlayerMatch
	for _, fs := range s.Fixtures {
		opp := index.Lookup(fs.Opponent)
		if opp == nil {
			return fmt.Errorf("restore session: unknown opponent %q", fs.Opponent)
		}
		fixtures = append(fixtures, &PlayerMatch{
			Opponent:      opp,
			Maps:          append([]shared.MapPool(nil), fs.Maps...),
			Played:        fs.Played,
			PlayerScore:   fs.PlayerScore,
			OpponentScore: fs.OpponentScore,
			MapResults:    append([]shared.MapResult(nil), fs.MapResults...),
			Winner:        index.Lookup(fs.Winner),
		})
	}

	var current, completed *battle.Battle
	if s.Battle != nil {
		b, err := battle.Restore(*s.Battle, index, o.rng)
		if err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		current = b
	}
	if s.Completed != nil {
		b, err := battle.Restore(*s.Completed, index, o.rng)
		if err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		completed = b
	}

	var playoff *tournament.PlayoffMatch
	if s.PlayoffID != "" {
		if tour == nil || tour.Bracket == nil {
			return fmt.Errorf("restore session: playoff match %s without a bracket", s.PlayoffID)
		}
		if playoff = tour.Bracket.Match(s.PlayoffID); playoff == nil {
			return fmt.Errorf("restore session: unknown playoff match %s", s.PlayoffID)
		}
	}

	o.stopAutoPlayLocked()
	o.teams = teams
	o.index = index
	o.info = s.Info
	o.settings = s.Settings
	o.selected = selected
	o.tour = tour
	o.fixtures = fixtures
	o.battle = current
	o.kind = s.Kind
	o.label = s.Label
	o.fixture = s.Fixture
	o.playoff = playoff
	o.completed = completed
	o.lastSummary = nil
	if s.LastSeries != nil {
		ls := *s.LastSeries
		o.lastSummary = &ls
	}
	return nil
}
