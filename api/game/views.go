/* views.go
 * Contains read-only copies of the orchestrator state for the bot, the web handlers and the store. Views never
 * share pointers with live state
 */

package game

import (
	"major-sim/api/battle"
	"major-sim/api/shared"
	"major-sim/api/tournament"
)

const logTail = 20

type BattleView struct {
	Kind          MatchKind           `json:"kind"`
	Label         string              `json:"label"`
	Team1         string              `json:"team1"`
	Team2         string              `json:"team2"`
	Maps          []string            `json:"maps"`
	MapNumber     int                 `json:"mapNumber"`
	MapName       string              `json:"mapName"`
	Round         int                 `json:"round"`
	Team1Score    int                 `json:"team1Score"`
	Team2Score    int                 `json:"team2Score"`
	Team1Maps     int                 `json:"team1Maps"`
	Team2Maps     int                 `json:"team2Maps"`
	Attacker      string              `json:"attacker"`
	Overtime      bool                `json:"overtime"`
	SuperOvertime bool                `json:"superOvertime"`
	Finished      bool                `json:"finished"`
	Winner        string              `json:"winner,omitempty"`
	RoundInfo     string              `json:"roundInfo"`
	Team1Players  []battle.PlayerLine `json:"team1Players"`
	Team2Players  []battle.PlayerLine `json:"team2Players"`
	Events        []battle.KillEvent  `json:"events"`
	MapResults    []shared.MapResult  `json:"mapResults"`
	Log           []string            `json:"log"`
}

func battleView(b *battle.Battle, kind MatchKind, label string) *BattleView {
	if b == nil {
		return nil
	}
	maps := make([]string, len(b.SelectedMaps))
	for i, m := range b.SelectedMaps {
		maps[i] = m.DisplayName()
	}
	log := b.Log()
	if len(log) > logTail {
		log = log[len(log)-logTail:]
	}
	v := &BattleView{
		Kind:          kind,
		Label:         label,
		Team1:         b.Team1.Name,
		Team2:         b.Team2.Name,
		Maps:          maps,
		MapNumber:     b.CurrentMap,
		MapName:       b.CurrentMapName(),
		Round:         b.Round,
		Team1Score:    b.Team1Score,
		Team2Score:    b.Team2Score,
		Team1Maps:     b.Team1Maps,
		Team2Maps:     b.Team2Maps,
		Attacker:      b.Attacker().Name,
		Overtime:      b.Overtime,
		SuperOvertime: b.SuperOvertime,
		Finished:      b.SeriesFinished,
		RoundInfo:     b.RoundInfo(),
		Team1Players:  b.Team1Players(),
		Team2Players:  b.Team2Players(),
		Events:        b.Events(),
		MapResults:    b.MapResults(),
		Log:           log,
	}
	if w := b.Winner(); w != nil {
		v.Winner = w.Name
	}
	return v
}

// SeriesSummary is the record of a finished human series
type SeriesSummary struct {
	Kind       MatchKind           `bson:"kind" json:"kind"`
	Label      string              `bson:"label" json:"label"`
	Team1      string              `bson:"team1" json:"team1"`
	Team2      string              `bson:"team2" json:"team2"`
	Team1Maps  int                 `bson:"team1_maps" json:"team1Maps"`
	Team2Maps  int                 `bson:"team2_maps" json:"team2Maps"`
	Winner     string              `bson:"winner" json:"winner"`
	MapResults []shared.MapResult  `bson:"map_results" json:"mapResults"`
	Players    []battle.SeriesLine `bson:"players" json:"players"`
}

func summarize(b *battle.Battle, kind MatchKind, label string) *SeriesSummary {
	s := &SeriesSummary{
		Kind:       kind,
		Label:      label,
		Team1:      b.Team1.Name,
		Team2:      b.Team2.Name,
		Team1Maps:  b.Team1Maps,
		Team2Maps:  b.Team2Maps,
		MapResults: b.MapResults(),
		Players:    b.SeriesLines(),
	}
	if w := b.Winner(); w != nil {
		s.Winner = w.Name
	}
	return s
}

type FixtureView struct {
	Opponent      string             `json:"opponent"`
	Maps          []string           `json:"maps"`
	Played        bool               `json:"played"`
	PlayerScore   int                `json:"playerScore"`
	OpponentScore int                `json:"opponentScore"`
	Winner        string             `json:"winner,omitempty"`
	MapResults    []shared.MapResult `json:"mapResults,omitempty"`
}

type State struct {
	Selected     string                  `json:"selected,omitempty"`
	Tournament   string                  `json:"tournament,omitempty"`
	Stage        tournament.Stage        `json:"stage,omitempty"`
	PlayoffRound tournament.PlayoffRound `json:"playoffRound,omitempty"`
	Battle       *BattleView             `json:"battle,omitempty"`
	Completed    *BattleView             `json:"completed,omitempty"`
	Fixtures     []FixtureView           `json:"fixtures,omitempty"`
	Qualified    bool                    `json:"qualified"`
	CanPlayFinal bool                    `json:"canPlayFinal"`
	Champion     string                  `json:"champion,omitempty"`
	Settings     Settings                `json:"settings"`
	AutoPlaying  bool                    `json:"autoPlaying"`
}

// State returns a copy of everything a client renders
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := State{
		Battle:       battleView(o.battle, o.kind, o.label),
		Settings:     o.settings,
		AutoPlaying:  o.autoplay != nil,
		CanPlayFinal: o.canPlayFinal(),
	}
	if o.completed != nil && o.lastSummary != nil {
		s.Completed = battleView(o.completed, o.lastSummary.Kind, o.lastSummary.Label)
	}
	if o.selected != nil {
		s.Selected = o.selected.Name
	}
	if o.tour != nil {
		s.Tournament = o.tour.Name
		s.Stage = o.tour.Stage
		if o.tour.Bracket != nil {
			s.PlayoffRound = o.tour.Bracket.CurrentRound()
		}
		if o.selected != nil {
			s.Qualified = o.tour.HasQualified(o.selected)
		}
		if c := o.tour.Champion(); c != nil {
			s.Champion = c.Name
		}
	}
	for _, f := range o.fixtures {
		s.Fixtures = append(s.Fixtures, fixtureView(f))
	}
	return s
}

func fixtureView(f *PlayerMatch) FixtureView {
	v := FixtureView{
		Opponent:      f.Opponent.Name,
		Played:        f.Played,
		PlayerScore:   f.PlayerScore,
		OpponentScore: f.OpponentScore,
		MapResults:    append([]shared.MapResult(nil), f.MapResults...),
	}
	for _, m := range f.Maps {
		v.Maps = append(v.Maps, m.DisplayName())
	}
	if f.Winner != nil {
		v.Winner = f.Winner.Name
	}
	return v
}

// LastSeries returns the summary of the most recently completed human series
func (o *Orchestrator) LastSeries() (SeriesSummary, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastSummary == nil {
		return SeriesSummary{}, false
	}
	s := *o.lastSummary
	s.MapResults = append([]shared.MapResult(nil), s.MapResults...)
	s.Players = append([]battle.SeriesLine(nil), s.Players...)
	return s, true
}

// GroupTable is one group sorted into its standings
type GroupTable struct {
	Name string                         `json:"name"`
	Rows []tournament.GroupTeamSnapshot `json:"rows"`
}

// Standings returns every group table, or nil without a tournament
func (o *Orchestrator) Standings() []GroupTable {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil {
		return nil
	}
	tables := make([]GroupTable, 0, len(o.tour.Groups))
	for _, g := range o.tour.Groups {
		table := GroupTable{Name: g.Name}
		for _, gt := range g.Standings() {
			table.Rows = append(table.Rows, tournament.GroupTeamSnapshot{
				Team:            gt.Team.Name,
				Points:          gt.Points,
				Wins:            gt.Wins,
				Losses:          gt.Losses,
				RoundDifference: gt.RoundDifference,
				MapsPlayed:      gt.MapsPlayed,
			})
		}
		tables = append(tables, table)
	}
	return tables
}

// Bracket returns a copy of the playoff bracket
func (o *Orchestrator) Bracket() (tournament.BracketSnapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.tour == nil || o.tour.Bracket == nil {
		return tournament.BracketSnapshot{}, false
	}
	return *o.tour.Snapshot().Bracket, true
}

func matchView(m *tournament.PlayoffMatch) tournament.PlayoffMatchSnapshot {
	v := tournament.PlayoffMatchSnapshot{
		ID:         m.ID,
		Team1:      m.Team1.String(),
		Team2:      m.Team2.String(),
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		MapResults: append([]shared.MapResult(nil), m.MapResults...),
		Completed:  m.Completed,
	}
	if m.Winner != nil {
		v.Winner = m.Winner.Name
	}
	return v
}
