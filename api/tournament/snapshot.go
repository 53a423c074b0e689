/* snapshot.go
 * Serialisable copies of the tournament. Teams are referenced by name and resolved against a team index on restore
 */

package tournament

import (
	"fmt"
	"major-sim/api/shared"
)

type GroupTeamSnapshot struct {
	Team            string `bson:"team" json:"team"`
	Points          int    `bson:"points" json:"points"`
	Wins            int    `bson:"wins" json:"wins"`
	Losses          int    `bson:"losses" json:"losses"`
	RoundDifference int    `bson:"round_difference" json:"roundDifference"`
	MapsPlayed      int    `bson:"maps_played" json:"mapsPlayed"`
}

type GroupMatchSnapshot struct {
	Team1      string             `bson:"team1" json:"team1"`
	Team2      string             `bson:"team2" json:"team2"`
	Team1Score int                `bson:"team1_score" json:"team1Score"`
	Team2Score int                `bson:"team2_score" json:"team2Score"`
	MapResults []shared.MapResult `bson:"map_results,omitempty" json:"mapResults,omitempty"`
	Played     bool               `bson:"played" json:"played"`
	Winner     string             `bson:"winner,omitempty" json:"winner,omitempty"`
}

type GroupSnapshot struct {
	Name    string               `bson:"name" json:"name"`
	Teams   []GroupTeamSnapshot  `bson:"teams" json:"teams"`
	Matches []GroupMatchSnapshot `bson:"matches" json:"matches"`
}

type PlayoffMatchSnapshot struct {
	ID         string             `bson:"id" json:"id"`
	Team1      string             `bson:"team1,omitempty" json:"team1,omitempty"`
	Team2      string             `bson:"team2,omitempty" json:"team2,omitempty"`
	Team1Score int                `bson:"team1_score" json:"team1Score"`
	Team2Score int                `bson:"team2_score" json:"team2Score"`
	MapResults []shared.MapResult `bson:"map_results,omitempty" json:"mapResults,omitempty"`
	Winner     string             `bson:"winner,omitempty" json:"winner,omitempty"`
	Completed  bool               `bson:"completed" json:"completed"`
}

type BracketSnapshot struct {
	QuarterFinals []PlayoffMatchSnapshot `bson:"quarter_finals" json:"quarterFinals"`
	SemiFinals    []PlayoffMatchSnapshot `bson:"semi_finals,omitempty" json:"semiFinals,omitempty"`
	Final         *PlayoffMatchSnapshot  `bson:"final,omitempty" json:"final,omitempty"`
	Champion      string                 `bson:"champion,omitempty" json:"champion,omitempty"`
}

type Snapshot struct {
	Info      Info             `bson:"info" json:"info"`
	Groups    []GroupSnapshot  `bson:"groups" json:"groups"`
	Bracket   *BracketSnapshot `bson:"bracket,omitempty" json:"bracket,omitempty"`
	Stage     Stage            `bson:"stage" json:"stage"`
	Completed bool             `bson:"completed" json:"completed"`
}

func teamName(t *shared.Team) string {
	if t == nil {
		return ""
	}
	return t.Name
}

// Snapshot copies the tournament state
func (t *Tournament) Snapshot() Snapshot {
	s := Snapshot{Info: t.Info, Stage: t.Stage, Completed: t.Completed}
	for _, g := range t.Groups {
		gs := GroupSnapshot{Name: g.Name}
		for _, gt := range g.Teams {
			gs.Teams = append(gs.Teams, GroupTeamSnapshot{
				Team:            gt.Team.Name,
				Points:          gt.Points,
				Wins:            gt.Wins,
				Losses:          gt.Losses,
				RoundDifference: gt.RoundDifference,
				MapsPlayed:      gt.MapsPlayed,
			})
		}
		for _, m := range g.Matches {
			gs.Matches = append(gs.Matches, GroupMatchSnapshot{
				Team1:      m.Team1.Name,
				Team2:      m.Team2.Name,
				Team1Score: m.Team1Score,
				Team2Score: m.Team2Score,
				MapResults: append([]shared.MapResult(nil), m.MapResults...),
				Played:     m.Played,
				Winner:     teamName(m.Winner),
			})
		}
		s.Groups = append(s.Groups, gs)
	}
	if t.Bracket != nil {
		bs := &BracketSnapshot{Champion: teamName(t.Bracket.Champion)}
		for _, m := range t.Bracket.QuarterFinals {
			bs.QuarterFinals = append(bs.QuarterFinals, playoffMatchSnapshot(m))
		}
		for _, m := range t.Bracket.SemiFinals {
			bs.SemiFinals = append(bs.SemiFinals, playoffMatchSnapshot(m))
		}
		if t.Bracket.Final != nil {
			f := playoffMatchSnapshot(t.Bracket.Final)
			bs.Final = &f
		}
		s.Bracket = bs
	}
	return s
}

func playoffMatchSnapshot(m *PlayoffMatch) PlayoffMatchSnapshot {
	return PlayoffMatchSnapshot{
		ID:         m.ID,
		Team1:      teamName(m.Team1.Team()),
		Team2:      teamName(m.Team2.Team()),
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		MapResults: append([]shared.MapResult(nil), m.MapResults...),
		Winner:     teamName(m.Winner),
		Completed:  m.Completed,
	}
}

// Restore rebuilds a tournament from a snapshot
// Preconditions: Receives a snapshot and an index holding every team it names
// Postconditions: Returns the tournament, or an error naming the first team that could not be resolved
func Restore(s Snapshot, teams shared.TeamIndex) (*Tournament, error) {
	t := &Tournament{Info: s.Info, Stage: s.Stage, Completed: s.Completed}

	lookup := func(name string) (*shared.Team, error) {
		if name == "" {
			return nil, nil
		}
		team := teams.Lookup(name)
		if team == nil {
			return nil, fmt.Errorf("restore tournament: %q: %w", name, ErrUnknownTeam)
		}
		return team, nil
	}

	for _, gs := range s.Groups {
		g := &Group{Name: gs.Name}
		for _, row := range gs.Teams {
			team, err := lookup(row.Team)
			if err != nil {
				return nil, err
			}
			g.Teams = append(g.Teams, &GroupTeam{
				Team:            team,
				Points:          row.Points,
				Wins:            row.Wins,
				Losses:          row.Losses,
				RoundDifference: row.RoundDifference,
				MapsPlayed:      row.MapsPlayed,
			})
		}
		for _, ms := range gs.Matches {
			t1, err := lookup(ms.Team1)
			if err != nil {
				return nil, err
			}
			t2, err := lookup(ms.Team2)
			if err != nil {
				return nil, err
			}
			winner, err := lookup(ms.Winner)
			if err != nil {
				return nil, err
			}
			g.Matches = append(g.Matches, &GroupMatch{
				Team1:      t1,
				Team2:      t2,
				Team1Score: ms.Team1Score,
				Team2Score: ms.Team2Score,
				MapResults: append([]shared.MapResult(nil), ms.MapResults...),
				Played:     ms.Played,
				Winner:     winner,
			})
		}
		t.Groups = append(t.Groups, g)
	}

	if s.Bracket != nil {
		b := &PlayoffBracket{}
		for _, ms := range s.Bracket.QuarterFinals {
			m, err := restorePlayoffMatch(ms, lookup)
			if err != nil {
				return nil, err
			}
			b.QuarterFinals = append(b.QuarterFinals, m)
		}
		for _, ms := range s.Bracket.SemiFinals {
			m, err := restorePlayoffMatch(ms, lookup)
			if err != nil {
				return nil, err
			}
			b.SemiFinals = append(b.SemiFinals, m)
		}
		if s.Bracket.Final != nil {
			m, err := restorePlayoffMatch(*s.Bracket.Final, lookup)
			if err != nil {
				return nil, err
			}
			b.Final = m
		}
		champion, err := lookup(s.Bracket.Champion)
		if err != nil {
			return nil, err
		}
		b.Champion = champion
		t.Bracket = b
	}
	return t, nil
}

func restorePlayoffMatch(ms PlayoffMatchSnapshot, lookup func(string) (*shared.Team, error)) (*PlayoffMatch, error) {
	t1, err := lookup(ms.Team1)
	if err != nil {
		return nil, err
	}
	t2, err := lookup(ms.Team2)
	if err != nil {
		return nil, err
	}
	winner, err := lookup(ms.Winner)
	if err != nil {
		return nil, err
	}
	return &PlayoffMatch{
		ID:         ms.ID,
		Team1:      Resolved(t1),
		Team2:      Resolved(t2),
		Team1Score: ms.Team1Score,
		Team2Score: ms.Team2Score,
		MapResults: append([]shared.MapResult(nil), ms.MapResults...),
		Winner:     winner,
		Completed:  ms.Completed,
	}, nil
}
