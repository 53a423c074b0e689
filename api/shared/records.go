/* records.go
 * Value copies of teams and players. Used by snapshots so that a saved state never shares pointers with the
 * live state it was taken from
 */

package shared

type PlayerRecord struct {
	Name    string     `bson:"name" json:"name"`
	Role    PlayerRole `bson:"role" json:"role"`
	Skill   int        `bson:"skill" json:"skill"`
	Health  int        `bson:"health" json:"health"`
	Kills   int        `bson:"kills" json:"kills"`
	Deaths  int        `bson:"deaths" json:"deaths"`
	Assists int        `bson:"assists" json:"assists"`
}

type TeamRecord struct {
	Name            string         `bson:"name" json:"name"`
	Country         string         `bson:"country" json:"country"`
	Strength        int            `bson:"strength" json:"strength"`
	Players         []PlayerRecord `bson:"players" json:"players"`
	Wins            int            `bson:"wins" json:"wins"`
	Losses          int            `bson:"losses" json:"losses"`
	MapsPlayed      int            `bson:"maps_played" json:"mapsPlayed"`
	RoundsWon       int            `bson:"rounds_won" json:"roundsWon"`
	RoundsLost      int            `bson:"rounds_lost" json:"roundsLost"`
	EstablishedYear int            `bson:"established_year,omitempty" json:"establishedYear,omitempty"`
	Coach           string         `bson:"coach,omitempty" json:"coach,omitempty"`
}

// Record returns a deep value copy of the team
func (t *Team) Record() TeamRecord {
	players := make([]PlayerRecord, len(t.Players))
	for i, p := range t.Players {
		players[i] = PlayerRecord{
			Name:    p.Name,
			Role:    p.Role,
			Skill:   p.Skill,
			Health:  p.Health,
			Kills:   p.Kills,
			Deaths:  p.Deaths,
			Assists: p.Assists,
		}
	}
	return TeamRecord{
		Name:            t.Name,
		Country:         t.Country,
		Strength:        t.Strength,
		Players:         players,
		Wins:            t.Wins,
		Losses:          t.Losses,
		MapsPlayed:      t.MapsPlayed,
		RoundsWon:       t.RoundsWon,
		RoundsLost:      t.RoundsLost,
		EstablishedYear: t.EstablishedYear,
		Coach:           t.Coach,
	}
}

// TeamFromRecord builds a fresh live team from a record
func TeamFromRecord(r TeamRecord) *Team {
	players := make([]*Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = &Player{
			Name:    p.Name,
			Role:    p.Role,
			Skill:   p.Skill,
			Health:  p.Health,
			Kills:   p.Kills,
			Deaths:  p.Deaths,
			Assists: p.Assists,
		}
	}
	return &Team{
		Name:            r.Name,
		Country:         r.Country,
		Strength:        r.Strength,
		Players:         players,
		Wins:            r.Wins,
		Losses:          r.Losses,
		MapsPlayed:      r.MapsPlayed,
		RoundsWon:       r.RoundsWon,
		RoundsLost:      r.RoundsLost,
		EstablishedYear: r.EstablishedYear,
		Coach:           r.Coach,
	}
}

// TeamIndex maps team names to live teams
type TeamIndex map[string]*Team

func NewTeamIndex(teams []*Team) TeamIndex {
	idx := make(TeamIndex, len(teams))
	for _, t := range teams {
		idx[t.Name] = t
	}
	return idx
}

// Lookup returns the team with the given name, or nil for an empty or unknown name
func (idx TeamIndex) Lookup(name string) *Team {
	if name == "" {
		return nil
	}
	return idx[name]
}
