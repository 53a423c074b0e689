/* models.go
 * Contains the group stage and playoff data structures of a tournament
 */

package tournament

import (
	"errors"
	"major-sim/api/shared"
)

var (
	ErrTeamCount      = errors.New("a tournament needs at least 16 teams")
	ErrQualifierCount = errors.New("a playoff bracket needs exactly 8 teams")
	ErrMatchPlayed    = errors.New("match has already been played")
	ErrMatchNotReady  = errors.New("match does not have two teams yet")
	ErrNoWinner       = errors.New("a best of three needs a winner")
	ErrWrongStage     = errors.New("operation not allowed in the current stage")
	ErrUnknownTeam    = errors.New("team is not part of this tournament")
)

const (
	TeamsPerGroup      = 4
	GroupCount         = 4
	QualifiersPerGroup = 2
	TournamentSize     = TeamsPerGroup * GroupCount
)

// Stage of a tournament. Stored as a string so saved sessions stay readable
type Stage string

const (
	StageNotStarted Stage = "NOT_STARTED"
	StageGroups     Stage = "GROUP_STAGE"
	StagePlayoffs   Stage = "PLAYOFFS"
	StageFinished   Stage = "FINISHED"
)

// Info is the descriptive part of a tournament, it has no effect on the simulation
type Info struct {
	ID               string `bson:"id" json:"id"`
	Name             string `bson:"name" json:"name"`
	Organizer        string `bson:"organizer,omitempty" json:"organizer,omitempty"`
	Location         string `bson:"location,omitempty" json:"location,omitempty"`
	Date             string `bson:"date,omitempty" json:"date,omitempty"`
	PrizePool        string `bson:"prize_pool,omitempty" json:"prizePool,omitempty"`
	Format           string `bson:"format,omitempty" json:"format,omitempty"`
	ParticipantCount int    `bson:"participant_count" json:"participantCount"`
}

var BlastAustin2025 = Info{
	ID:               "blast_austin_2025",
	Name:             "BLAST Austin Major 2025",
	Organizer:        "BLAST Premier",
	Location:         "Austin, Texas",
	Date:             "May 15-25, 2025",
	PrizePool:        "$500,000",
	Format:           "Group Stage + Playoffs",
	ParticipantCount: TournamentSize,
}

// GroupTeam is one row of a group table
type GroupTeam struct {
	Team            *shared.Team
	Points          int
	Wins            int
	Losses          int
	RoundDifference int
	MapsPlayed      int
}

// AddWin credits a series win worth 3 points
func (g *GroupTeam) AddWin(roundDiff, maps int) {
	g.Wins++
	g.Points += 3
	g.RoundDifference += roundDiff
	g.MapsPlayed += maps
}

// AddLoss records a series loss. roundDiff is the winner's margin and is subtracted
func (g *GroupTeam) AddLoss(roundDiff, maps int) {
	g.Losses++
	g.RoundDifference -= roundDiff
	g.MapsPlayed += maps
}

type GroupMatch struct {
	Team1      *shared.Team
	Team2      *shared.Team
	Team1Score int // maps won
	Team2Score int
	MapResults []shared.MapResult
	Played     bool
	Winner     *shared.Team
}

func (m *GroupMatch) Involves(team *shared.Team) bool {
	return team != nil && (m.Team1 == team || m.Team2 == team)
}

// Opponent returns the other side of the match, or nil if team does not play in it
func (m *GroupMatch) Opponent(team *shared.Team) *shared.Team {
	switch team {
	case m.Team1:
		return m.Team2
	case m.Team2:
		return m.Team1
	default:
		return nil
	}
}

type Group struct {
	Name    string
	Teams   []*GroupTeam
	Matches []*GroupMatch
}

// Slot is a playoff position that is either resolved to a team or still waiting on an earlier match
type Slot struct {
	team *shared.Team
}

// Resolved returns a slot holding team. A nil team gives an unresolved slot
func Resolved(team *shared.Team) Slot {
	return Slot{team: team}
}

func (s Slot) Team() *shared.Team {
	return s.team
}

func (s Slot) IsResolved() bool {
	return s.team != nil
}

func (s Slot) String() string {
	if s.team == nil {
		return "TBD"
	}
	return s.team.Name
}

type PlayoffMatch struct {
	ID         string
	Team1      Slot
	Team2      Slot
	Team1Score int
	Team2Score int
	MapResults []shared.MapResult
	Winner     *shared.Team
	Completed  bool
}

// Ready reports whether both slots are resolved and the match is still to be played
func (m *PlayoffMatch) Ready() bool {
	return !m.Completed && m.Team1.IsResolved() && m.Team2.IsResolved()
}

func (m *PlayoffMatch) Involves(team *shared.Team) bool {
	return team != nil && (m.Team1.Team() == team || m.Team2.Team() == team)
}

// Opponent returns the other resolved side, or nil
func (m *PlayoffMatch) Opponent(team *shared.Team) *shared.Team {
	switch team {
	case m.Team1.Team():
		return m.Team2.Team()
	case m.Team2.Team():
		return m.Team1.Team()
	default:
		return nil
	}
}

// PlayoffRound names the stage of the bracket that still has matches to play
type PlayoffRound string

const (
	RoundQuarterFinal PlayoffRound = "QF"
	RoundSemiFinal    PlayoffRound = "SF"
	RoundFinal        PlayoffRound = "Final"
	RoundFinished     PlayoffRound = "Finished"
)

type PlayoffBracket struct {
	QuarterFinals []*PlayoffMatch
	SemiFinals    []*PlayoffMatch
	Final         *PlayoffMatch
	Champion      *shared.Team
}

type Tournament struct {
	Info
	Groups    []*Group
	Bracket   *PlayoffBracket
	Stage     Stage
	Completed bool
}
