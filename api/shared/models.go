/* models.go
 * This file contain the structs and helper functions that are shared between sub packages: teams, players,
 * the map pool and map results
 */

package shared

import (
	"fmt"
	"strings"
)

// MaxHealth is the health every player starts a round with
const MaxHealth = 100

// Team Progress struct
type TeamProgress struct {
	Round  string `bson:"round,omitempty" json:"round,omitempty"`   // e.g. "Semi Final", "Grand Final"
	Status string `bson:"status,omitempty" json:"status,omitempty"` // "advanced", "eliminated"
}

// PlayerRole is cosmetic, it has no effect on the simulation
type PlayerRole string

const (
	RoleAwper   PlayerRole = "AWPER"
	RoleEntry   PlayerRole = "ENTRY"
	RoleSupport PlayerRole = "SUPPORT"
	RoleLurker  PlayerRole = "LURKER"
	RoleIGL     PlayerRole = "IGL"
)

type Player struct {
	Name    string
	Role    PlayerRole
	Skill   int
	Health  int
	Kills   int
	Deaths  int
	Assists int
}

func NewPlayer(name string, role PlayerRole, skill int) *Player {
	return &Player{Name: name, Role: role, Skill: skill, Health: MaxHealth}
}

func (p *Player) IsAlive() bool {
	return p.Health > 0
}

// TakeDamage lowers health (never below 0) and counts a death when the player goes down
func (p *Player) TakeDamage(damage int) {
	if !p.IsAlive() {
		return
	}
	p.Health = max(0, p.Health-damage)
	if p.Health == 0 {
		p.Deaths++
	}
}

// KDRatio returns kills per death formatted to two decimals. With no deaths the kill count is used
func (p *Player) KDRatio() string {
	kd := float64(p.Kills)
	if p.Deaths > 0 {
		kd = float64(p.Kills) / float64(p.Deaths)
	}
	return fmt.Sprintf("%.2f", kd)
}

type Team struct {
	Name            string
	Country         string
	Strength        int // 0..1000
	Players         []*Player
	Wins            int
	Losses          int
	MapsPlayed      int
	RoundsWon       int
	RoundsLost      int
	EstablishedYear int
	Coach           string
}

// AlivePlayers returns the players with health left, in roster order
func (t *Team) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

func (t *Team) IsEliminated() bool {
	return len(t.AlivePlayers()) == 0
}

// ResetHealth restores every player to full health
func (t *Team) ResetHealth() {
	for _, p := range t.Players {
		p.Health = MaxHealth
	}
}

// CalculatedStrength derives a rating from player skill and results. Informational only, the simulation uses Strength
func (t *Team) CalculatedStrength() int {
	if len(t.Players) == 0 {
		return 0
	}
	total := 0
	for _, p := range t.Players {
		total += p.Skill
	}
	return (total/len(t.Players))*10 + t.Wins*5 - t.Losses*2
}

// WinRate returns the series win percentage
func (t *Team) WinRate() float64 {
	played := t.Wins + t.Losses
	if played == 0 {
		return 0
	}
	return float64(t.Wins) / float64(played) * 100
}

// RoundWinRate returns the percentage of rounds won
func (t *Team) RoundWinRate() float64 {
	played := t.RoundsWon + t.RoundsLost
	if played == 0 {
		return 0
	}
	return float64(t.RoundsWon) / float64(played) * 100
}

// FindPlayer returns the roster entry with the given name, or nil
func (t *Team) FindPlayer(name string) *Player {
	for _, p := range t.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// MapPool is one of the nine competitive maps
type MapPool string

const (
	Mirage   MapPool = "MIRAGE"
	Inferno  MapPool = "INFERNO"
	Dust2    MapPool = "DUST2"
	Overpass MapPool = "OVERPASS"
	Vertigo  MapPool = "VERTIGO"
	Ancient  MapPool = "ANCIENT"
	Nuke     MapPool = "NUKE"
	Anubis   MapPool = "ANUBIS"
	Train    MapPool = "TRAIN"
)

// AvailableMaps is the full map pool in its canonical order
var AvailableMaps = []MapPool{Mirage, Inferno, Dust2, Overpass, Vertigo, Ancient, Nuke, Anubis, Train}

var mapDisplayNames = map[MapPool]string{
	Mirage:   "Mirage",
	Inferno:  "Inferno",
	Dust2:    "Dust II",
	Overpass: "Overpass",
	Vertigo:  "Vertigo",
	Ancient:  "Ancient",
	Nuke:     "Nuke",
	Anubis:   "Anubis",
	Train:    "Train",
}

func (m MapPool) DisplayName() string {
	if name, ok := mapDisplayNames[m]; ok {
		return name
	}
	return string(m)
}

// ParseMap converts user input such as "dust ii" or "Mirage" into a MapPool value
// Preconditions: Receives the map name in any case
// Postconditions: Returns the MapPool and true, or false if the name is not in the pool
func ParseMap(name string) (MapPool, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "DUST II" {
		return Dust2, true
	}
	for _, m := range AvailableMaps {
		if string(m) == upper {
			return m, true
		}
	}
	return "", false
}

// MapResult is the final score of one map. Winner holds the winning team's name
type MapResult struct {
	MapNumber  int    `bson:"map_number" json:"mapNumber"`
	MapName    string `bson:"map_name" json:"mapName"`
	Team1Score int    `bson:"team1_score" json:"team1Score"`
	Team2Score int    `bson:"team2_score" json:"team2Score"`
	Winner     string `bson:"winner,omitempty" json:"winner,omitempty"`
}
