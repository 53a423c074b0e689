/* roster.go
 * Loads team rosters from YAML. The default roster is embedded, a file can replace it
 */

package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"major-sim/api/shared"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed teams.yaml
var defaultRoster []byte

var ErrEmptyRoster = errors.New("roster has no teams")

type File struct {
	Teams []TeamDef `yaml:"teams"`
}

type TeamDef struct {
	Name        string      `yaml:"name"`
	Country     string      `yaml:"country"`
	Strength    int         `yaml:"strength"`
	Established int         `yaml:"established"`
	Coach       string      `yaml:"coach"`
	Players     []PlayerDef `yaml:"players"`
}

type PlayerDef struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Skill int    `yaml:"skill"`
}

// Default returns fresh teams built from the embedded roster
func Default() ([]*shared.Team, error) {
	return Parse(defaultRoster)
}

// Load reads a roster file. An empty path gives the embedded roster
func Load(path string) ([]*shared.Team, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	teams, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return teams, nil
}

// Parse decodes and validates a roster document
// Preconditions: Receives YAML with a top level teams list
// Postconditions: Returns one team per entry in file order. Names must be unique and non empty, every team needs
// players, strength must be within 0..1000 and roles must be known
func Parse(data []byte) ([]*shared.Team, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if len(f.Teams) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]bool, len(f.Teams))
	teams := make([]*shared.Team, 0, len(f.Teams))
	for i, td := range f.Teams {
		name := strings.TrimSpace(td.Name)
		if name == "" {
			return nil, fmt.Errorf("team %d has no name", i+1)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("duplicate team %q", name)
		}
		seen[strings.ToLower(name)] = true
		if td.Strength < 0 || td.Strength > 1000 {
			return nil, fmt.Errorf("team %q: strength %d outside 0..1000", name, td.Strength)
		}
		if len(td.Players) == 0 {
			return nil, fmt.Errorf("team %q has no players", name)
		}

		team := &shared.Team{
			Name:            name,
			Country:         td.Country,
			Strength:        td.Strength,
			EstablishedYear: td.Established,
			Coach:           td.Coach,
		}
		for _, pd := range td.Players {
			role, err := parseRole(pd.Role)
			if err != nil {
				return nil, fmt.Errorf("team %q player %q: %w", name, pd.Name, err)
			}
			team.Players = append(team.Players, shared.NewPlayer(pd.Name, role, pd.Skill))
		}
		teams = append(teams, team)
	}
	return teams, nil
}

func parseRole(s string) (shared.PlayerRole, error) {
	switch r := shared.PlayerRole(strings.ToUpper(strings.TrimSpace(s))); r {
	case shared.RoleAwper, shared.RoleEntry, shared.RoleSupport, shared.RoleLurker, shared.RoleIGL:
		return r, nil
	case "":
		return shared.RoleSupport, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
