/* input_processing.go
 * Contains the logic for processing user input: team names and scorelines
 */

package logic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CheckTeamNames resolves team names typed by a user against the roster.
// Preconditions: receives two string slices; one containing the user's input and another that is a list of valid team names
// Postconditions: returns two string slices, a slice of correctly formatted team names and slice of strings containing the invalid team names
func CheckTeamNames(inputTeams []string, validTeams []string) ([]string, []string) {
	var formattedTeamNames []string
	var invalidTeams []string

	lookup := make(map[string]string)
	var validTeamsLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validTeamsLower = append(validTeamsLower, lower)
	}

	for _, team := range inputTeams {
		lowerTeam := strings.ToLower(strings.TrimSpace(team))
		fuzzyResults := fuzzy.RankFind(lowerTeam, validTeamsLower)
		// No valid team name, add it to the invalid teams list
		if len(fuzzyResults) == 0 {
			invalidTeams = append(invalidTeams, team)
			continue
		} else if len(fuzzyResults) == 1 {
			formattedTeamNames = append(formattedTeamNames, lookup[fuzzyResults[0].Target]) // roster casing
		} else {
			// Multiple matches: prefer an exact match, then the best ranked one
			temp := ""
			for i := range fuzzyResults {
				if fuzzyResults[i].Target == lowerTeam {
					temp = fuzzyResults[i].Target
				}
			}
			if temp == "" {
				sort.Stable(fuzzyResults)
				temp = fuzzyResults[0].Target
			}
			formattedTeamNames = append(formattedTeamNames, lookup[temp])
		}
	}
	return formattedTeamNames, invalidTeams
}

// MatchTeamName resolves a single team name
// Preconditions: Receives the user's input and the valid team names
// Postconditions: Returns the team name as it is spelled in the roster and true, or false if nothing matched
func MatchTeamName(input string, validTeams []string) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}
	formatted, _ := CheckTeamNames([]string{input}, validTeams)
	if len(formatted) == 0 {
		return "", false
	}
	return formatted[0], true
}

// ParseScoreline parses a best of three map score such as "2-1" or "0:2"
// Preconditions: Receives the score string, with '-' or ':' between the two numbers
// Postconditions: Returns both map counts, or an error if the score is not a finished best of three
func ParseScoreline(score string) (int, int, error) {
	score = strings.TrimSpace(score)
	sep := strings.IndexAny(score, "-:")
	if sep <= 0 || sep == len(score)-1 {
		return 0, 0, fmt.Errorf("invalid score format: %s", score)
	}

	first, err := strconv.Atoi(score[:sep])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid score format: %s", score)
	}
	second, err := strconv.Atoi(score[sep+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid score format: %s", score)
	}

	winner, loser := max(first, second), min(first, second)
	if winner != 2 || loser < 0 || loser > 1 {
		return 0, 0, fmt.Errorf("%s is not a finished best of three", score)
	}
	return first, second, nil
}
