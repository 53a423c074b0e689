/* models.go
 * This file contain the errors and helper types that are used by api consumers
 */

package api

import (
	"errors"
)

var (
	ErrNoGame            = errors.New("api needs a game orchestrator")
	ErrNoStore           = errors.New("persistence is not configured")
	ErrNoTeamSelected    = errors.New("select a team first with $select <team>")
	ErrNoTournament      = errors.New("no tournament in progress, start one with $start")
	ErrNoSeries          = errors.New("no series in progress")
	ErrSeriesInProgress  = errors.New("a series is already in progress, finish it first")
	ErrSeriesNotFinished = errors.New("the current series is not finished")
	ErrNoMatchAvailable  = errors.New("there is no match for your team to play right now")
	ErrTournamentOver    = errors.New("the tournament is already finished")
)

// TeamNotFoundError is returned when user input does not resolve to a roster team
type TeamNotFoundError struct {
	Input string
}

func (e *TeamNotFoundError) Error() string {
	return "no team matches '" + e.Input + "'"
}
