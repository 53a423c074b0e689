/* handlers.go
 * Contains the HTTP handlers. Reads return orchestrator views, commands go through the API so they are saved like
 * bot commands
 */

package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"major-sim/api/api"
	"major-sim/api/game"
	"net/http"
)

// routes binds every handler to its method and path
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", s.StateHandler)
	mux.HandleFunc("GET /api/teams", s.TeamsHandler)
	mux.HandleFunc("GET /api/standings", s.StandingsHandler)
	mux.HandleFunc("GET /api/bracket", s.BracketHandler)
	mux.HandleFunc("GET /api/leaderboard", s.LeaderboardHandler)
	mux.HandleFunc("GET /api/settings", s.SettingsHandler)
	mux.HandleFunc("PUT /api/settings", s.UpdateSettingsHandler)
	mux.HandleFunc("POST /api/select", s.SelectHandler)
	mux.HandleFunc("POST /api/start", s.command(func(r *http.Request) (string, error) { return s.api.StartTournament() }))
	mux.HandleFunc("POST /api/next", s.command(func(r *http.Request) (string, error) { return s.api.NextMatch() }))
	mux.HandleFunc("POST /api/round", s.command(func(r *http.Request) (string, error) { return s.api.PlayRound() }))
	mux.HandleFunc("POST /api/series", s.command(func(r *http.Request) (string, error) { return s.api.PlaySeries() }))
	mux.HandleFunc("POST /api/finish", s.FinishHandler)
	mux.HandleFunc("POST /api/simulate", s.SimulateHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("failed to encode response:", err)
	}
}

// decodeBody reads an optional JSON body. An empty body leaves v untouched
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps API errors to HTTP status codes
func statusFor(err error) int {
	var notFound *api.TeamNotFoundError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, api.ErrNoTeamSelected), errors.Is(err, api.ErrNoTournament), errors.Is(err, api.ErrNoSeries),
		errors.Is(err, api.ErrSeriesInProgress), errors.Is(err, api.ErrSeriesNotFinished),
		errors.Is(err, api.ErrNoMatchAvailable), errors.Is(err, api.ErrTournamentOver):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respond writes a CommandResponse with the state after the command
func (s *Server) respond(w http.ResponseWriter, report string, err error) {
	res := CommandResponse{Report: report, State: s.api.Game.State()}
	status := http.StatusOK
	if err != nil {
		res.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, res)
}

// command wraps an API call without a request body
func (s *Server) command(run func(r *http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := run(r)
		s.respond(w, report, err)
	}
}

// StateHandler returns everything a client renders
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.api.Game.State())
}

type teamView struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Strength int    `json:"strength"`
}

// TeamsHandler returns the roster in file order
func (s *Server) TeamsHandler(w http.ResponseWriter, r *http.Request) {
	var teams []teamView
	for _, t := range s.api.Game.Teams() {
		teams = append(teams, teamView{Name: t.Name, Country: t.Country, Strength: t.Strength})
	}
	writeJSON(w, http.StatusOK, teams)
}

// StandingsHandler returns the group tables
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tables := s.api.Game.Standings()
	if tables == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: api.ErrNoTournament.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// BracketHandler returns the playoff bracket
func (s *Server) BracketHandler(w http.ResponseWriter, r *http.Request) {
	b, ok := s.api.Game.Bracket()
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "the playoffs have not been drawn yet"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// LeaderboardHandler returns the player leaderboard as text
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.GetLeaderboard()
	if err != nil {
		writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, CommandResponse{Report: report, State: s.api.Game.State()})
}

func (s *Server) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.api.Game.Settings())
}

// UpdateSettingsHandler replaces the settings. Auto-play is driven from the bot, here it is only switched
func (s *Server) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var settings game.Settings
	if err := decodeBody(r, &settings); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid settings: " + err.Error()})
		return
	}
	if settings.RoundDurationMs == 0 {
		settings.RoundDurationMs = game.DefaultRoundDurationMs
	}
	s.api.Game.UpdateSettings(settings)
	writeJSON(w, http.StatusOK, s.api.Game.Settings())
}

func (s *Server) SelectHandler(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeBody(r, &req); err != nil || req.Team == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "body must be {\"team\": \"<name>\"}"})
		return
	}
	report, err := s.api.SelectTeam(req.Team)
	s.respond(w, report, err)
}

func (s *Server) FinishHandler(w http.ResponseWriter, r *http.Request) {
	var req FinishRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	report, err := s.api.FinishMatch(req.Score)
	s.respond(w, report, err)
}

func (s *Server) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
		return
	}

	var report string
	var err error
	switch req.Mode {
	case "round":
		report, err = s.api.SimulateGroups(false)
	case "groups":
		report, err = s.api.SimulateGroups(true)
	case "", "tournament":
		report, err = s.api.SimulateTournament()
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "mode must be round, groups or tournament"})
		return
	}
	s.respond(w, report, err)
}
