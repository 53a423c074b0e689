/* models.go
 * Contains the server config and the JSON bodies of the HTTP API
 */

package web

import (
	"major-sim/api/api"
	"major-sim/api/game"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API
}

// Server is the HTTP server that exposes the simulator as JSON
type Server struct {
	api *api.API
}

func NewServer(a *api.API) *Server {
	return &Server{api: a}
}

// CommandResponse is returned by every endpoint that runs a command
type CommandResponse struct {
	Report string     `json:"report,omitempty"`
	Error  string     `json:"error,omitempty"`
	State  game.State `json:"state"`
}

type SelectRequest struct {
	Team string `json:"team"`
}

type FinishRequest struct {
	Score string `json:"score,omitempty"`
}

type SimulateRequest struct {
	Mode string `json:"mode,omitempty"` // "round", "groups" or "tournament" (default)
}

type ErrorResponse struct {
	Error string `json:"error"`
}
