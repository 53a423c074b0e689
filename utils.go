/* utils.go
 * Utility functions used across the application
 */

package main

import (
	"fmt"
	"major-sim/api/game"
	"strconv"
	"strings"
)

// Config is the runtime configuration read from the environment
type Config struct {
	DiscordToken string
	MongoURI     string
	MongoDB      string
	HTTPAddr     string
	RosterFile   string
	Seed         int64
	Settings     game.Settings
}

// convertStrToBool converts a string of true or false into a boolean for comparisons
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}

// configFromEnv reads the configuration through getenv, normally os.Getenv after the .env file is loaded
// Preconditions: Receives a lookup function for environment variables
// Postconditions: Returns the config with defaults for unset keys, or an error naming the first malformed key
func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DiscordToken: getenv("DISCORD_TOKEN"),
		MongoURI:     getenv("MONGO_URI"),
		MongoDB:      getenv("MONGO_DB"),
		HTTPAddr:     getenv("HTTP_ADDR"),
		RosterFile:   getenv("ROSTER_FILE"),
		Settings:     game.DefaultSettings(),
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "major_sim"
	}

	if v := getenv("ROUND_DURATION_MS"); v != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("ROUND_DURATION_MS must be a positive integer, got %q", v)
		}
		cfg.Settings.RoundDurationMs = ms
	}
	if v := getenv("AUTOPLAY"); v != "" {
		enabled, err := convertStrToBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("AUTOPLAY: %w", err)
		}
		cfg.Settings.AutoPlayEnabled = enabled
	}
	if v := getenv("SEED"); v != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SEED must be an integer, got %q", v)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}
