/* settings.go
 * Contains the user settings of a game session
 */

package game

import "time"

const DefaultRoundDurationMs = 1000

type Settings struct {
	AutoPlayEnabled bool `bson:"auto_play_enabled" json:"autoPlayEnabled"`
	RoundDurationMs int  `bson:"round_duration_ms" json:"roundDurationMs"`
}

func DefaultSettings() Settings {
	return Settings{RoundDurationMs: DefaultRoundDurationMs}
}

// RoundDuration is the pause between two auto-played rounds. Negative values are treated as no pause
func (s Settings) RoundDuration() time.Duration {
	if s.RoundDurationMs < 0 {
		return 0
	}
	return time.Duration(s.RoundDurationMs) * time.Millisecond
}
