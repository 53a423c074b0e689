/* round.go
 * Resolves a single round: who wins, how the round was won, and which players died to whom
 */

package battle

import (
	"fmt"
	"major-sim/api/shared"
	"math"
	"math/rand"
)

type WinType int

const (
	BombExplosion WinType = iota
	Elimination
	BombDefuse
	TimeExpired
)

func (w WinType) String() string {
	switch w {
	case BombExplosion:
		return "BOMB_EXPLOSION"
	case Elimination:
		return "ELIMINATION"
	case BombDefuse:
		return "BOMB_DEFUSE"
	case TimeExpired:
		return "TIME_EXPIRED"
	default:
		return "UNKNOWN"
	}
}

const (
	headshotChance = 0.18
	assistChance   = 0.3
)

var weapons = []string{"ak47", "awp", "m4", "usp", "knife", "default"}

// KillEvent is one entry of the play-by-play for the current map
type KillEvent struct {
	Killer     string `bson:"killer" json:"killer"`
	KillerTeam string `bson:"killer_team" json:"killerTeam"`
	Victim     string `bson:"victim" json:"victim"`
	VictimTeam string `bson:"victim_team" json:"victimTeam"`
	Weapon     string `bson:"weapon" json:"weapon"`
	Headshot   bool   `bson:"headshot" json:"headshot"`
}

func (k KillEvent) String() string {
	hs := ""
	if k.Headshot {
		hs = " [HS]"
	}
	return fmt.Sprintf("%s (%s) -> %s (%s) with %s%s", k.Killer, k.KillerTeam, k.Victim, k.VictimTeam, k.Weapon, hs)
}

// RoundOutcome describes a resolved round. Losses are the number of players actually eliminated on each side
type RoundOutcome struct {
	Winner         *shared.Team
	Attacker       *shared.Team
	Defender       *shared.Team
	WinType        WinType
	AttackerLosses int
	DefenderLosses int
}

// determineWinType classifies how the round was won.
// The defending branch takes a second, independent draw for the time/elimination split
func determineWinType(attackerWon bool, rng *rand.Rand) WinType {
	if attackerWon {
		if rng.Float64() < 0.6 {
			return BombExplosion
		}
		return Elimination
	}
	if rng.Float64() < 0.4 {
		return BombDefuse
	}
	if rng.Float64() < 0.7 {
		return TimeExpired
	}
	return Elimination
}

// casualties returns how many players each side should lose for the given win type
// Preconditions: Receives the win type, both teams and the round winner
// Postconditions: Returns attacker and defender losses after rounding and clamping
func casualties(winType WinType, attacker, defender, winner *shared.Team) (int, int) {
	switch winType {
	case BombExplosion:
		ratio := StrengthRatio(attacker, defender)
		return lightLosses(ratio), heavyLosses(ratio)
	case BombDefuse, TimeExpired:
		ratio := StrengthRatio(defender, attacker)
		return heavyLosses(ratio), lightLosses(ratio)
	default:
		loser := defender
		if winner == defender {
			loser = attacker
		}
		ratio := StrengthRatio(winner, loser)
		survivors := clampInt(int(math.Round(2+ratio*3)), 1, 4)
		winnerLosses := len(winner.Players) - survivors
		if winnerLosses < 0 {
			winnerLosses = 0
		}
		if winner == attacker {
			return winnerLosses, len(loser.Players)
		}
		return len(loser.Players), winnerLosses
	}
}

func lightLosses(ratio float64) int {
	return clampInt(int(math.Round(1+ratio*2)), 1, 3)
}

func heavyLosses(ratio float64) int {
	return clampInt(int(math.Round(3+(1-ratio)*3)), 3, 5)
}

// playRound resolves one round with every player starting at full health. Score keeping is left to advance.
// Bomb and time rounds take attacker losses first, elimination rounds take the losing side first, so deaths after
// the other side is wiped have no killer
func (b *Battle) playRound() RoundOutcome {
	b.Team1.ResetHealth()
	b.Team2.ResetHealth()

	attacker, defender := b.Attacker(), b.Defender()
	p := RoundWinProbability(attacker, defender)

	winner := defender
	if b.rng.Float64() < p {
		winner = attacker
	}
	winType := determineWinType(winner == attacker, b.rng)
	attLosses, defLosses := casualties(winType, attacker, defender, winner)

	out := RoundOutcome{Winner: winner, Attacker: attacker, Defender: defender, WinType: winType}
	switch {
	case winType != Elimination:
		out.AttackerLosses = b.eliminate(attacker, attLosses, defender)
		out.DefenderLosses = b.eliminate(defender, defLosses, attacker)
	case winner == attacker:
		out.DefenderLosses = b.eliminate(defender, defLosses, attacker)
		out.AttackerLosses = b.eliminate(attacker, attLosses, defender)
	default:
		out.AttackerLosses = b.eliminate(attacker, attLosses, defender)
		out.DefenderLosses = b.eliminate(defender, defLosses, attacker)
	}

	b.LastRoundWinner = winner
	b.addToLog(fmt.Sprintf("Round %d: %s wins by %s", b.Round, winner.Name, winType))
	return out
}

// eliminate kills count random alive players of team and credits the kills to opponents still alive
// Preconditions: Receives the team taking losses, the number of losses and the opposing team
// Postconditions: Returns the number of players actually eliminated (bounded by how many were alive)
func (b *Battle) eliminate(team *shared.Team, count int, opponents *shared.Team) int {
	alive := team.AlivePlayers()
	b.rng.Shuffle(len(alive), func(i, j int) { alive[i], alive[j] = alive[j], alive[i] })
	n := min(count, len(alive))

	for _, victim := range alive[:n] {
		victim.TakeDamage(shared.MaxHealth)

		killers := opponents.AlivePlayers()
		if len(killers) > 0 {
			killer := killers[b.rng.Intn(len(killers))]
			killer.Kills++
			b.mapStat(opponents.Name, killer.Name).Kills++

			b.addKillEvent(KillEvent{
				Killer:     killer.Name,
				KillerTeam: opponents.Name,
				Victim:     victim.Name,
				VictimTeam: team.Name,
				Weapon:     weapons[b.rng.Intn(len(weapons))],
				Headshot:   b.rng.Float64() < headshotChance,
			})

			if b.rng.Float64() < assistChance {
				var helpers []*shared.Player
				for _, p := range killers {
					if p != killer {
						helpers = append(helpers, p)
					}
				}
				if len(helpers) > 0 {
					helper := helpers[b.rng.Intn(len(helpers))]
					helper.Assists++
					b.mapStat(opponents.Name, helper.Name).Assists++
				}
			}
		}

		b.mapStat(team.Name, victim.Name).Deaths++
	}
	return n
}
