/* strength.go
 * Converts two team strength ratings into a win probability. The same formula is used for single rounds and for
 * whole maps of off-screen matches, only the scaling factor and the clamp bounds differ
 */

package battle

import "major-sim/api/shared"

const (
	baseProbability = 0.5

	roundFactor = 0.3
	roundLow    = 0.2
	roundHigh   = 0.8

	matchFactor = 0.4
	matchLow    = 0.1
	matchHigh   = 0.9
)

// WinProbability returns the chance that the side rated sA beats the side rated sB
// Preconditions: Receives both strengths, the scaling factor and the clamp bounds
// Postconditions: Returns clamp(0.5 + ((sA-sB)/(sA+sB))*factor, low, high). A zero strength sum gives 0.5
func WinProbability(sA, sB, factor, low, high float64) float64 {
	diff := 0.0
	if total := sA + sB; total != 0 {
		diff = (sA - sB) / total
	}
	return clampFloat(baseProbability+diff*factor, low, high)
}

// RoundWinProbability is the attacker's chance of taking a single round
func RoundWinProbability(attacker, defender *shared.Team) float64 {
	return WinProbability(float64(attacker.Strength), float64(defender.Strength), roundFactor, roundLow, roundHigh)
}

// MatchWinProbability is team a's chance of taking a map in a quick simulated series
func MatchWinProbability(a, b *shared.Team) float64 {
	return WinProbability(float64(a.Strength), float64(b.Strength), matchFactor, matchLow, matchHigh)
}

// StrengthRatio returns (stronger-weaker)/(stronger+weaker), or 0 when both are rated 0.
// The "stronger" argument is simply the side the ratio is computed for, it may be the weaker team
func StrengthRatio(stronger, weaker *shared.Team) float64 {
	s := float64(stronger.Strength)
	w := float64(weaker.Strength)
	if s+w == 0 {
		return 0
	}
	return (s - w) / (s + w)
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
