/* rng.go
 * Seedable random source and map drawing shared by the simulation packages
 */

package shared

import (
	"math/rand"
	"time"
)

// NewRand returns a seeded generator. A zero seed picks a time based seed
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// PickMaps draws n distinct maps from the pool
func PickMaps(rng *rand.Rand, n int) []MapPool {
	pool := make([]MapPool, len(AvailableMaps))
	copy(pool, AvailableMaps)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
