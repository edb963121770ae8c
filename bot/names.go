package bot

import (
	"fmt"
	"math/rand"
)

var roster = []string{
	"Lando", "Han", "Chewbacca", "Maz", "Hondo", "Qi'ra", "Tobias", "Enfys",
	"Dryden", "Bossk", "Greedo", "Zuckuss", "Cad Bane", "Sana", "Kaz", "Aphra",
}

// Names returns n distinct opponent names. With a nil rng the roster order
// is used. Past the end of the roster names are numbered "AI_n".
func Names(n int, rng *rand.Rand) []string {
	pool := append([]string(nil), roster...)
	for i := len(pool); i < n; i++ {
		pool = append(pool, fmt.Sprintf("AI_%d", i+1))
	}
	if rng != nil {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	return pool[:max(n, 0)]
}
