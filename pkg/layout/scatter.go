package layout

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// FallbackScatter places samples at pseudo-random positions in the unit
// square. Each position depends only on the seed and the sample ID, so a
// sample keeps its spot while others come and go.
func FallbackScatter(samples []vectortypes.Sample, seed uint64) vectortypes.Coords {
	coords := make(vectortypes.Coords, len(samples))
	for _, s := range samples {
		h := fnv.New64a()
		_, _ = h.Write([]byte(s.ID))
		rng := rand.New(rand.NewPCG(seed, h.Sum64()))
		coords[s.ID] = vectortypes.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return coords
}
