package drainage

import (
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// samplePoints selects min(count, len(candidates)) distinct points from
// candidates without replacement, using a generator seeded from seed. The
// selection depends only on the seed and the candidate ordering, never on
// how the traces later execute. The input slice is not modified.
func samplePoints(candidates []v3.Vec, count int, seed int64) []v3.Vec {
	if count > len(candidates) {
		count = len(candidates)
	}
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))

	// Partial Fisher-Yates over an index copy: after k swaps the first k
	// entries are a uniform sample without replacement.
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	picked := make([]v3.Vec, count)
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked[i] = candidates[idx[i]]
	}
	return picked
}
