package rad

import (
	"math"

	"mapc/internal/workpool"
)

// Transfer is one compressed patch-to-patch form-factor link: the
// receiving patch index and the fraction of the sender's energy it
// receives (§4.7 step 3). Only transfers above minTransferFraction are
// kept, the same "drop negligible links" compression the original
// applies to keep the transfer lists tractable on large maps.
type Transfer struct {
	To       int32
	Fraction float32
}

const minTransferFraction = 0.001

// BuildTransfers computes every patch's outgoing transfer list via a
// simple area/distance^2/cosine-cosine form factor approximation
// (patch-to-patch point sampling, not true hemicube integration), run
// across the pool's workers since it's the single most expensive part of
// RAD on a large map.
func BuildTransfers(pool *workpool.Pool, patches []*Patch, visible func(a, b [3]float64) bool) [][]Transfer {
	transfers := make([][]Transfer, len(patches))
	pool.RunFor(len(patches), func(i int) {
		src := patches[i]
		var row []Transfer
		for j, dst := range patches {
			if i == j || dst.Area <= 0 {
				continue
			}
			f := formFactor(src, dst)
			if f < minTransferFraction {
				continue
			}
			if visible != nil && !visible(src.Center, dst.Center) {
				continue
			}
			row = append(row, Transfer{To: int32(j), Fraction: float32(f)})
		}
		transfers[i] = row
	})
	return transfers
}

// formFactor approximates the differential form factor from src to dst:
// (cosTheta1 * cosTheta2 * Area(dst)) / (pi * distance^2), clamped to
// non-negative since patches facing away from each other contribute
// nothing.
func formFactor(src, dst *Patch) float64 {
	dx := dst.Center[0] - src.Center[0]
	dy := dst.Center[1] - src.Center[1]
	dz := dst.Center[2] - src.Center[2]
	distSq := dx*dx + dy*dy + dz*dz
	if distSq < 1 {
		distSq = 1
	}
	dist := math.Sqrt(distSq)

	cos1 := (dx*src.Normal[0] + dy*src.Normal[1] + dz*src.Normal[2]) / dist
	cos2 := (-dx*dst.Normal[0] - dy*dst.Normal[1] - dz*dst.Normal[2]) / dist
	if cos1 <= 0 || cos2 <= 0 {
		return 0
	}
	return cos1 * cos2 * dst.Area / (math.Pi * distSq)
}

// Bounce runs one radiosity bounce iteration in place: each patch's
// currently "Sent" energy is distributed to its transfer targets scaled
// by reflectivity and fraction, then Sent is replaced by what was
// received this round (ready for the next iteration), per §4.7 step 4.
// Contributions to each target's next-round buffer are added under the
// pool's mutex in the order the workers reach them (§5), so the
// floating-point sums can differ in their last bits between runs.
func Bounce(pool *workpool.Pool, patches []*Patch, transfers [][]Transfer) float64 {
	next := make([][3]float64, len(patches))

	pool.RunFor(len(patches), func(i int) {
		src := patches[i]
		if src.Sent[0] == 0 && src.Sent[1] == 0 && src.Sent[2] == 0 {
			return
		}
		for _, tr := range transfers[i] {
			dst := patches[tr.To]
			var contribution [3]float64
			for c := 0; c < 3; c++ {
				contribution[c] = src.Sent[c] * float64(tr.Fraction) * dst.Reflectivity[c]
			}
			pool.Lock()
			next[tr.To][0] += contribution[0]
			next[tr.To][1] += contribution[1]
			next[tr.To][2] += contribution[2]
			pool.Unlock()
		}
	})

	var totalSent float64
	for i, p := range patches {
		for c := 0; c < 3; c++ {
			p.Light[c] += next[i][c]
			totalSent += math.Abs(next[i][c])
		}
		p.Sent = next[i]
	}
	return totalSent
}

// RunToConvergence iterates Bounce until the total energy redistributed
// in a round falls below threshold or maxBounces is reached, matching
// the original's -bounce flag as an upper bound with early-out.
func RunToConvergence(pool *workpool.Pool, patches []*Patch, transfers [][]Transfer, maxBounces int, threshold float64) int {
	for i := 0; i < maxBounces; i++ {
		sent := Bounce(pool, patches, transfers)
		if sent < threshold {
			return i + 1
		}
	}
	return maxBounces
}
