package domain

import (
	"math"
	"sort"
)

// CosineDistance returns 1 - cos(a, b). Zero vectors are treated as
// maximally distant. Vectors of different lengths are compared over the
// shorter prefix; callers check dimensions beforehand.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// TopK sorts hits by ascending distance and keeps the first k.
// Hits at equal distance keep their input order.
func TopK(hits []QueryHit, k int) []QueryHit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
