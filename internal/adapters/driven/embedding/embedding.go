// Package embedding provides helpers shared by the embedding adapters.
package embedding

import "math"

// Normalise scales a vector to unit length so that inner product equals
// cosine similarity. A zero vector is returned unchanged.
func Normalise(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}

	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
