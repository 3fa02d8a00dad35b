package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalise(t *testing.T) {
	t.Run("scales to unit length", func(t *testing.T) {
		got := Normalise([]float32{3, 4})
		assert.InDelta(t, 0.6, got[0], 1e-6)
		assert.InDelta(t, 0.8, got[1], 1e-6)

		var sum float64
		for _, v := range got {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	})

	t.Run("unit vector unchanged", func(t *testing.T) {
		got := Normalise([]float32{1, 0, 0})
		assert.Equal(t, []float32{1, 0, 0}, got)
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		got := Normalise([]float32{0, 0})
		assert.Equal(t, []float32{0, 0}, got)
	})
}
