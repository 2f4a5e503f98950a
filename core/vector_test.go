package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("produces unit vector", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})

		var magnitude float64
		for _, val := range v {
			magnitude += float64(val) * float64(val)
		}
		assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		input := []float32{3, 4}
		NormalizeVector(input)
		assert.Equal(t, []float32{3, 4}, input)
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("orthogonal", func(t *testing.T) {
		assert.InDelta(t, 0, DotProduct([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("identical unit vectors", func(t *testing.T) {
		v := NormalizeVector([]float32{2, 3, 4})
		assert.InDelta(t, 1.0, DotProduct(v, v), 1e-6)
	})

	t.Run("mismatched lengths truncate", func(t *testing.T) {
		assert.InDelta(t, 2.0, DotProduct([]float32{1, 1, 1}, []float32{1, 1}), 1e-6)
	})
}
