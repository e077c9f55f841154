package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoise_Deterministic(t *testing.T) {
	a := NewNoise(12345)
	b := NewNoise(12345)

	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.37, float64(i)*0.11
		assert.Equal(t, a.Sample2D(x, y), b.Sample2D(x, y), "Одинаковый сид даёт одинаковый шум")
	}
}

func TestNoise_Range(t *testing.T) {
	n := NewNoise(7)
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			v := n.Sample2D(float64(x)*0.13, float64(y)*0.29)
			assert.True(t, v >= 0 && v <= 1, "Значение шума в пределах [0, 1]: %f", v)
		}
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.25, Clamp01(0.25))
}
