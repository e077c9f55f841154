package util

import (
	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав
)

// Noise генератор шума Перлина со своим сидом
type Noise struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoise создаёт генератор шума Перлина с указанным сидом
func NewNoise(seed int64) *Noise {
	return &Noise{
		seed:   seed,
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, int32(noiseOctaves), seed),
	}
}

// Seed сид генератора
func (n *Noise) Seed() int64 { return n.seed }

// Sample2D возвращает значение шума для координат в диапазоне от 0 до 1
func (n *Noise) Sample2D(x, y float64) float64 {
	// Шум Перлина лежит примерно в [-1, 1]
	value := (n.perlin.Noise2D(x, y) + 1.0) / 2.0
	return Clamp01(value)
}

// Clamp01 ограничивает значение диапазоном [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
