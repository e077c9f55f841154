package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Float_Dot(t *testing.T) {
	a := Vec2Float{X: 3, Y: 4}

	assert.Equal(t, 3.0, a.Dot(Vec2Float{X: 1, Y: 0}), "Проекция на восток")
	assert.Equal(t, -4.0, a.Dot(Vec2Float{X: 0, Y: -1}), "Проекция на юг")
	assert.Equal(t, 5.0, a.Length(), "Длина вектора 3-4-5")
	assert.Equal(t, 5.0, a.DistanceTo(Vec2Float{}), "Расстояние до начала координат")
}

func TestVec2Float_Normalized(t *testing.T) {
	assert.Equal(t, Vec2Float{}, Vec2Float{}.Normalized(), "Нулевой вектор остаётся нулевым")

	n := Vec2Float{X: 0, Y: -250}.Normalized()
	assert.InDelta(t, 0.0, n.X, 1e-9)
	assert.InDelta(t, -1.0, n.Y, 1e-9)
}

func TestVec2_Scale(t *testing.T) {
	p := Vec2{X: 2, Y: -1}.Scale(250)
	assert.Equal(t, Vec2Float{X: 500, Y: -250}, p)
	assert.Equal(t, Vec2{X: 1, Y: -1}, Vec2Float{X: 1.5, Y: -0.5}.ToVec2(), "Округление вниз")
}
