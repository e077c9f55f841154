package vec

import "math"

// Vec2 представляет целочисленные координаты ячейки сетки
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Scale переводит координаты ячейки в мировые координаты её центра
func (v Vec2) Scale(cellSize float64) Vec2Float {
	return Vec2Float{X: float64(v.X) * cellSize, Y: float64(v.Y) * cellSize}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
