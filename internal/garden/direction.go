package garden

import "github.com/anneomcl/TeamWolverine/internal/vec"

// Direction сторона, с которой находится сосед
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions порядок обхода соседей при оценке правил
var Directions = [4]Direction{Up, Down, Left, Right}

// classifyOrder порядок проверки направлений при классификации кандидата.
// При равных скалярных произведениях выигрывает направление, проверенное раньше.
var classifyOrder = [4]Direction{Left, Right, Up, Down}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "invalid"
	}
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// approach единичный вектор смещения (объект − сосед) для соседа в слоте d.
// Сосед слева лежит западнее, поэтому смещение указывает на восток.
func (d Direction) approach() vec.Vec2Float {
	switch d {
	case Left:
		return vec.Vec2Float{X: 1, Y: 0}
	case Right:
		return vec.Vec2Float{X: -1, Y: 0}
	case Up:
		return vec.Vec2Float{X: 0, Y: -1}
	default:
		return vec.Vec2Float{X: 0, Y: 1}
	}
}

// classify относит смещение (объект − кандидат) к направлению с наибольшим
// строго положительным скалярным произведением.
func classify(displacement vec.Vec2Float) (Direction, bool) {
	best := Direction(0)
	bestDot := 0.0
	found := false

	for _, d := range classifyOrder {
		dot := displacement.Dot(d.approach())
		if dot > 0 && (!found || dot > bestDot) {
			best = d
			bestDot = dot
			found = true
		}
	}
	return best, found
}
