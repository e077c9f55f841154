package garden

import (
	"fmt"

	"github.com/anneomcl/TeamWolverine/internal/vec"
)

// DefaultAdjacencyThreshold максимальное расстояние до соседа в пустом слоте.
// Чуть больше ширины тайла, чтобы соседние центры на сетке всегда проходили.
const DefaultAdjacencyThreshold = 260.0

// neighborCandidate ближайший объект в направлении
type neighborCandidate struct {
	object   *PlacedObject
	distance float64
}

// NeighborGraph строит и поддерживает симметричный граф соседей над ареной
type NeighborGraph struct {
	arena     *objectArena
	threshold float64
}

func newNeighborGraph(arena *objectArena, threshold float64) *NeighborGraph {
	if threshold <= 0 {
		threshold = DefaultAdjacencyThreshold
	}
	return &NeighborGraph{arena: arena, threshold: threshold}
}

// gather собирает по одному ближайшему кандидату на направление
func (g *NeighborGraph) gather(o *PlacedObject) [4]*neighborCandidate {
	var candidates [4]*neighborCandidate

	g.arena.each(func(other *PlacedObject) {
		if other.ID == o.ID {
			return
		}

		displacement := o.Position.Sub(other.Position)
		distance := displacement.Length()

		d, ok := classify(displacement)
		if !ok {
			return
		}

		if current := candidates[d]; current != nil {
			if distance < current.distance {
				candidates[d] = &neighborCandidate{object: other, distance: distance}
			}
			return
		}
		if distance < g.threshold {
			candidates[d] = &neighborCandidate{object: other, distance: distance}
		}
	})

	return candidates
}

// Build находит соседей для o, связывает их в обе стороны и возвращает
// итоговых соседей o по направлениям. Действующий сосед вытесняется только
// строго более близким кандидатом, как со стороны o, так и со стороны кандидата.
func (g *NeighborGraph) Build(o *PlacedObject) map[Direction]ObjectID {
	candidates := g.gather(o)

	for _, d := range Directions {
		c := candidates[d]
		if c == nil {
			continue
		}
		other := c.object
		opposite := d.Opposite()

		incumbent := g.arena.get(o.neighbors[d])
		if incumbent != nil && incumbent.ID != other.ID &&
			!closer(c.distance, o.Position, incumbent.Position) {
			continue
		}

		rival := g.arena.get(other.neighbors[opposite])
		if rival != nil && rival.ID != o.ID &&
			!closer(c.distance, other.Position, rival.Position) {
			continue
		}

		if incumbent != nil && incumbent.ID != other.ID {
			incumbent.clearNeighborIf(opposite, o.ID)
		}
		if rival != nil && rival.ID != o.ID {
			rival.clearNeighborIf(d, other.ID)
		}

		o.setNeighbor(d, other.ID)
		other.setNeighbor(opposite, o.ID)
	}

	return o.Neighbors()
}

func closer(distance float64, from, incumbent vec.Vec2Float) bool {
	return distance < from.DistanceTo(incumbent)
}

// Verify проверяет симметрию графа: A.neighbors[d] == B ⇒ B.neighbors[opposite(d)] == A
func (g *NeighborGraph) Verify() error {
	var err error
	g.arena.each(func(o *PlacedObject) {
		if err != nil {
			return
		}
		for _, d := range Directions {
			id := o.neighbors[d]
			if id == NoObject {
				continue
			}
			n := g.arena.get(id)
			if n == nil {
				err = fmt.Errorf("объект %d: сосед %s ссылается на удалённый объект %d", o.ID, d, id)
				return
			}
			if back := n.neighbors[d.Opposite()]; back != o.ID {
				err = fmt.Errorf("объект %d: сосед %s = %d, но обратная ссылка %s = %d",
					o.ID, d, id, d.Opposite(), back)
				return
			}
		}
	})
	return err
}
