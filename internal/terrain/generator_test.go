package terrain

import (
	"testing"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Grid(t *testing.T) {
	g := NewGenerator(12345, 8, 6, 250)

	tiles, err := g.Generate()
	require.NoError(t, err)
	require.Len(t, tiles, 48, "Сетка 8x6 даёт 48 тайлов")

	assert.Equal(t, vec.Vec2Float{X: 0, Y: 0}, tiles[0].Position, "Первый тайл в начале координат")
	assert.Equal(t, vec.Vec2Float{X: 250, Y: 0}, tiles[1].Position, "Тайлы идут построчно")
	assert.Equal(t, vec.Vec2Float{X: 0, Y: 250}, tiles[8].Position, "Вторая строка севернее первой")

	for _, tile := range tiles {
		assert.True(t, tile.Type.Valid(), "Тип поверхности должен быть известен")
		assert.Equal(t, Traversable(tile.Type), tile.Traversable)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, err := NewGenerator(99, 10, 10, 250).Generate()
	require.NoError(t, err)
	b, err := NewGenerator(99, 10, 10, 250).Generate()
	require.NoError(t, err)

	assert.Equal(t, a, b, "Одинаковый сид даёт одинаковый уровень")
	assert.Equal(t, 100, sum(Summary(a)))
}

func TestGenerator_InvalidSize(t *testing.T) {
	_, err := NewGenerator(1, 0, 5, 250).Generate()
	assert.Error(t, err)

	_, err = NewGenerator(1, 5, 5, 0).Generate()
	assert.Error(t, err)
}

func TestTerrainFor(t *testing.T) {
	assert.Equal(t, garden.TerrainWater, TerrainFor(0.1, 0.5))
	assert.Equal(t, garden.TerrainStone, TerrainFor(0.9, 0.5))
	assert.Equal(t, garden.TerrainSand, TerrainFor(0.5, 0.2))
	assert.Equal(t, garden.TerrainDirt, TerrainFor(0.5, 0.8))
	assert.Equal(t, garden.TerrainGrass, TerrainFor(0.5, 0.5))

	assert.False(t, Traversable(garden.TerrainWater), "По воде не ходят")
	assert.False(t, Traversable(garden.TerrainStone), "На камне не сажают")
	assert.True(t, Traversable(garden.TerrainGrass))
}

func sum(m map[garden.TerrainType]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
