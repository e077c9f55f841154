package terrain

import (
	"fmt"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/util"
	"github.com/anneomcl/TeamWolverine/internal/vec"
)

// Пороги высот для генерации
const (
	WaterMax      = 0.30 // Ниже - вода
	MountainStart = 0.80 // Выше - камень
	SandMax       = 0.35 // Шум биома ниже - песок
	DirtStart     = 0.65 // Шум биома выше - земля
)

// Generator генерирует тайлы уровня из шума Перлина
type Generator struct {
	Seed       int64   // Сид для генерации шума
	Width      int     // Ширина уровня в тайлах
	Height     int     // Высота уровня в тайлах
	TileSize   float64 // Шаг сетки в мировых единицах
	NoiseScale float64 // Масштаб основного шума (высота)
	BiomeScale float64 // Масштаб шума биомов
}

// NewGenerator создаёт генератор с настройками по умолчанию
func NewGenerator(seed int64, width, height int, tileSize float64) *Generator {
	return &Generator{
		Seed:       seed,
		Width:      width,
		Height:     height,
		TileSize:   tileSize,
		NoiseScale: 0.15,
		BiomeScale: 0.08,
	}
}

// Generate строит сетку тайлов построчно, начиная с юго-западного угла
func (g *Generator) Generate() ([]garden.TileSpec, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("некорректный размер уровня %dx%d", g.Width, g.Height)
	}
	if g.TileSize <= 0 {
		return nil, fmt.Errorf("некорректный размер тайла %f", g.TileSize)
	}

	heightNoise := util.NewNoise(g.Seed)
	biomeNoise := util.NewNoise(g.Seed + 42)

	tiles := make([]garden.TileSpec, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			height := heightNoise.Sample2D(float64(x)*g.NoiseScale, float64(y)*g.NoiseScale)
			biome := biomeNoise.Sample2D(float64(x)*g.BiomeScale, float64(y)*g.BiomeScale)

			terrain := TerrainFor(height, biome)
			tiles = append(tiles, garden.TileSpec{
				Type:        terrain,
				Position:    vec.Vec2{X: x, Y: y}.Scale(g.TileSize),
				Traversable: Traversable(terrain),
			})
		}
	}
	return tiles, nil
}

// TerrainFor определяет тип поверхности по высоте и шуму биома
func TerrainFor(height, biome float64) garden.TerrainType {
	switch {
	case height < WaterMax:
		return garden.TerrainWater
	case height > MountainStart:
		return garden.TerrainStone
	case biome < SandMax:
		return garden.TerrainSand
	case biome > DirtStart:
		return garden.TerrainDirt
	default:
		return garden.TerrainGrass
	}
}

// Traversable можно ли ходить и сажать по поверхности
func Traversable(t garden.TerrainType) bool {
	return t != garden.TerrainWater && t != garden.TerrainStone
}

// Summary количество тайлов каждого типа
func Summary(tiles []garden.TileSpec) map[garden.TerrainType]int {
	result := make(map[garden.TerrainType]int)
	for _, tile := range tiles {
		result[tile.Type]++
	}
	return result
}
