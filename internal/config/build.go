package config

import (
	"fmt"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/terrain"
	"github.com/anneomcl/TeamWolverine/internal/vec"
)

// RuleTable строит таблицу правил в порядке объявления
func (c *Config) RuleTable() (*garden.RuleTable, error) {
	rules := make([]garden.InteractionRule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		kind, err := garden.ParseRuleKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("правило %q: %w", rc.Name, err)
		}
		rules = append(rules, garden.InteractionRule{
			Name:             rc.Name,
			Kind:             kind,
			TypeA:            garden.TypeTag(rc.A),
			TypeB:            garden.TypeTag(rc.B),
			Result:           rc.Result,
			RequiredQuantity: rc.Required,
		})
	}
	return garden.NewRuleTable(rules)
}

// TierPools строит пулы вариантов по категориям
func (c *Config) TierPools() map[garden.Category]garden.TierPools {
	result := make(map[garden.Category]garden.TierPools, len(c.Inventory))
	for name, pool := range c.Inventory {
		category := garden.Category(name)
		result[category] = garden.TierPools{
			Common:   variants(category, garden.TierCommon, pool.Common),
			Fancy:    variants(category, garden.TierFancy, pool.Fancy),
			Mythical: variants(category, garden.TierMythical, pool.Mythical),
		}
	}
	return result
}

func variants(category garden.Category, tier garden.SpawnTier, configs []VariantConfig) []garden.Variant {
	result := make([]garden.Variant, 0, len(configs))
	for _, vc := range configs {
		result = append(result, garden.Variant{
			Name:          vc.Name,
			Category:      category,
			Tier:          tier,
			JournalIndex:  vc.JournalIndex,
			StageDuration: vc.StageDuration,
		})
	}
	return result
}

// Variants все варианты инвентаря; используется журналом открытий
func (c *Config) Variants() []garden.Variant {
	all := c.TierPools()
	var result []garden.Variant
	for _, category := range garden.Categories {
		pools := all[category]
		result = append(result, pools.Common...)
		result = append(result, pools.Fancy...)
		result = append(result, pools.Mythical...)
	}
	return result
}

// TierSelector строит селектор и применяет вероятности из конфигурации
func (c *Config) TierSelector(roller garden.Roller) (*garden.TierSelector, error) {
	selector := garden.NewTierSelector(c.TierPools(), roller)
	for name, p := range c.Probabilities {
		err := selector.SetProbabilities(garden.Category(name), garden.TierProbabilities{
			Common:   p.Common,
			Fancy:    p.Fancy,
			Mythical: p.Mythical,
		})
		if err != nil {
			return nil, err
		}
	}
	return selector, nil
}

// Tiles возвращает явный список тайлов или генерирует уровень из шума
func (c *Config) Tiles() ([]garden.TileSpec, error) {
	if len(c.Terrain.Tiles) > 0 {
		tiles := make([]garden.TileSpec, 0, len(c.Terrain.Tiles))
		for _, tc := range c.Terrain.Tiles {
			t := garden.TerrainType(tc.Type)
			traversable := terrain.Traversable(t)
			if tc.Traversable != nil {
				traversable = *tc.Traversable
			}
			tiles = append(tiles, garden.TileSpec{
				Type:        t,
				Position:    vec.Vec2Float{X: tc.X, Y: tc.Y},
				Traversable: traversable,
			})
		}
		return tiles, nil
	}

	gen := terrain.NewGenerator(c.Garden.Seed, c.Terrain.Width, c.Terrain.Height, c.Garden.TileSize)
	gen.NoiseScale = c.Terrain.NoiseScale
	gen.BiomeScale = c.Terrain.BiomeScale
	return gen.Generate()
}

// Threshold порог соседства; по умолчанию чуть больше ширины тайла (260 для 250)
func (g *GardenConfig) Threshold() float64 {
	if g.AdjacencyThreshold > 0 {
		return g.AdjacencyThreshold
	}
	return g.TileSize * 1.04
}
