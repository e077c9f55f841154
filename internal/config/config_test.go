package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
garden:
  tile_size: 100
  tick_rate: 10
  default_category: tree
terrain:
  tiles:
    - {type: grass, x: 0, y: 0}
    - {type: water, x: 100, y: 0}
    - {type: stone, x: 200, y: 0, traversable: true}
rules:
  - {name: rule1, kind: object_terrain, a: plant, b: grass, result: sparkle, required: 1}
  - {name: shade, kind: object_object, a: tree, b: plant, result: leaves, required: 2}
inventory:
  plant:
    common: [{name: daisy, journal_index: 1, stage_duration: 3}]
  tree:
    common: [{name: oak, journal_index: 2, stage_duration: 6}]
    fancy: [{name: cherry, journal_index: 3, stage_duration: 9}]
probabilities:
  tree: {common: 70, fancy: 30, mythical: 0}
storage:
  backend: badger
  path: /tmp/garden
`

func TestParse_Sample(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err, "Пример конфигурации должен быть валиден")

	assert.Equal(t, 100.0, cfg.Garden.TileSize)
	assert.Equal(t, "tree", cfg.Garden.DefaultCategory)
	assert.Equal(t, DefaultSeed, int(cfg.Garden.Seed), "Незаданный сид берётся по умолчанию")
	assert.Equal(t, "memory", cfg.EventBus.Backend, "Незаданный бэкенд шины: memory")
	assert.Equal(t, 104.0, cfg.Garden.Threshold(), "Порог соседства по умолчанию от размера тайла")

	table, err := cfg.RuleTable()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	rule, ok := table.Lookup("shade")
	require.True(t, ok)
	assert.Equal(t, garden.ObjectObject, rule.Kind)
	assert.Equal(t, uint(2), rule.RequiredQuantity)

	tiles, err := cfg.Tiles()
	require.NoError(t, err)
	require.Len(t, tiles, 3)
	assert.True(t, tiles[0].Traversable, "Трава проходима")
	assert.False(t, tiles[1].Traversable, "Вода непроходима")
	assert.True(t, tiles[2].Traversable, "Явный флаг перекрывает тип поверхности")

	selector, err := cfg.TierSelector(garden.NewRandRoller(1))
	require.NoError(t, err)
	assert.Equal(t, garden.TierProbabilities{Common: 70, Fancy: 30}, selector.Probabilities(garden.CategoryTree))
	assert.Equal(t, garden.DefaultTierProbabilities(), selector.Probabilities(garden.CategoryPlant))

	pools := cfg.TierPools()
	require.Len(t, pools[garden.CategoryTree].Fancy, 1)
	assert.Equal(t, garden.TierFancy, pools[garden.CategoryTree].Fancy[0].Tier)
	assert.Len(t, cfg.Variants(), 3)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"повтор имени правила": `
rules:
  - {name: a, kind: object_terrain, a: plant, b: grass, result: x, required: 1}
  - {name: a, kind: object_terrain, a: plant, b: grass, result: x, required: 1}`,
		"пустое имя правила": `
rules:
  - {kind: object_terrain, a: plant, b: grass, result: x, required: 1}`,
		"нулевое требование": `
rules:
  - {name: a, kind: object_terrain, a: plant, b: grass, result: x, required: 0}`,
		"неизвестная поверхность": `
rules:
  - {name: a, kind: object_terrain, a: plant, b: lava, result: x, required: 1}`,
		"неизвестная категория в инвентаре": `
inventory:
  weed:
    common: [{name: dandelion}]`,
		"неизвестная категория в вероятностях": `
probabilities:
  weed: {common: 100}`,
		"неизвестный тайл": `
terrain:
  tiles: [{type: lava, x: 0, y: 0}]`,
		"неизвестный бэкенд хранилища": `
storage:
  backend: mongo`,
		"jetstream без url": `
eventbus:
  backend: jetstream`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err, "Конфигурация должна быть отклонена")
		})
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate(), "Конфигурация по умолчанию валидна")

	_, err := cfg.RuleTable()
	assert.NoError(t, err)

	tiles, err := cfg.Tiles()
	require.NoError(t, err)
	assert.Len(t, tiles, DefaultTerrainWidth*DefaultTerrainHeight)
}

func TestLoad(t *testing.T) {
	t.Setenv("GARDEN_CONFIG", "")
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Nil(t, cfg, "Без пути и переменной окружения конфигурации нет")
	assert.NotNil(t, OrDefault(cfg))

	path := filepath.Join(t.TempDir(), "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	t.Setenv("GARDEN_CONFIG", path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Garden.TickRate, "Путь берётся из GARDEN_CONFIG")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerPorts(t *testing.T) {
	s := ServerConfig{}

	t.Setenv("GARDEN_REST_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort(), "Порт по умолчанию")

	t.Setenv("GARDEN_REST_PORT", "9000")
	assert.Equal(t, 9000, s.GetRESTPort(), "Порт из окружения")

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort(), "Порт из конфига приоритетнее")

	t.Setenv("GARDEN_METRICS_PORT", "bad")
	assert.Equal(t, 2112, s.GetMetricsPort(), "Некорректное значение окружения игнорируется")
}

func TestAuthSecretFallback(t *testing.T) {
	a := AuthConfig{}
	t.Setenv("GARDEN_JWT_SECRET", "from-env")
	assert.Equal(t, "from-env", a.GetSecret())

	a.Secret = "from-config"
	assert.Equal(t, "from-config", a.GetSecret())
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load("../../configs/garden.yaml")
	require.NoError(t, err, "пример конфигурации из репозитория должен проходить проверку")
	require.NotNil(t, cfg)

	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, 260.0, cfg.Garden.Threshold())
	assert.Len(t, cfg.Rules, 5)
	assert.Len(t, cfg.Variants(), 9)

	rules, err := cfg.RuleTable()
	require.NoError(t, err)
	assert.Equal(t, 5, rules.Len())
}
