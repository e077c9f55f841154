package config

// Значения по умолчанию
const (
	DefaultTileSize        = 250.0
	DefaultTickRate        = 20
	DefaultSeed            = 12345
	DefaultCategory        = "plant"
	DefaultTerrainWidth    = 16
	DefaultTerrainHeight   = 16
	DefaultNoiseScale      = 0.15
	DefaultBiomeScale      = 0.08
	DefaultEventBusBackend = "memory"
	DefaultEventBusBuffer  = 1024
	DefaultStream          = "GARDEN_EVENTS"
	DefaultStorageBackend  = "memory"
	DefaultKeyPrefix       = "garden:"
	DefaultAutosaveSeconds = 30
	DefaultTokenTTLHours   = 24
	DefaultServiceName     = "garden-server"
)

// Default возвращает полную конфигурацию по умолчанию: уровень из шума,
// базовые правила и инвентарь для трёх категорий.
func Default() *Config {
	cfg := &Config{
		Rules: []RuleConfig{
			{Name: "plant_on_grass", Kind: "object_terrain", A: "plant", B: "grass", Result: "sparkle", Required: 3},
			{Name: "tree_on_dirt", Kind: "object_terrain", A: "tree", B: "dirt", Result: "roots", Required: 2},
			{Name: "plant_meadow", Kind: "object_object", A: "plant", B: "plant", Result: "bloom", Required: 5},
			{Name: "tree_shade", Kind: "object_object", A: "tree", B: "plant", Result: "leaves", Required: 2},
			{Name: "food_garden", Kind: "object_object", A: "food", B: "plant", Result: "pollen", Required: 4},
		},
		Inventory: map[string]PoolConfig{
			"plant": {
				Common: []VariantConfig{
					{Name: "daisy", JournalIndex: 1, StageDuration: 5},
					{Name: "tulip", JournalIndex: 2, StageDuration: 5},
				},
				Fancy:    []VariantConfig{{Name: "orchid", JournalIndex: 3, StageDuration: 8}},
				Mythical: []VariantConfig{{Name: "moonflower", JournalIndex: 4, StageDuration: 12}},
			},
			"tree": {
				Common: []VariantConfig{{Name: "oak", JournalIndex: 5, StageDuration: 10}},
				Fancy:  []VariantConfig{{Name: "cherry", JournalIndex: 6, StageDuration: 14}},
			},
			"food": {
				Common: []VariantConfig{
					{Name: "carrot", JournalIndex: 7, StageDuration: 4},
					{Name: "potato", JournalIndex: 8, StageDuration: 4},
				},
				Fancy: []VariantConfig{{Name: "pumpkin", JournalIndex: 9, StageDuration: 9}},
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет незаданные поля
func (c *Config) applyDefaults() {
	if c.Garden.TileSize <= 0 {
		c.Garden.TileSize = DefaultTileSize
	}
	if c.Garden.TickRate <= 0 {
		c.Garden.TickRate = DefaultTickRate
	}
	if c.Garden.Seed == 0 {
		c.Garden.Seed = DefaultSeed
	}
	if c.Garden.DefaultCategory == "" {
		c.Garden.DefaultCategory = DefaultCategory
	}

	if len(c.Terrain.Tiles) == 0 {
		if c.Terrain.Width <= 0 {
			c.Terrain.Width = DefaultTerrainWidth
		}
		if c.Terrain.Height <= 0 {
			c.Terrain.Height = DefaultTerrainHeight
		}
	}
	if c.Terrain.NoiseScale <= 0 {
		c.Terrain.NoiseScale = DefaultNoiseScale
	}
	if c.Terrain.BiomeScale <= 0 {
		c.Terrain.BiomeScale = DefaultBiomeScale
	}

	if c.Inventory == nil {
		c.Inventory = make(map[string]PoolConfig)
	}
	if c.Probabilities == nil {
		c.Probabilities = make(map[string]ProbabilityConfig)
	}

	if c.EventBus.Backend == "" {
		c.EventBus.Backend = DefaultEventBusBackend
	}
	if c.EventBus.Buffer <= 0 {
		c.EventBus.Buffer = DefaultEventBusBuffer
	}
	if c.EventBus.Stream == "" {
		c.EventBus.Stream = DefaultStream
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = DefaultKeyPrefix
	}
	if c.Storage.AutosaveSeconds == 0 {
		c.Storage.AutosaveSeconds = DefaultAutosaveSeconds
	}

	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = DefaultTokenTTLHours
	}
	if c.Telemetry.Service == "" {
		c.Telemetry.Service = DefaultServiceName
	}
}
