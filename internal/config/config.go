package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера сада.
type Config struct {
	Garden        GardenConfig                 `yaml:"garden"`
	Terrain       TerrainConfig                `yaml:"terrain"`
	Rules         []RuleConfig                 `yaml:"rules"`
	Inventory     map[string]PoolConfig        `yaml:"inventory"`
	Probabilities map[string]ProbabilityConfig `yaml:"probabilities"`
	EventBus      EventBusConfig               `yaml:"eventbus"`
	Storage       StorageConfig                `yaml:"storage"`
	Server        ServerConfig                 `yaml:"server"`
	Auth          AuthConfig                   `yaml:"auth"`
	Telemetry     TelemetryConfig              `yaml:"telemetry"`
}

type GardenConfig struct {
	TileSize           float64 `yaml:"tile_size"`
	AdjacencyThreshold float64 `yaml:"adjacency_threshold"`
	TickRate           int     `yaml:"tick_rate"` // Тиков в секунду
	Seed               int64   `yaml:"seed"`
	DefaultCategory    string  `yaml:"default_category"`
}

type TerrainConfig struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	NoiseScale float64      `yaml:"noise_scale"`
	BiomeScale float64      `yaml:"biome_scale"`
	Tiles      []TileConfig `yaml:"tiles"` // Явный список тайлов; если пуст: генерация
}

type TileConfig struct {
	Type        string  `yaml:"type"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Traversable *bool   `yaml:"traversable"`
}

type RuleConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	A        string `yaml:"a"`
	B        string `yaml:"b"`
	Result   string `yaml:"result"`
	Required uint   `yaml:"required"`
}

type VariantConfig struct {
	Name          string  `yaml:"name"`
	JournalIndex  int     `yaml:"journal_index"`
	StageDuration float64 `yaml:"stage_duration"`
}

type PoolConfig struct {
	Common   []VariantConfig `yaml:"common"`
	Fancy    []VariantConfig `yaml:"fancy"`
	Mythical []VariantConfig `yaml:"mythical"`
}

type ProbabilityConfig struct {
	Common   uint8 `yaml:"common"`
	Fancy    uint8 `yaml:"fancy"`
	Mythical uint8 `yaml:"mythical"`
}

type EventBusConfig struct {
	Backend   string `yaml:"backend"` // memory | jetstream
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type StorageConfig struct {
	Backend         string `yaml:"backend"` // memory | badger | redis
	Path            string `yaml:"path"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	KeyPrefix       string `yaml:"key_prefix"`
	TTLHours        int    `yaml:"ttl_hours"`
	AutosaveSeconds int    `yaml:"autosave_seconds"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type AuthConfig struct {
	Secret        string `yaml:"secret"` // base64, не короче 32 байт
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Service  string `yaml:"service"`
	Endpoint string `yaml:"endpoint"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GARDEN_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GARDEN_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// GetSecret возвращает секрет JWT: config -> GARDEN_JWT_SECRET -> пусто
func (a *AuthConfig) GetSecret() string {
	if a.Secret != "" {
		return a.Secret
	}
	return os.Getenv("GARDEN_JWT_SECRET")
}

// TokenTTL время жизни выдаваемых токенов
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// TickInterval период одного тика симуляции
func (g *GardenConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(g.TickRate)
}

// AutosaveInterval период автосохранения прогресса; отрицательное значение в конфиге выключает его
func (s *StorageConfig) AutosaveInterval() time.Duration {
	if s.AutosaveSeconds <= 0 {
		return 0
	}
	return time.Duration(s.AutosaveSeconds) * time.Second
}

// TTL время жизни ключей в Redis; 0: без истечения
func (s *StorageConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV GARDEN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GARDEN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан: использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	return Parse(data)
}

// Parse разбирает YAML, дополняет пропущенные поля значениями по умолчанию и проверяет результат
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OrDefault возвращает cfg или Default(), если конфигурация не задана
func OrDefault(cfg *Config) *Config {
	if cfg == nil {
		return Default()
	}
	return cfg
}
