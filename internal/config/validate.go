package config

import (
	"errors"
	"fmt"

	"github.com/anneomcl/TeamWolverine/internal/garden"
)

// Validate проверяет конфигурацию и собирает все найденные ошибки
func (c *Config) Validate() error {
	var errs []error

	if !garden.Category(c.Garden.DefaultCategory).Valid() {
		errs = append(errs, fmt.Errorf("garden.default_category: неизвестная категория %q", c.Garden.DefaultCategory))
	}
	if c.Garden.AdjacencyThreshold < 0 {
		errs = append(errs, fmt.Errorf("garden.adjacency_threshold: отрицательное значение %f", c.Garden.AdjacencyThreshold))
	}

	for i, tile := range c.Terrain.Tiles {
		if !garden.TerrainType(tile.Type).Valid() {
			errs = append(errs, fmt.Errorf("terrain.tiles[%d]: неизвестный тип поверхности %q", i, tile.Type))
		}
	}

	errs = append(errs, c.validateRules()...)

	for name, pool := range c.Inventory {
		if !garden.Category(name).Valid() {
			errs = append(errs, fmt.Errorf("inventory: неизвестная категория %q", name))
			continue
		}
		for _, v := range append(append(append([]VariantConfig{}, pool.Common...), pool.Fancy...), pool.Mythical...) {
			if v.Name == "" {
				errs = append(errs, fmt.Errorf("inventory.%s: вариант без имени", name))
			}
			if v.StageDuration < 0 {
				errs = append(errs, fmt.Errorf("inventory.%s.%s: отрицательная длительность стадии", name, v.Name))
			}
		}
	}

	for name := range c.Probabilities {
		if !garden.Category(name).Valid() {
			errs = append(errs, fmt.Errorf("probabilities: неизвестная категория %q", name))
		}
	}

	switch c.EventBus.Backend {
	case "memory", "jetstream":
	default:
		errs = append(errs, fmt.Errorf("eventbus.backend: неизвестный бэкенд %q", c.EventBus.Backend))
	}
	if c.EventBus.Backend == "jetstream" && c.EventBus.URL == "" {
		errs = append(errs, errors.New("eventbus.url: обязателен для jetstream"))
	}

	switch c.Storage.Backend {
	case "memory":
	case "badger":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path: обязателен для badger"))
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr: обязателен для redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: неизвестный бэкенд %q", c.Storage.Backend))
	}

	return errors.Join(errs...)
}

func (c *Config) validateRules() []error {
	var errs []error
	seen := make(map[string]bool, len(c.Rules))

	for i, rule := range c.Rules {
		if rule.Name == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: пустое имя", i))
			continue
		}
		if seen[rule.Name] {
			errs = append(errs, fmt.Errorf("rules[%d]: правило %q объявлено дважды", i, rule.Name))
		}
		seen[rule.Name] = true

		if rule.Required == 0 {
			errs = append(errs, fmt.Errorf("rules.%s: required должен быть больше 0", rule.Name))
		}

		kind, err := garden.ParseRuleKind(rule.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules.%s: %w", rule.Name, err))
			continue
		}

		a, b := garden.Category(rule.A), garden.Category(rule.B)
		switch kind {
		case garden.ObjectObject:
			if !a.Valid() || !b.Valid() {
				errs = append(errs, fmt.Errorf("rules.%s: обе стороны должны быть категориями (%q, %q)", rule.Name, rule.A, rule.B))
			}
		case garden.ObjectTerrain:
			ta, tb := garden.TerrainType(rule.A), garden.TerrainType(rule.B)
			if !(a.Valid() && tb.Valid()) && !(b.Valid() && ta.Valid()) {
				errs = append(errs, fmt.Errorf("rules.%s: нужна пара категория + поверхность (%q, %q)", rule.Name, rule.A, rule.B))
			}
		}
	}
	return errs
}
