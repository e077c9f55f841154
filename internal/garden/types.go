package garden

import (
	"errors"
	"fmt"
)

// Ошибки движка
var (
	ErrUnknownRule     = errors.New("неизвестное правило взаимодействия")
	ErrUnknownObject   = errors.New("объект не найден")
	ErrUnknownCategory = errors.New("неизвестная категория объектов")
	ErrUnknownAnimal   = errors.New("животное не найдено")
)

// TypeTag общий тип для сторон правила взаимодействия:
// категория объекта или тип поверхности тайла.
type TypeTag string

// Category категория высаживаемого объекта
type Category string

const (
	CategoryPlant Category = "plant"
	CategoryTree  Category = "tree"
	CategoryFood  Category = "food"
)

// Categories все категории в порядке объявления
var Categories = []Category{CategoryPlant, CategoryTree, CategoryFood}

// Valid проверяет, что категория известна
func (c Category) Valid() bool {
	switch c {
	case CategoryPlant, CategoryTree, CategoryFood:
		return true
	}
	return false
}

// Tag возвращает категорию как сторону правила
func (c Category) Tag() TypeTag { return TypeTag(c) }

// ParseCategory разбирает категорию из строки
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// TerrainType тип поверхности тайла
type TerrainType string

const (
	TerrainGrass TerrainType = "grass"
	TerrainDirt  TerrainType = "dirt"
	TerrainSand  TerrainType = "sand"
	TerrainWater TerrainType = "water"
	TerrainStone TerrainType = "stone"
)

// Valid проверяет, что тип поверхности известен
func (t TerrainType) Valid() bool {
	switch t {
	case TerrainGrass, TerrainDirt, TerrainSand, TerrainWater, TerrainStone:
		return true
	}
	return false
}

// Tag возвращает тип поверхности как сторону правила
func (t TerrainType) Tag() TypeTag { return TypeTag(t) }

// GrowingStage стадия роста объекта
type GrowingStage uint8

const (
	StageSeed GrowingStage = iota
	StageSprout
	StageMature
	StageFinal
)

func (s GrowingStage) String() string {
	switch s {
	case StageSeed:
		return "seed"
	case StageSprout:
		return "sprout"
	case StageMature:
		return "mature"
	case StageFinal:
		return "final"
	default:
		return "unknown"
	}
}

// SpawnTier уровень редкости варианта
type SpawnTier uint8

const (
	TierCommon SpawnTier = iota
	TierFancy
	TierMythical
)

func (t SpawnTier) String() string {
	switch t {
	case TierCommon:
		return "common"
	case TierFancy:
		return "fancy"
	case TierMythical:
		return "mythical"
	default:
		return "unknown"
	}
}

// Variant конкретный вид объекта, который можно высадить
type Variant struct {
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Tier          SpawnTier `json:"tier"`
	JournalIndex  int       `json:"journal_index"`
	StageDuration float64   `json:"stage_duration"` // Секунд на одну стадию роста
}
