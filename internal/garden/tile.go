package garden

import "github.com/anneomcl/TeamWolverine/internal/vec"

// TileID индекс тайла в наборе уровня
type TileID int

// NoTile отсутствие тайла
const NoTile TileID = -1

// TileSpec описание тайла при загрузке уровня
type TileSpec struct {
	Type        TerrainType
	Position    vec.Vec2Float
	Traversable bool
}

// Tile клетка уровня. Создаётся при загрузке и живёт до конца игры.
type Tile struct {
	ID          TileID
	Type        TerrainType
	Position    vec.Vec2Float
	Traversable bool

	occupied   bool // false → true ровно один раз
	interacted bool
}

func newTile(id TileID, spec TileSpec) *Tile {
	return &Tile{
		ID:          id,
		Type:        spec.Type,
		Position:    spec.Position,
		Traversable: spec.Traversable,
	}
}

// IsOccupied занят ли тайл объектом
func (t *Tile) IsOccupied() bool { return t.occupied }

// HasBeenInteractedWith срабатывало ли правило с поверхностью этого тайла
func (t *Tile) HasBeenInteractedWith() bool { return t.interacted }

// CanPlace можно ли высадить объект на тайл
func (t *Tile) CanPlace() bool { return t.Traversable && !t.occupied }

func (t *Tile) markOccupied() { t.occupied = true }
func (t *Tile) markInteracted() { t.interacted = true }

// TileInfo снимок состояния тайла
type TileInfo struct {
	ID          TileID        `json:"id"`
	Type        TerrainType   `json:"type"`
	Position    vec.Vec2Float `json:"position"`
	Traversable bool          `json:"traversable"`
	Occupied    bool          `json:"occupied"`
	Interacted  bool          `json:"interacted"`
}

// Info возвращает снимок тайла
func (t *Tile) Info() TileInfo {
	return TileInfo{
		ID:          t.ID,
		Type:        t.Type,
		Position:    t.Position,
		Traversable: t.Traversable,
		Occupied:    t.occupied,
		Interacted:  t.interacted,
	}
}
