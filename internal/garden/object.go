package garden

import "github.com/anneomcl/TeamWolverine/internal/vec"

// ObjectID стабильный идентификатор объекта в арене менеджера
type ObjectID uint64

// NoObject пустой слот соседа
const NoObject ObjectID = 0

// PlacedObject высаженный объект. Соседи и тайл хранятся как
// невладеющие ссылки (ID) на арену и набор тайлов менеджера.
type PlacedObject struct {
	ID       ObjectID
	Variant  Variant
	Position vec.Vec2Float
	Tile     TileID

	stage           GrowingStage
	timeInStage     float64
	timeToNextStage float64

	neighbors          [4]ObjectID
	interacted         [4]bool
	interactedWithTile bool
}

func newPlacedObject(id ObjectID, variant Variant, pos vec.Vec2Float) *PlacedObject {
	return &PlacedObject{
		ID:              id,
		Variant:         variant,
		Position:        pos,
		Tile:            NoTile,
		stage:           StageSeed,
		timeToNextStage: variant.StageDuration,
	}
}

// Category категория объекта
func (o *PlacedObject) Category() Category { return o.Variant.Category }

// Stage текущая стадия роста
func (o *PlacedObject) Stage() GrowingStage { return o.stage }

// Neighbor возвращает соседа в направлении d
func (o *PlacedObject) Neighbor(d Direction) (ObjectID, bool) {
	id := o.neighbors[d]
	return id, id != NoObject
}

// Neighbors возвращает всех соседей по направлениям
func (o *PlacedObject) Neighbors() map[Direction]ObjectID {
	result := make(map[Direction]ObjectID, 4)
	for _, d := range Directions {
		if id := o.neighbors[d]; id != NoObject {
			result[d] = id
		}
	}
	return result
}

// HasInteractedWithNeighbor срабатывало ли правило для соседа в направлении d
func (o *PlacedObject) HasInteractedWithNeighbor(d Direction) bool { return o.interacted[d] }

// HasInteractedWithTile срабатывало ли правило с поверхностью тайла
func (o *PlacedObject) HasInteractedWithTile() bool { return o.interactedWithTile }

func (o *PlacedObject) setNeighbor(d Direction, id ObjectID) { o.neighbors[d] = id }

func (o *PlacedObject) clearNeighborIf(d Direction, id ObjectID) {
	if o.neighbors[d] == id {
		o.neighbors[d] = NoObject
	}
}

func (o *PlacedObject) markInteractedWithNeighbor(d Direction) { o.interacted[d] = true }
func (o *PlacedObject) markInteractedWithTile() { o.interactedWithTile = true }

// onSpawn привязывает объект к тайлу и начальным соседям
func (o *PlacedObject) onSpawn(tile TileID, neighbors map[Direction]ObjectID) {
	o.Tile = tile
	for d, id := range neighbors {
		o.neighbors[d] = id
	}
}

type growthStep uint8

const (
	growthNone growthStep = iota
	growthGrew
	growthFinal
)

// advance накапливает время в стадии и переводит объект на следующую.
// Финальная стадия терминальна.
func (o *PlacedObject) advance(dt float64) growthStep {
	if o.stage == StageFinal {
		return growthNone
	}

	o.timeInStage += dt
	if o.timeInStage < o.timeToNextStage {
		return growthNone
	}

	o.stage++
	o.timeInStage = 0
	if o.stage == StageFinal {
		return growthFinal
	}
	return growthGrew
}

// ObjectInfo снимок состояния объекта
type ObjectInfo struct {
	ID                 ObjectID            `json:"id"`
	Variant            Variant             `json:"variant"`
	Position           vec.Vec2Float       `json:"position"`
	Tile               TileID              `json:"tile"`
	Stage              string              `json:"stage"`
	TimeInStage        float64             `json:"time_in_stage"`
	Neighbors          map[string]ObjectID `json:"neighbors"`
	InteractedWith     []string            `json:"interacted_with"`
	InteractedWithTile bool                `json:"interacted_with_tile"`
}

// Info возвращает снимок объекта
func (o *PlacedObject) Info() ObjectInfo {
	info := ObjectInfo{
		ID:                 o.ID,
		Variant:            o.Variant,
		Position:           o.Position,
		Tile:               o.Tile,
		Stage:              o.stage.String(),
		TimeInStage:        o.timeInStage,
		Neighbors:          make(map[string]ObjectID),
		InteractedWith:     []string{},
		InteractedWithTile: o.interactedWithTile,
	}
	for _, d := range Directions {
		if id := o.neighbors[d]; id != NoObject {
			info.Neighbors[d.String()] = id
		}
		if o.interacted[d] {
			info.InteractedWith = append(info.InteractedWith, d.String())
		}
	}
	return info
}

// objectArena владеет всеми живыми объектами и помнит порядок добавления
type objectArena struct {
	objects map[ObjectID]*PlacedObject
	order   []ObjectID
	nextID  ObjectID
}

func newObjectArena() *objectArena {
	return &objectArena{
		objects: make(map[ObjectID]*PlacedObject),
		nextID:  1,
	}
}

func (a *objectArena) allocate() ObjectID {
	id := a.nextID
	a.nextID++
	return id
}

func (a *objectArena) add(o *PlacedObject) {
	a.objects[o.ID] = o
	a.order = append(a.order, o.ID)
}

func (a *objectArena) get(id ObjectID) *PlacedObject {
	if id == NoObject {
		return nil
	}
	return a.objects[id]
}

// remove удаляет объект и обнуляет ссылки соседей на него
func (a *objectArena) remove(id ObjectID) bool {
	o, ok := a.objects[id]
	if !ok {
		return false
	}

	for _, d := range Directions {
		if n := a.get(o.neighbors[d]); n != nil {
			n.clearNeighborIf(d.Opposite(), id)
		}
	}

	delete(a.objects, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// each обходит объекты в порядке добавления
func (a *objectArena) each(fn func(o *PlacedObject)) {
	for _, id := range a.order {
		if o := a.objects[id]; o != nil {
			fn(o)
		}
	}
}

func (a *objectArena) len() int { return len(a.order) }
