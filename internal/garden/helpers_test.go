package garden

import (
	"io"

	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/vec"
)

const tileSize = 250.0

// scriptedRoller выдаёт заранее заданные значения; по исчерпании повторяет последнее
type scriptedRoller struct {
	rolls []float64
	picks []int
}

func (r *scriptedRoller) Roll() float64 {
	if len(r.rolls) == 0 {
		return 0
	}
	v := r.rolls[0]
	if len(r.rolls) > 1 {
		r.rolls = r.rolls[1:]
	}
	return v
}

func (r *scriptedRoller) Pick(n int) int {
	if len(r.picks) == 0 {
		return 0
	}
	v := r.picks[0]
	if len(r.picks) > 1 {
		r.picks = r.picks[1:]
	}
	if v >= n {
		return n - 1
	}
	return v
}

// recordingListener запоминает все уведомления движка
type recordingListener struct {
	spawned          []ObjectInfo
	grew             []ObjectInfo
	final            []ObjectInfo
	interactionGrows []ObjectInfo
	interactions     []InteractionEvent
	satisfied        []string
	animalsSpawned   []AnimalInfo
	animalsRemoved   []AnimalInfo
}

func (l *recordingListener) OnObjectSpawned(obj ObjectInfo) { l.spawned = append(l.spawned, obj) }
func (l *recordingListener) OnGrew(obj ObjectInfo) { l.grew = append(l.grew, obj) }
func (l *recordingListener) OnFinalGrow(obj ObjectInfo) { l.final = append(l.final, obj) }
func (l *recordingListener) OnInteractionGrow(obj ObjectInfo) {
	l.interactionGrows = append(l.interactionGrows, obj)
}
func (l *recordingListener) OnInteraction(ev InteractionEvent) {
	l.interactions = append(l.interactions, ev)
}
func (l *recordingListener) OnQuotaSatisfied(rule string, count uint) {
	l.satisfied = append(l.satisfied, rule)
}
func (l *recordingListener) OnAnimalSpawned(a AnimalInfo) {
	l.animalsSpawned = append(l.animalsSpawned, a)
}
func (l *recordingListener) OnAnimalRemoved(a AnimalInfo) {
	l.animalsRemoved = append(l.animalsRemoved, a)
}

// gridTiles создаёт сетку w×h тайлов одного типа с шагом tileSize
func gridTiles(w, h int, terrain TerrainType) []TileSpec {
	tiles := make([]TileSpec, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tiles = append(tiles, TileSpec{
				Type:        terrain,
				Position:    vec.FromVec2(vec.Vec2{X: x, Y: y}).Mul(tileSize),
				Traversable: true,
			})
		}
	}
	return tiles
}

func testVariant(name string, c Category, tier SpawnTier) Variant {
	return Variant{Name: name, Category: c, Tier: tier, StageDuration: 10}
}

func testPools() map[Category]TierPools {
	return map[Category]TierPools{
		CategoryPlant: {
			Common:   []Variant{testVariant("daisy", CategoryPlant, TierCommon)},
			Fancy:    []Variant{testVariant("orchid", CategoryPlant, TierFancy)},
			Mythical: []Variant{testVariant("moonflower", CategoryPlant, TierMythical)},
		},
		CategoryTree: {
			Common: []Variant{testVariant("oak", CategoryTree, TierCommon)},
		},
		CategoryFood: {
			Common: []Variant{testVariant("carrot", CategoryFood, TierCommon)},
		},
	}
}

func quietLogger() *logging.Logger {
	return logging.NewWriterLogger("garden-test", io.Discard, logging.ERROR)
}

// newTestManager собирает менеджер со сценарным роллером и записывающим слушателем
func newTestManager(tiles []TileSpec, rules ...InteractionRule) (*PlacementManager, *recordingListener, *scriptedRoller) {
	roller := &scriptedRoller{}
	listener := &recordingListener{}
	selector := NewTierSelector(testPools(), roller)
	pm := NewPlacementManager(tiles, MustRuleTable(rules...), selector, Options{
		Listener: listener,
		Roller:   roller,
		Logger:   quietLogger(),
	})
	return pm, listener, roller
}

func hitAt(x, y float64) HitResult {
	return HitResult{Hit: true, Location: vec.Vec2Float{X: x, Y: y}}
}

// spawnAt сажает выбранную категорию в точку и возвращает ID
func spawnAt(pm *PlacementManager, x, y float64) ObjectID {
	id, ok := pm.SpawnAt(hitAt(x, y))
	if !ok {
		return NoObject
	}
	return id
}
