package garden

import (
	"fmt"
	"math"

	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/vec"
)

// Options внешние зависимости и настройки менеджера
type Options struct {
	AdjacencyThreshold float64  // Порог расстояния до соседа; 0: DefaultAdjacencyThreshold
	DefaultCategory    Category // Категория, выбранная при старте; пусто: Plant

	Instantiator    Instantiator
	CreatureSpawner CreatureSpawner
	Listener        Listener
	Roller          Roller // Используется для выбора тайла под животное
	Logger          *logging.Logger
}

// PlacementManager владеет тайлами, ареной объектов, счётчиками квот и
// животными. Не потокобезопасен: все вызовы идут из одного потока симуляции.
type PlacementManager struct {
	tiles     []*Tile
	arena     *objectArena
	graph     *NeighborGraph
	rules     *RuleTable
	quotas    *QuotaCounters
	evaluator *InteractionEvaluator
	selector  *TierSelector
	selected  Category

	animals      []*trackedAnimal
	nextAnimalID AnimalID

	instantiator Instantiator
	spawner      CreatureSpawner
	listener     Listener
	roller       Roller
	logger       *logging.Logger

	tick uint64
}

// NewPlacementManager создаёт менеджер над набором тайлов уровня
func NewPlacementManager(tiles []TileSpec, rules *RuleTable, selector *TierSelector, opts Options) *PlacementManager {
	if rules == nil {
		rules = MustRuleTable()
	}
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = CategoryPlant
	}
	if opts.Instantiator == nil {
		opts.Instantiator = HeadlessInstantiator{}
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}
	if opts.Roller == nil {
		opts.Roller = NewRandRoller(1)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if selector == nil {
		selector = NewTierSelector(nil, opts.Roller)
	}

	pm := &PlacementManager{
		tiles:        make([]*Tile, 0, len(tiles)),
		arena:        newObjectArena(),
		rules:        rules,
		quotas:       newQuotaCounters(rules),
		selector:     selector,
		selected:     opts.DefaultCategory,
		nextAnimalID: 1,
		instantiator: opts.Instantiator,
		spawner:      opts.CreatureSpawner,
		listener:     opts.Listener,
		roller:       opts.Roller,
		logger:       opts.Logger,
	}
	for i, spec := range tiles {
		pm.tiles = append(pm.tiles, newTile(TileID(i), spec))
	}
	pm.graph = newNeighborGraph(pm.arena, opts.AdjacencyThreshold)
	pm.evaluator = &InteractionEvaluator{
		rules:    rules,
		quotas:   pm.quotas,
		arena:    pm.arena,
		tiles:    pm.tiles,
		listener: pm.listener,
	}
	return pm
}

// Tick один шаг симуляции: уборка животных, правила, рост
func (pm *PlacementManager) Tick(dt float64) {
	pm.tick++

	pm.collectRemovedAnimals()

	if fired := pm.evaluator.Evaluate(); fired > 0 {
		pm.logger.Debug("Тик %d: сработало правил: %d", pm.tick, fired)
	}

	pm.arena.each(func(o *PlacedObject) {
		switch o.advance(dt) {
		case growthGrew:
			pm.listener.OnGrew(o.Info())
		case growthFinal:
			pm.listener.OnFinalGrow(o.Info())
		}
	})
}

// TickCount количество выполненных тиков
func (pm *PlacementManager) TickCount() uint64 { return pm.tick }

// SelectCategory выбирает категорию для следующих посадок
func (pm *PlacementManager) SelectCategory(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	pm.selected = c
	return nil
}

// SelectedCategory текущая выбранная категория
func (pm *PlacementManager) SelectedCategory() Category { return pm.selected }

// ChangeSpawnProbabilities меняет вероятности уровней редкости категории
func (pm *PlacementManager) ChangeSpawnProbabilities(c Category, common, fancy, mythical uint8) error {
	p := TierProbabilities{Common: common, Fancy: fancy, Mythical: mythical}
	if err := pm.selector.SetProbabilities(c, p); err != nil {
		return err
	}
	if sum := int(common) + int(fancy) + int(mythical); sum != 100 {
		pm.logger.Warn("Вероятности %s в сумме дают %d%%", c, sum)
	}
	return nil
}

// SpawnProbabilities текущие вероятности категории
func (pm *PlacementManager) SpawnProbabilities(c Category) TierProbabilities {
	return pm.selector.Probabilities(c)
}

// SpawnAt высаживает вариант выбранной категории на ближайший к точке тайл.
// Промах, пустой пул, непроходимый или занятый тайл: тихий no-op.
func (pm *PlacementManager) SpawnAt(hit HitResult) (ObjectID, bool) {
	variant, ok := pm.selector.Select(pm.selected)
	if !ok {
		pm.logger.Debug("Нет доступного варианта для категории %s", pm.selected)
		return NoObject, false
	}

	if !hit.Hit {
		return NoObject, false
	}

	tile := pm.closestTile(hit.Location)
	if tile == nil {
		return NoObject, false
	}
	if !tile.CanPlace() {
		pm.logger.Debug("Тайл %d недоступен для посадки (traversable=%t, occupied=%t)",
			tile.ID, tile.Traversable, tile.IsOccupied())
		return NoObject, false
	}

	id := pm.arena.allocate()
	if !pm.instantiator.Instantiate(id, variant, tile.Position) {
		pm.logger.Warn("Не удалось создать %s на тайле %d", variant.Name, tile.ID)
		return NoObject, false
	}

	obj := newPlacedObject(id, variant, tile.Position)
	pm.arena.add(obj)

	neighbors := pm.graph.Build(obj)
	obj.onSpawn(tile.ID, neighbors)
	tile.markOccupied()

	pm.logger.Info("🌱 Посажен %s (%s, %s) на тайл %d, соседей: %d",
		variant.Name, variant.Category, variant.Tier, tile.ID, len(neighbors))
	pm.listener.OnObjectSpawned(obj.Info())

	return id, true
}

// closestTile тайл с центром, ближайшим к точке; при равенстве: первый
func (pm *PlacementManager) closestTile(pos vec.Vec2Float) *Tile {
	var closest *Tile
	closestDistance := math.Inf(1)

	for _, tile := range pm.tiles {
		distance := tile.Position.DistanceTo(pos)
		if distance < closestDistance {
			closestDistance = distance
			closest = tile
		}
	}
	return closest
}

// HasSatisfiedQuota выполнена ли квота правила. Запрос неизвестного
// правила: ошибка программиста и приводит к панике.
func (pm *PlacementManager) HasSatisfiedQuota(ruleName string) bool {
	return pm.quotas.Satisfied(ruleName)
}

// QuotaProgress счётчик и требование правила; ErrUnknownRule для неизвестного имени
func (pm *PlacementManager) QuotaProgress(ruleName string) (uint, uint, error) {
	return pm.quotas.Progress(ruleName)
}

// QuotaCounts копия всех счётчиков квот
func (pm *PlacementManager) QuotaCounts() map[string]uint { return pm.quotas.Counts() }

// RestoreQuotas поднимает счётчики до сохранённых значений
func (pm *PlacementManager) RestoreQuotas(saved map[string]uint) {
	if n := pm.quotas.restore(saved); n > 0 {
		pm.logger.Info("Восстановлено счётчиков квот: %d", n)
	}
}

// Rules таблица правил
func (pm *PlacementManager) Rules() *RuleTable { return pm.rules }

// RemoveObject убирает объект из симуляции и обнуляет ссылки соседей на него.
// Тайл остаётся занятым.
func (pm *PlacementManager) RemoveObject(id ObjectID) error {
	if !pm.arena.remove(id) {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	pm.logger.Debug("Объект %d удалён", id)
	return nil
}

// Object снимок объекта по ID
func (pm *PlacementManager) Object(id ObjectID) (ObjectInfo, bool) {
	o := pm.arena.get(id)
	if o == nil {
		return ObjectInfo{}, false
	}
	return o.Info(), true
}

// ObjectCount число живых объектов
func (pm *PlacementManager) ObjectCount() int { return pm.arena.len() }

// Tile снимок тайла по ID
func (pm *PlacementManager) Tile(id TileID) (TileInfo, bool) {
	if id < 0 || int(id) >= len(pm.tiles) {
		return TileInfo{}, false
	}
	return pm.tiles[id].Info(), true
}

// TileCount число тайлов уровня
func (pm *PlacementManager) TileCount() int { return len(pm.tiles) }

// VerifyGraph проверяет симметрию графа соседей
func (pm *PlacementManager) VerifyGraph() error { return pm.graph.Verify() }

// SpawnAnimal выпускает животное на случайный проходимый тайл
func (pm *PlacementManager) SpawnAnimal(kind string) (AnimalID, bool) {
	if pm.spawner == nil {
		return 0, false
	}

	available := make([]*Tile, 0, len(pm.tiles))
	for _, tile := range pm.tiles {
		if tile.Traversable {
			available = append(available, tile)
		}
	}
	if len(available) == 0 {
		return 0, false
	}

	tile := available[pm.roller.Pick(len(available))]
	id := pm.nextAnimalID

	creature, ok := pm.spawner.SpawnCreature(id, kind, tile.Position)
	if !ok || creature == nil {
		return 0, false
	}
	pm.nextAnimalID++

	animal := &trackedAnimal{
		info:     AnimalInfo{ID: id, Kind: kind, Position: tile.Position, Tile: tile.ID},
		creature: creature,
	}
	pm.animals = append(pm.animals, animal)

	pm.logger.Info("🐾 Животное %s #%d на тайле %d", kind, id, tile.ID)
	pm.listener.OnAnimalSpawned(animal.info)
	return id, true
}

// AnimalCount число отслеживаемых животных
func (pm *PlacementManager) AnimalCount() int { return len(pm.animals) }

// collectRemovedAnimals убирает животных, чей контроллер просит удаления
func (pm *PlacementManager) collectRemovedAnimals() {
	kept := pm.animals[:0]
	for _, animal := range pm.animals {
		if animal.creature.IsMarkedForRemoval() {
			pm.logger.Debug("Животное #%d убрано", animal.info.ID)
			pm.listener.OnAnimalRemoved(animal.info)
			continue
		}
		kept = append(kept, animal)
	}
	for i := len(kept); i < len(pm.animals); i++ {
		pm.animals[i] = nil
	}
	pm.animals = kept
}

// Animals снимки отслеживаемых животных
func (pm *PlacementManager) Animals() []AnimalInfo {
	result := make([]AnimalInfo, 0, len(pm.animals))
	for _, animal := range pm.animals {
		result = append(result, animal.info)
	}
	return result
}

// Creature контроллер животного по ID
func (pm *PlacementManager) Creature(id AnimalID) (Creature, error) {
	for _, animal := range pm.animals {
		if animal.info.ID == id {
			return animal.creature, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownAnimal, id)
}
