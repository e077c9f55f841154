package garden

// InteractionEvaluator раз в тик проверяет все правила для всех живых объектов.
// Каждая пара (объект, направление) и (объект, тайл) срабатывает не более одного раза.
type InteractionEvaluator struct {
	rules    *RuleTable
	quotas   *QuotaCounters
	arena    *objectArena
	tiles    []*Tile
	listener Listener
}

// Evaluate обходит объекты в порядке добавления и правила в порядке таблицы.
// Возвращает число сработавших правил.
func (e *InteractionEvaluator) Evaluate() int {
	fired := 0
	e.arena.each(func(o *PlacedObject) {
		for _, rule := range e.rules.Rules() {
			switch rule.Kind {
			case ObjectObject:
				fired += e.evaluateNeighbors(o, rule)
			case ObjectTerrain:
				if e.evaluateTile(o, rule) {
					fired++
				}
			}
		}
	})
	return fired
}

func (e *InteractionEvaluator) evaluateNeighbors(o *PlacedObject, rule *InteractionRule) int {
	fired := 0
	for _, d := range Directions {
		if o.HasInteractedWithNeighbor(d) {
			continue
		}
		neighbor := e.arena.get(o.neighbors[d])
		if neighbor == nil {
			continue
		}
		if !rule.Configured() || !rule.Matches(o.Category().Tag(), neighbor.Category().Tag()) {
			continue
		}

		o.markInteractedWithNeighbor(d)
		neighbor.markInteractedWithNeighbor(d.Opposite())

		e.listener.OnInteractionGrow(o.Info())
		e.listener.OnInteractionGrow(neighbor.Info())

		e.fire(rule, InteractionEvent{
			Rule:     rule.Name,
			Kind:     ObjectObject,
			Result:   rule.Result,
			Position: o.Position,
			Object:   o.ID,
			Neighbor: neighbor.ID,
			Tile:     o.Tile,
		})
		fired++
	}
	return fired
}

func (e *InteractionEvaluator) evaluateTile(o *PlacedObject, rule *InteractionRule) bool {
	if o.HasInteractedWithTile() {
		return false
	}
	tile := e.tile(o.Tile)
	if tile == nil {
		return false
	}
	if !rule.Configured() || !rule.Matches(o.Category().Tag(), tile.Type.Tag()) {
		return false
	}

	o.markInteractedWithTile()
	tile.markInteracted()

	e.listener.OnInteractionGrow(o.Info())

	e.fire(rule, InteractionEvent{
		Rule:     rule.Name,
		Kind:     ObjectTerrain,
		Result:   rule.Result,
		Position: o.Position,
		Object:   o.ID,
		Tile:     o.Tile,
	})
	return true
}

func (e *InteractionEvaluator) fire(rule *InteractionRule, ev InteractionEvent) {
	count, justSatisfied := e.quotas.increment(rule)
	ev.Count = count

	e.listener.OnInteraction(ev)
	if justSatisfied {
		e.listener.OnQuotaSatisfied(rule.Name, count)
	}
}

func (e *InteractionEvaluator) tile(id TileID) *Tile {
	if id < 0 || int(id) >= len(e.tiles) {
		return nil
	}
	return e.tiles[id]
}
