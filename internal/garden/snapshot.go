package garden

// Snapshot состояние движка только для чтения
type Snapshot struct {
	Tick          uint64                         `json:"tick"`
	Selected      Category                       `json:"selected_category"`
	Tiles         []TileInfo                     `json:"tiles"`
	Objects       []ObjectInfo                   `json:"objects"`
	Animals       []AnimalInfo                   `json:"animals"`
	Quotas        []QuotaInfo                    `json:"quotas"`
	Probabilities map[Category]TierProbabilities `json:"probabilities"`
}

// Snapshot собирает снимок текущего состояния
func (pm *PlacementManager) Snapshot() Snapshot {
	s := Snapshot{
		Tick:          pm.tick,
		Selected:      pm.selected,
		Tiles:         make([]TileInfo, 0, len(pm.tiles)),
		Objects:       make([]ObjectInfo, 0, pm.arena.len()),
		Animals:       pm.Animals(),
		Quotas:        pm.quotas.infos(),
		Probabilities: make(map[Category]TierProbabilities, len(Categories)),
	}

	for _, tile := range pm.tiles {
		s.Tiles = append(s.Tiles, tile.Info())
	}
	pm.arena.each(func(o *PlacedObject) {
		s.Objects = append(s.Objects, o.Info())
	})
	for _, c := range Categories {
		s.Probabilities[c] = pm.selector.Probabilities(c)
	}
	return s
}

// OccupiedTiles число занятых тайлов
func (s Snapshot) OccupiedTiles() int {
	n := 0
	for _, tile := range s.Tiles {
		if tile.Occupied {
			n++
		}
	}
	return n
}
