package world

import (
	"sync/atomic"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/vec"
)

// Animal безголовое животное сервера. Поведение задаёт внешний клиент;
// сервер знает только, пора ли его убрать.
type Animal struct {
	ID     garden.AnimalID
	Kind   string
	marked atomic.Bool
}

// MarkForRemoval просит движок убрать животное на следующем тике
func (a *Animal) MarkForRemoval() { a.marked.Store(true) }

// IsMarkedForRemoval реализует garden.Creature
func (a *Animal) IsMarkedForRemoval() bool { return a.marked.Load() }

// Herd создаёт безголовых животных для движка
type Herd struct {
	kinds map[string]bool
}

var _ garden.CreatureSpawner = (*Herd)(nil)

// NewHerd создаёт спавнер; пустой список видов разрешает любой вид
func NewHerd(kinds ...string) *Herd {
	h := &Herd{kinds: make(map[string]bool, len(kinds))}
	for _, kind := range kinds {
		h.kinds[kind] = true
	}
	return h
}

func (h *Herd) SpawnCreature(id garden.AnimalID, kind string, pos vec.Vec2Float) (garden.Creature, bool) {
	if kind == "" {
		return nil, false
	}
	if len(h.kinds) > 0 && !h.kinds[kind] {
		return nil, false
	}
	return &Animal{ID: id, Kind: kind}, true
}
