package garden

import "github.com/anneomcl/TeamWolverine/internal/vec"

// AnimalID идентификатор отслеживаемого животного
type AnimalID uint64

// Creature контроллер животного. Поведение живёт снаружи движка;
// движку нужно знать только, пора ли убрать животное.
type Creature interface {
	IsMarkedForRemoval() bool
}

// CreatureSpawner создаёт животное во внешнем мире
type CreatureSpawner interface {
	SpawnCreature(id AnimalID, kind string, pos vec.Vec2Float) (Creature, bool)
}

// AnimalInfo снимок отслеживаемого животного
type AnimalInfo struct {
	ID       AnimalID      `json:"id"`
	Kind     string        `json:"kind"`
	Position vec.Vec2Float `json:"position"`
	Tile     TileID        `json:"tile"`
}

type trackedAnimal struct {
	info     AnimalInfo
	creature Creature
}
