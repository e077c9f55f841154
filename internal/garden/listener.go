package garden

import "github.com/anneomcl/TeamWolverine/internal/vec"

// HitResult результат запроса «куда указал игрок»
type HitResult struct {
	Hit      bool
	Location vec.Vec2Float
}

// Instantiator создаёт внешнее представление объекта. false: создать не удалось.
type Instantiator interface {
	Instantiate(id ObjectID, variant Variant, pos vec.Vec2Float) bool
}

// InstantiatorFunc адаптер функции к Instantiator
type InstantiatorFunc func(id ObjectID, variant Variant, pos vec.Vec2Float) bool

func (f InstantiatorFunc) Instantiate(id ObjectID, variant Variant, pos vec.Vec2Float) bool {
	return f(id, variant, pos)
}

// HeadlessInstantiator всегда успешно «создаёт» объект; для сервера без визуала
type HeadlessInstantiator struct{}

func (HeadlessInstantiator) Instantiate(ObjectID, Variant, vec.Vec2Float) bool { return true }

// InteractionEvent сработавшее правило; соответствует запросу эффекта у визуального слоя
type InteractionEvent struct {
	Rule     string        `json:"rule"`
	Kind     RuleKind      `json:"kind"`
	Result   string        `json:"result"`
	Position vec.Vec2Float `json:"position"`
	Object   ObjectID      `json:"object"`
	Neighbor ObjectID      `json:"neighbor,omitempty"`
	Tile     TileID        `json:"tile"`
	Count    uint          `json:"count"`
}

// Listener получает уведомления движка. Вызывается синхронно внутри тика
// или операции посадки, поэтому реализации не должны блокироваться.
type Listener interface {
	OnObjectSpawned(obj ObjectInfo)
	OnGrew(obj ObjectInfo)
	OnFinalGrow(obj ObjectInfo)
	OnInteractionGrow(obj ObjectInfo)
	OnInteraction(ev InteractionEvent)
	OnQuotaSatisfied(rule string, count uint)
	OnAnimalSpawned(animal AnimalInfo)
	OnAnimalRemoved(animal AnimalInfo)
}

// NopListener пустая реализация; удобно встраивать
type NopListener struct{}

func (NopListener) OnObjectSpawned(ObjectInfo) {}
func (NopListener) OnGrew(ObjectInfo) {}
func (NopListener) OnFinalGrow(ObjectInfo) {}
func (NopListener) OnInteractionGrow(ObjectInfo) {}
func (NopListener) OnInteraction(InteractionEvent) {}
func (NopListener) OnQuotaSatisfied(string, uint) {}
func (NopListener) OnAnimalSpawned(AnimalInfo) {}
func (NopListener) OnAnimalRemoved(AnimalInfo) {}

// Listeners рассылает уведомления всем слушателям по порядку
type Listeners []Listener

func (ls Listeners) OnObjectSpawned(obj ObjectInfo) {
	for _, l := range ls {
		l.OnObjectSpawned(obj)
	}
}

func (ls Listeners) OnGrew(obj ObjectInfo) {
	for _, l := range ls {
		l.OnGrew(obj)
	}
}

func (ls Listeners) OnFinalGrow(obj ObjectInfo) {
	for _, l := range ls {
		l.OnFinalGrow(obj)
	}
}

func (ls Listeners) OnInteractionGrow(obj ObjectInfo) {
	for _, l := range ls {
		l.OnInteractionGrow(obj)
	}
}

func (ls Listeners) OnInteraction(ev InteractionEvent) {
	for _, l := range ls {
		l.OnInteraction(ev)
	}
}

func (ls Listeners) OnQuotaSatisfied(rule string, count uint) {
	for _, l := range ls {
		l.OnQuotaSatisfied(rule, count)
	}
}

func (ls Listeners) OnAnimalSpawned(animal AnimalInfo) {
	for _, l := range ls {
		l.OnAnimalSpawned(animal)
	}
}

func (ls Listeners) OnAnimalRemoved(animal AnimalInfo) {
	for _, l := range ls {
		l.OnAnimalRemoved(animal)
	}
}
