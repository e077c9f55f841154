package eventbus

import (
	"context"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
)

// SourceGarden источник событий движка сада
const SourceGarden = "garden"

// Типы событий движка
const (
	EventObjectSpawned   = "ObjectSpawned"
	EventObjectGrew      = "ObjectGrew"
	EventObjectFinalGrow = "ObjectFinalGrow"
	EventInteractionGrow = "InteractionGrow"
	EventInteraction     = "Interaction"
	EventQuotaSatisfied  = "QuotaSatisfied"
	EventAnimalSpawned   = "AnimalSpawned"
	EventAnimalRemoved   = "AnimalRemoved"
)

// Приоритеты: выполненная квота не должна теряться при переполнении буфера
const (
	priorityLow    = 1
	priorityNormal = 3
	priorityHigh   = 7
)

// QuotaSatisfiedPayload полезная нагрузка QuotaSatisfied
type QuotaSatisfiedPayload struct {
	Rule  string `json:"rule"`
	Count uint   `json:"count"`
}

// Publisher публикует уведомления движка в шину как Envelope.
// Реализует garden.Listener и не блокирует тик дольше timeout.
type Publisher struct {
	bus     EventBus
	logger  *logging.Logger
	timeout time.Duration
}

var _ garden.Listener = (*Publisher)(nil)

// NewPublisher создаёт публикатор поверх шины
func NewPublisher(bus EventBus, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{bus: bus, logger: logger, timeout: 50 * time.Millisecond}
}

func (p *Publisher) publish(eventType string, priority int, payload interface{}) {
	ev, err := NewEnvelope(SourceGarden, eventType, priority, payload)
	if err != nil {
		p.logger.Warn("Событие %s не сформировано: %v", eventType, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.bus.Publish(ctx, ev); err != nil {
		p.logger.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

func (p *Publisher) OnObjectSpawned(obj garden.ObjectInfo) {
	p.publish(EventObjectSpawned, priorityNormal, obj)
}

func (p *Publisher) OnGrew(obj garden.ObjectInfo) {
	p.publish(EventObjectGrew, priorityLow, obj)
}

func (p *Publisher) OnFinalGrow(obj garden.ObjectInfo) {
	p.publish(EventObjectFinalGrow, priorityNormal, obj)
}

func (p *Publisher) OnInteractionGrow(obj garden.ObjectInfo) {
	p.publish(EventInteractionGrow, priorityLow, obj)
}

func (p *Publisher) OnInteraction(ev garden.InteractionEvent) {
	p.publish(EventInteraction, priorityNormal, ev)
}

func (p *Publisher) OnQuotaSatisfied(rule string, count uint) {
	p.publish(EventQuotaSatisfied, priorityHigh, QuotaSatisfiedPayload{Rule: rule, Count: count})
}

func (p *Publisher) OnAnimalSpawned(animal garden.AnimalInfo) {
	p.publish(EventAnimalSpawned, priorityNormal, animal)
}

func (p *Publisher) OnAnimalRemoved(animal garden.AnimalInfo) {
	p.publish(EventAnimalRemoved, priorityNormal, animal)
}
