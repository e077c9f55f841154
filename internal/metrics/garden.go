package metrics

import (
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/prometheus/client_golang/prometheus"
)

// GardenMetrics Prometheus-метрики движка сада.
// Реализует garden.Listener; вызывается из потока симуляции.
//
// Метрики:
// * garden_objects_spawned_total{category,tier} counter
// * garden_growth_total{stage} counter
// * garden_interactions_total{rule,kind} counter
// * garden_quotas_satisfied_total counter
// * garden_animals gauge
// * garden_objects gauge
// * garden_tick_duration_seconds histogram
type GardenMetrics struct {
	objectsSpawned  *prometheus.CounterVec
	growth          *prometheus.CounterVec
	interactions    *prometheus.CounterVec
	quotasSatisfied prometheus.Counter
	animals         prometheus.Gauge
	objects         prometheus.Gauge
	tickDuration    prometheus.Histogram
}

var _ garden.Listener = (*GardenMetrics)(nil)

// NewGardenMetrics создаёт метрики и регистрирует их в reg (nil: дефолтный регистр).
func NewGardenMetrics(reg prometheus.Registerer) *GardenMetrics {
	m := &GardenMetrics{
		objectsSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garden",
			Name:      "objects_spawned_total",
			Help:      "Число высаженных объектов.",
		}, []string{"category", "tier"}),
		growth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garden",
			Name:      "growth_total",
			Help:      "Переходы объектов на следующую стадию роста.",
		}, []string{"stage"}),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garden",
			Name:      "interactions_total",
			Help:      "Сработавшие правила взаимодействия.",
		}, []string{"rule", "kind"}),
		quotasSatisfied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "garden",
			Name:      "quotas_satisfied_total",
			Help:      "Квоты, достигшие требуемого количества.",
		}),
		animals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "garden",
			Name:      "animals",
			Help:      "Текущее число отслеживаемых животных.",
		}),
		objects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "garden",
			Name:      "objects",
			Help:      "Текущее число живых объектов.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "garden",
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.objectsSpawned,
		m.growth,
		m.interactions,
		m.quotasSatisfied,
		m.animals,
		m.objects,
		m.tickDuration,
	)
	return m
}

// ObserveTick записывает длительность тика и число живых объектов
func (m *GardenMetrics) ObserveTick(d time.Duration, objects int) {
	m.tickDuration.Observe(d.Seconds())
	m.objects.Set(float64(objects))
}

func (m *GardenMetrics) OnObjectSpawned(obj garden.ObjectInfo) {
	m.objectsSpawned.WithLabelValues(string(obj.Variant.Category), obj.Variant.Tier.String()).Inc()
}

func (m *GardenMetrics) OnGrew(obj garden.ObjectInfo) {
	m.growth.WithLabelValues(obj.Stage).Inc()
}

func (m *GardenMetrics) OnFinalGrow(obj garden.ObjectInfo) {
	m.growth.WithLabelValues(obj.Stage).Inc()
}

func (m *GardenMetrics) OnInteractionGrow(garden.ObjectInfo) {}

func (m *GardenMetrics) OnInteraction(ev garden.InteractionEvent) {
	m.interactions.WithLabelValues(ev.Rule, ev.Kind.String()).Inc()
}

func (m *GardenMetrics) OnQuotaSatisfied(string, uint) {
	m.quotasSatisfied.Inc()
}

func (m *GardenMetrics) OnAnimalSpawned(garden.AnimalInfo) {
	m.animals.Inc()
}

func (m *GardenMetrics) OnAnimalRemoved(garden.AnimalInfo) {
	m.animals.Dec()
}
