package world

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/metrics"
	"github.com/anneomcl/TeamWolverine/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrStopped симуляция остановлена или ещё не запущена
	ErrStopped = errors.New("симуляция остановлена")
	// ErrExternalCreature животным управляет внешний контроллер
	ErrExternalCreature = errors.New("животное управляется внешним контроллером")
)

const tracerName = "github.com/anneomcl/TeamWolverine/internal/world"

// Options настройки цикла симуляции
type Options struct {
	TickInterval     time.Duration // Период тика; по умолчанию 50мс
	AutosaveInterval time.Duration // 0: сохранение только при остановке
	Store            storage.ProgressStore
	Metrics          *metrics.GardenMetrics
	Logger           *logging.Logger
	IOTimeout        time.Duration // Таймаут операций хранилища
}

type command struct {
	ctx  context.Context
	fn   func(pm *garden.PlacementManager) error
	done chan error
}

// Simulation единственный владелец PlacementManager. Одна горутина
// выполняет тики, команды из очереди и автосохранение.
type Simulation struct {
	pm       *garden.PlacementManager
	recorder *discoveryRecorder
	opts     Options
	tracer   trace.Tracer
	logger   *logging.Logger

	commands chan command
	started  chan struct{}
	stopped  chan struct{}
	runOnce  sync.Once
}

// NewSimulation создаёт менеджер размещения и оборачивает его циклом симуляции.
// Слушатели из gardenOpts сохраняются; к ним добавляются журнал открытий и метрики.
func NewSimulation(tiles []garden.TileSpec, rules *garden.RuleTable, selector *garden.TierSelector, gardenOpts garden.Options, opts Options) *Simulation {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 50 * time.Millisecond
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = 5 * time.Second
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryProgressStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	recorder := &discoveryRecorder{}
	listeners := garden.Listeners{recorder}
	if gardenOpts.Listener != nil {
		listeners = append(listeners, gardenOpts.Listener)
	}
	if opts.Metrics != nil {
		listeners = append(listeners, opts.Metrics)
	}
	gardenOpts.Listener = listeners

	if gardenOpts.CreatureSpawner == nil {
		gardenOpts.CreatureSpawner = NewHerd()
	}
	if gardenOpts.Logger == nil {
		gardenOpts.Logger = opts.Logger
	}

	return &Simulation{
		pm:       garden.NewPlacementManager(tiles, rules, selector, gardenOpts),
		recorder: recorder,
		opts:     opts,
		tracer:   otel.Tracer(tracerName),
		logger:   opts.Logger,
		commands: make(chan command, 64),
		started:  make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run восстанавливает прогресс и крутит цикл до отмены ctx. Блокирующий.
func (s *Simulation) Run(ctx context.Context) error {
	err := ErrStopped
	s.runOnce.Do(func() {
		err = s.run(ctx)
	})
	return err
}

func (s *Simulation) run(ctx context.Context) error {
	defer close(s.stopped)

	if err := s.restore(ctx); err != nil {
		close(s.started)
		return err
	}
	close(s.started)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	var autosave <-chan time.Time
	if s.opts.AutosaveInterval > 0 {
		autosaveTicker := time.NewTicker(s.opts.AutosaveInterval)
		defer autosaveTicker.Stop()
		autosave = autosaveTicker.C
	}

	dt := s.opts.TickInterval.Seconds()
	s.logger.Info("🌍 Симуляция запущена: тик %v, тайлов %d", s.opts.TickInterval, s.pm.TileCount())

	for {
		select {
		case <-ctx.Done():
			s.drainCommands()
			if err := s.save(context.Background()); err != nil {
				s.logger.Error("Финальное сохранение не удалось: %v", err)
			}
			s.logger.Info("🛑 Симуляция остановлена на тике %d", s.pm.TickCount())
			return nil

		case <-ticker.C:
			s.tick(ctx, dt)

		case cmd := <-s.commands:
			s.execute(cmd)

		case <-autosave:
			if err := s.save(ctx); err != nil {
				s.logger.Warn("Автосохранение не удалось: %v", err)
			}
		}
	}
}

// restore поднимает счётчики квот из хранилища
func (s *Simulation) restore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.IOTimeout)
	defer cancel()

	saved, err := s.opts.Store.LoadQuotas(ctx)
	if err != nil {
		return fmt.Errorf("загрузка прогресса: %w", err)
	}
	s.pm.RestoreQuotas(saved)
	return nil
}

func (s *Simulation) tick(ctx context.Context, dt float64) {
	_, span := s.tracer.Start(ctx, "garden.tick")
	defer span.End()

	start := time.Now()
	s.pm.Tick(dt)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int64("garden.tick", int64(s.pm.TickCount())),
		attribute.Int("garden.objects", s.pm.ObjectCount()),
		attribute.Int("garden.animals", s.pm.AnimalCount()),
	)
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveTick(elapsed, s.pm.ObjectCount())
	}

	s.recordDiscoveries(ctx)
}

func (s *Simulation) execute(cmd command) {
	if err := cmd.ctx.Err(); err != nil {
		cmd.done <- err
		return
	}

	_, span := s.tracer.Start(cmd.ctx, "garden.command")
	err := cmd.fn(s.pm)
	if err != nil {
		span.RecordError(err)
	}
	span.End()

	s.recordDiscoveries(cmd.ctx)
	cmd.done <- err
}

// drainCommands отклоняет команды, оставшиеся в очереди при остановке
func (s *Simulation) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd.done <- ErrStopped
		default:
			return
		}
	}
}

func (s *Simulation) recordDiscoveries(ctx context.Context) {
	variants := s.recorder.drain()
	if len(variants) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.IOTimeout)
	defer cancel()

	now := time.Now()
	for _, v := range variants {
		first, err := s.opts.Store.RecordDiscovery(ctx, v, now)
		if err != nil {
			s.logger.Warn("Журнал открытий: %s не записан: %v", v.Name, err)
			continue
		}
		if first {
			s.logger.Info("📖 Новое открытие: %s (%s, %s)", v.Name, v.Category, v.Tier)
		}
	}
}

func (s *Simulation) save(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.IOTimeout)
	defer cancel()

	if err := s.opts.Store.SaveQuotas(ctx, s.pm.QuotaCounts()); err != nil {
		return fmt.Errorf("сохранение квот: %w", err)
	}
	s.logger.Debug("💾 Прогресс сохранён на тике %d", s.pm.TickCount())
	return nil
}

// Do выполняет fn в потоке симуляции между тиками и ждёт результата.
func (s *Simulation) Do(ctx context.Context, fn func(pm *garden.PlacementManager) error) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}

	done := make(chan error, 1)
	select {
	case s.commands <- command{ctx: ctx, fn: fn, done: done}:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-s.stopped:
		// Команда могла успеть выполниться до остановки
		select {
		case err := <-done:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot снимок состояния движка
func (s *Simulation) Snapshot(ctx context.Context) (garden.Snapshot, error) {
	var snapshot garden.Snapshot
	err := s.Do(ctx, func(pm *garden.PlacementManager) error {
		snapshot = pm.Snapshot()
		return nil
	})
	return snapshot, err
}

// RemoveAnimal помечает животное к удалению; движок уберёт его на следующем тике
func (s *Simulation) RemoveAnimal(ctx context.Context, id garden.AnimalID) error {
	return s.Do(ctx, func(pm *garden.PlacementManager) error {
		creature, err := pm.Creature(id)
		if err != nil {
			return err
		}
		animal, ok := creature.(*Animal)
		if !ok {
			return fmt.Errorf("%w: %d", ErrExternalCreature, id)
		}
		animal.MarkForRemoval()
		return nil
	})
}

// Journal журнал открытий из хранилища
func (s *Simulation) Journal(ctx context.Context) ([]storage.JournalEntry, error) {
	return s.opts.Store.Journal(ctx)
}

// Started закрывается, когда прогресс восстановлен и цикл запущен
func (s *Simulation) Started() <-chan struct{} { return s.started }

// Stopped закрывается после завершения Run
func (s *Simulation) Stopped() <-chan struct{} { return s.stopped }
