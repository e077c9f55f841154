package eventbus

import (
	"fmt"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/config"
)

// Open создаёт шину событий по конфигурации
func Open(cfg config.EventBusConfig) (EventBus, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryBus(cfg.Buffer), nil
	case "jetstream":
		return NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд шины событий %q", cfg.Backend)
	}
}
