package world

import "github.com/anneomcl/TeamWolverine/internal/garden"

// discoveryRecorder собирает посаженные варианты за тик или команду.
// Вызывается только из потока симуляции.
type discoveryRecorder struct {
	garden.NopListener
	pending []garden.Variant
}

func (r *discoveryRecorder) OnObjectSpawned(obj garden.ObjectInfo) {
	r.pending = append(r.pending, obj.Variant)
}

func (r *discoveryRecorder) drain() []garden.Variant {
	if len(r.pending) == 0 {
		return nil
	}
	result := r.pending
	r.pending = nil
	return result
}
