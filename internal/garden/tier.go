package garden

import (
	"fmt"
	"math/rand"
)

// TierProbabilities вероятности уровней редкости в процентах.
// Сумма не обязана равняться 100.
type TierProbabilities struct {
	Common   uint8 `json:"common" yaml:"common"`
	Fancy    uint8 `json:"fancy" yaml:"fancy"`
	Mythical uint8 `json:"mythical" yaml:"mythical"`
}

// DefaultTierProbabilities 90/10/0
func DefaultTierProbabilities() TierProbabilities {
	return TierProbabilities{Common: 90, Fancy: 10, Mythical: 0}
}

// TierPools варианты категории по уровням редкости
type TierPools struct {
	Common   []Variant
	Fancy    []Variant
	Mythical []Variant
}

// Pool возвращает пул уровня
func (p TierPools) Pool(tier SpawnTier) []Variant {
	switch tier {
	case TierCommon:
		return p.Common
	case TierFancy:
		return p.Fancy
	case TierMythical:
		return p.Mythical
	}
	return nil
}

// Roller источник случайности для выбора варианта
type Roller interface {
	// Roll возвращает равномерное значение в [0, 100]
	Roll() float64
	// Pick возвращает равномерный индекс в [0, n)
	Pick(n int) int
}

type randRoller struct {
	rng *rand.Rand
}

// NewRandRoller создаёт Roller поверх math/rand с указанным сидом
func NewRandRoller(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Roll() float64 { return r.rng.Float64() * 100 }

func (r *randRoller) Pick(n int) int { return r.rng.Intn(n) }

// TierSelector выбирает уровень редкости и вариант для категории
type TierSelector struct {
	pools         map[Category]TierPools
	probabilities map[Category]TierProbabilities
	roller        Roller
}

// NewTierSelector создаёт селектор; все категории получают вероятности по умолчанию
func NewTierSelector(pools map[Category]TierPools, roller Roller) *TierSelector {
	s := &TierSelector{
		pools:         make(map[Category]TierPools, len(Categories)),
		probabilities: make(map[Category]TierProbabilities, len(Categories)),
		roller:        roller,
	}
	for _, c := range Categories {
		s.probabilities[c] = DefaultTierProbabilities()
	}
	for c, p := range pools {
		s.pools[c] = p
	}
	return s
}

// SetProbabilities меняет вероятности уровней для категории
func (s *TierSelector) SetProbabilities(c Category, p TierProbabilities) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	s.probabilities[c] = p
	return nil
}

// Probabilities текущие вероятности категории
func (s *TierSelector) Probabilities(c Category) TierProbabilities {
	return s.probabilities[c]
}

// TierFor решает, какой уровень даёт бросок r. Проверки Common и Mythical
// независимы: Mythical достижим только при mythical > 0 и непустом пуле,
// иначе бросок уходит в Fancy, если там есть варианты.
func (s *TierSelector) TierFor(c Category, r float64) (SpawnTier, bool) {
	p := s.probabilities[c]
	pools := s.pools[c]

	if r <= float64(p.Common) {
		return TierCommon, true
	}
	if p.Mythical > 0 && r >= 100-float64(p.Mythical) && len(pools.Mythical) > 0 {
		return TierMythical, true
	}
	if len(pools.Fancy) > 0 {
		return TierFancy, true
	}
	return TierCommon, false
}

// Select бросает уровень и равномерно выбирает вариант из его пула
func (s *TierSelector) Select(c Category) (Variant, bool) {
	tier, ok := s.TierFor(c, s.roller.Roll())
	if !ok {
		return Variant{}, false
	}

	pool := s.pools[c].Pool(tier)
	if len(pool) == 0 {
		return Variant{}, false
	}
	return pool[s.roller.Pick(len(pool))], true
}
