package garden

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierSelector_Boundary(t *testing.T) {
	s := NewTierSelector(testPools(), &scriptedRoller{})

	tier, ok := s.TierFor(CategoryPlant, 90)
	require.True(t, ok)
	assert.Equal(t, TierCommon, tier, "r = 90 при 90/10/0 даёт Common")

	tier, ok = s.TierFor(CategoryPlant, 100)
	require.True(t, ok)
	assert.Equal(t, TierFancy, tier, "r = 100 при 90/10/0 даёт Fancy")

	tier, ok = s.TierFor(CategoryPlant, 90.5)
	require.True(t, ok)
	assert.Equal(t, TierFancy, tier)
}

func TestTierSelector_Mythical(t *testing.T) {
	s := NewTierSelector(testPools(), &scriptedRoller{})
	require.NoError(t, s.SetProbabilities(CategoryPlant, TierProbabilities{Common: 50, Fancy: 20, Mythical: 30}))

	tier, _ := s.TierFor(CategoryPlant, 60)
	assert.Equal(t, TierFancy, tier, "Между Common и Mythical: Fancy")

	tier, _ = s.TierFor(CategoryPlant, 70)
	assert.Equal(t, TierMythical, tier, "r ≥ 100 − mythical даёт Mythical")
}

func TestTierSelector_EmptyPools(t *testing.T) {
	roller := &scriptedRoller{rolls: []float64{95}}
	s := NewTierSelector(testPools(), roller)

	_, ok := s.TierFor(CategoryTree, 95)
	assert.False(t, ok, "У деревьев нет Fancy, бросок мимо Common ничего не даёт")

	_, ok = s.Select(CategoryTree)
	assert.False(t, ok)

	require.NoError(t, s.SetProbabilities(CategoryTree, TierProbabilities{Common: 0, Fancy: 0, Mythical: 100}))
	_, ok = s.TierFor(CategoryTree, 50)
	assert.False(t, ok, "Пустой мифический пул не выбирается")
}

func TestTierSelector_SelectPicksFromPool(t *testing.T) {
	pools := testPools()
	plant := pools[CategoryPlant]
	plant.Common = append(plant.Common, testVariant("clover", CategoryPlant, TierCommon))
	pools[CategoryPlant] = plant

	roller := &scriptedRoller{rolls: []float64{10}, picks: []int{1}}
	s := NewTierSelector(pools, roller)

	v, ok := s.Select(CategoryPlant)
	require.True(t, ok)
	assert.Equal(t, "clover", v.Name, "Вариант выбирается по индексу из пула уровня")
}

func TestTierSelector_UnknownCategory(t *testing.T) {
	s := NewTierSelector(testPools(), &scriptedRoller{})
	err := s.SetProbabilities(Category("weed"), DefaultTierProbabilities())
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRandRoller_Range(t *testing.T) {
	r := NewRandRoller(42)
	for i := 0; i < 1000; i++ {
		v := r.Roll()
		assert.True(t, v >= 0 && v <= 100, "Бросок в пределах [0, 100]")
		idx := r.Pick(3)
		assert.True(t, idx >= 0 && idx < 3, "Индекс в пределах [0, n)")
	}
}
