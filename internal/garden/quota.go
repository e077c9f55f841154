package garden

import "fmt"

// QuotaCounters счётчики срабатываний по именам правил
type QuotaCounters struct {
	rules  *RuleTable
	counts map[string]uint
}

func newQuotaCounters(rules *RuleTable) *QuotaCounters {
	q := &QuotaCounters{
		rules:  rules,
		counts: make(map[string]uint, rules.Len()),
	}
	for _, rule := range rules.Rules() {
		q.counts[rule.Name] = 0
	}
	return q
}

// increment увеличивает счётчик на 1. Второе значение true ровно в тот
// момент, когда счётчик впервые достиг требуемого количества.
func (q *QuotaCounters) increment(rule *InteractionRule) (uint, bool) {
	before := q.counts[rule.Name]
	after := before + 1
	q.counts[rule.Name] = after
	return after, before < rule.RequiredQuantity && after >= rule.RequiredQuantity
}

// Count текущее значение счётчика
func (q *QuotaCounters) Count(name string) uint { return q.counts[name] }

// Satisfied выполнена ли квота. Неизвестное имя: ошибка программиста.
func (q *QuotaCounters) Satisfied(name string) bool {
	rule, ok := q.rules.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("garden: квота для неизвестного правила %q", name))
	}
	return q.counts[name] >= rule.RequiredQuantity
}

// Progress возвращает счётчик и требование, для неизвестного имени ErrUnknownRule
func (q *QuotaCounters) Progress(name string) (uint, uint, error) {
	rule, ok := q.rules.Lookup(name)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return q.counts[name], rule.RequiredQuantity, nil
}

// restore поднимает счётчики до сохранённых значений, никогда не уменьшая их
func (q *QuotaCounters) restore(saved map[string]uint) int {
	restored := 0
	for name, count := range saved {
		current, ok := q.counts[name]
		if !ok || count <= current {
			continue
		}
		q.counts[name] = count
		restored++
	}
	return restored
}

// QuotaInfo снимок прогресса квоты
type QuotaInfo struct {
	Rule      string `json:"rule"`
	Count     uint   `json:"count"`
	Required  uint   `json:"required"`
	Satisfied bool   `json:"satisfied"`
}

func (q *QuotaCounters) infos() []QuotaInfo {
	result := make([]QuotaInfo, 0, q.rules.Len())
	for _, rule := range q.rules.Rules() {
		count := q.counts[rule.Name]
		result = append(result, QuotaInfo{
			Rule:      rule.Name,
			Count:     count,
			Required:  rule.RequiredQuantity,
			Satisfied: count >= rule.RequiredQuantity,
		})
	}
	return result
}

// Counts копия всех счётчиков
func (q *QuotaCounters) Counts() map[string]uint {
	result := make(map[string]uint, len(q.counts))
	for name, count := range q.counts {
		result[name] = count
	}
	return result
}
