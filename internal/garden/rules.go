package garden

import "fmt"

// RuleKind вид правила взаимодействия
type RuleKind uint8

const (
	ObjectObject RuleKind = iota
	ObjectTerrain
)

func (k RuleKind) String() string {
	if k == ObjectTerrain {
		return "object_terrain"
	}
	return "object_object"
}

// ParseRuleKind разбирает вид правила из конфигурации
func ParseRuleKind(s string) (RuleKind, error) {
	switch s {
	case "object_object", "object":
		return ObjectObject, nil
	case "object_terrain", "terrain":
		return ObjectTerrain, nil
	}
	return 0, fmt.Errorf("неизвестный вид правила %q", s)
}

// InteractionRule сопоставляет пару типов с именованным результатом.
// Порядок TypeA/TypeB не важен.
type InteractionRule struct {
	Name             string
	Kind             RuleKind
	TypeA            TypeTag
	TypeB            TypeTag
	Result           string // Дескриптор эффекта; пустой: правило не настроено
	RequiredQuantity uint
}

// Configured есть ли у правила эффект результата
func (r *InteractionRule) Configured() bool { return r.Result != "" }

// Matches проверяет совпадение неупорядоченной пары {a, b} с {TypeA, TypeB}
func (r *InteractionRule) Matches(a, b TypeTag) bool {
	return (a == r.TypeA && b == r.TypeB) || (a == r.TypeB && b == r.TypeA)
}

// RuleTable неизменяемый набор правил в порядке загрузки
type RuleTable struct {
	rules  []*InteractionRule
	byName map[string]*InteractionRule
}

// NewRuleTable строит таблицу и отклоняет пустые и повторяющиеся имена
func NewRuleTable(rules []InteractionRule) (*RuleTable, error) {
	table := &RuleTable{
		rules:  make([]*InteractionRule, 0, len(rules)),
		byName: make(map[string]*InteractionRule, len(rules)),
	}

	for i := range rules {
		rule := rules[i]
		if rule.Name == "" {
			return nil, fmt.Errorf("правило #%d: пустое имя", i)
		}
		if _, exists := table.byName[rule.Name]; exists {
			return nil, fmt.Errorf("правило %q объявлено дважды", rule.Name)
		}
		table.rules = append(table.rules, &rule)
		table.byName[rule.Name] = &rule
	}
	return table, nil
}

// MustRuleTable как NewRuleTable, но паникует при ошибке
func MustRuleTable(rules ...InteractionRule) *RuleTable {
	table, err := NewRuleTable(rules)
	if err != nil {
		panic(err)
	}
	return table
}

// Rules возвращает правила в порядке таблицы
func (t *RuleTable) Rules() []*InteractionRule { return t.rules }

// Lookup находит правило по имени
func (t *RuleTable) Lookup(name string) (*InteractionRule, bool) {
	rule, ok := t.byName[name]
	return rule, ok
}

// Len количество правил
func (t *RuleTable) Len() int { return len(t.rules) }
