// Package filter реализует чистую фильтрацию коллекций в памяти:
// свободный поиск плюс выбор по категориальным полям. Используется поверх
// полной выборки из репозитория, порядок входа сохраняется.
package filter

import "strings"

// All - значение селектора, отключающее фильтрацию по полю.
const All = "all"

// Selection - критерии отбора. Пустая строка поиска и значение "all"
// в селекторах означают "показать все".
type Selection struct {
	Search   string
	Type     string
	Status   string
	Severity string
}

// Fields - проекция записи на поля, по которым работает фильтр.
// Поиск ведется по Location, Type и Description без учета регистра.
type Fields struct {
	Location    string
	Type        string
	Status      string
	Severity    string
	Description string
}

// Record - запись, пригодная для фильтрации.
type Record interface {
	FilterFields() Fields
}

// Apply возвращает подмножество records, удовлетворяющее selection.
// Фильтр стабильный (порядок сохраняется), идемпотентный и тотальный:
// для пустого входа возвращается пустой срез.
func Apply[T Record](records []T, sel Selection) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Matches(r.FilterFields(), sel) {
			out = append(out, r)
		}
	}
	return out
}

// Matches проверяет одну запись против критериев.
func Matches(f Fields, sel Selection) bool {
	if sel.Search != "" {
		needle := strings.ToLower(sel.Search)
		if !strings.Contains(strings.ToLower(f.Location), needle) &&
			!strings.Contains(strings.ToLower(f.Type), needle) &&
			!strings.Contains(strings.ToLower(f.Description), needle) {
			return false
		}
	}
	if !matchField(f.Type, sel.Type) {
		return false
	}
	if !matchField(f.Status, sel.Status) {
		return false
	}
	return matchField(f.Severity, sel.Severity)
}

func matchField(value, selected string) bool {
	return selected == "" || selected == All || value == selected
}
