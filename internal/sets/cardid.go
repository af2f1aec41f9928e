package sets

import "fmt"

const (
	boosterWidth = 3
	starterWidth = 2
)

// PadWidth: 3 цифры для бустеров, 2 для всего остального (включая неизвестные сеты)
func (r *Registry) PadWidth(setID string) int {
	if r.IsBooster(setID) {
		return boosterWidth
	}
	return starterWidth
}

// FormatCardID собирает номер карты вида BT1-001 / ST1-01
func (r *Registry) FormatCardID(setID string, idx int) string {
	return fmt.Sprintf("%s-%0*d", setID, r.PadWidth(setID), idx)
}

// CardIDs возвращает номера 1..count по порядку
func (r *Registry) CardIDs(setID string, count int) []string {
	if count <= 0 {
		return nil
	}
	ids := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		ids = append(ids, r.FormatCardID(setID, i))
	}
	return ids
}
