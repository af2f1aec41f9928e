package classifier

import (
	"errors"
	"fmt"
	"sort"

	"rulings-crawler/internal/wikitext"
)

var (
	ErrUnknownMode        = errors.New("unknown classification mode")
	ErrModeNotImplemented = errors.New("classification mode not implemented")
)

// Mode - один способ отбора страниц правил
type Mode interface {
	// Name совпадает с флагом командной строки
	Name() string
	// Title - заголовок итогового отчёта
	Title() string
	// Implemented = false у объявленных, но не написанных режимов
	Implemented() bool
	// Classify для nil-документа всегда false
	Classify(doc *wikitext.Document) (bool, error)
}

var modes = map[string]Mode{}

func register(m Mode) {
	modes[m.Name()] = m
}

func init() {
	register(MultipleSources{})
	register(RefTagSources{})
}

// Lookup находит режим по имени флага
func Lookup(name string) (Mode, error) {
	m, ok := modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	return m, nil
}

// Names - имена всех режимов по алфавиту
func Names() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MultipleSources: в первом списке страницы больше одного пункта.
// Содержимое пунктов не проверяется, остальные списки игнорируются.
type MultipleSources struct{}

func (MultipleSources) Name() string { return "multiple-sources" }

func (MultipleSources) Implemented() bool { return true }

func (MultipleSources) Title() string {
	return "Rulings Pages With Multiple Non-reftag Sources:"
}

func (MultipleSources) Classify(doc *wikitext.Document) (bool, error) {
	lists := doc.Lists()
	return len(lists) > 0 && lists[0].Len() > 1, nil
}

// RefTagSources объявлен, но не реализован: Classify возвращает false вместе с ErrModeNotImplemented.
type RefTagSources struct{}

func (RefTagSources) Name() string { return "reftag-sources" }

func (RefTagSources) Implemented() bool { return false }

func (RefTagSources) Title() string {
	return "Rulings Pages With Multiple Reftag Sources:"
}

func (RefTagSources) Classify(doc *wikitext.Document) (bool, error) {
	if doc == nil {
		return false, nil
	}
	return false, fmt.Errorf("%w: reftag-sources", ErrModeNotImplemented)
}
