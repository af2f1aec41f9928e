package sets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sets.yaml
var embeddedTable []byte

type Kind string

const (
	KindBooster Kind = "booster"
	KindStarter Kind = "starter"
)

type Entry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

type table struct {
	Booster []Entry `yaml:"booster"`
	Starter []Entry `yaml:"starter"`
}

// Registry - неизменяемая таблица сетов: бустеры и стартеры, порядок объявления сохраняется
type Registry struct {
	booster []Entry
	starter []Entry
	kinds   map[string]Kind
	counts  map[string]int
}

func New(booster, starter []Entry) (*Registry, error) {
	r := &Registry{
		booster: append([]Entry(nil), booster...),
		starter: append([]Entry(nil), starter...),
		kinds:   make(map[string]Kind, len(booster)+len(starter)),
		counts:  make(map[string]int, len(booster)+len(starter)),
	}

	if err := r.add(KindBooster, booster); err != nil {
		return nil, err
	}
	if err := r.add(KindStarter, starter); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) add(kind Kind, entries []Entry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%s set with empty id", kind)
		}
		if e.Count <= 0 {
			return fmt.Errorf("set %s: count must be > 0, got %d", e.ID, e.Count)
		}
		if prev, exists := r.kinds[e.ID]; exists {
			return fmt.Errorf("set %s declared twice (%s, %s)", e.ID, prev, kind)
		}
		r.kinds[e.ID] = kind
		r.counts[e.ID] = e.Count
	}
	return nil
}

// Load читает таблицу сетов из YAML. Пустой путь = встроенная таблица.
func Load(path string) (*Registry, error) {
	data := embeddedTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sets file: %w", err)
		}
	}

	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse sets table: %w", err)
	}

	return New(t.Booster, t.Starter)
}

// Count возвращает количество карт сета. Неизвестный сет = (0, false).
func (r *Registry) Count(setID string) (int, bool) {
	count, ok := r.counts[setID]
	return count, ok
}

func (r *Registry) IsBooster(setID string) bool {
	return r.kinds[setID] == KindBooster
}

func (r *Registry) Kind(setID string) (Kind, bool) {
	kind, ok := r.kinds[setID]
	return kind, ok
}

// CrawlOrder - порядок режима "все сеты": бустеры от последнего объявленного
// к первому, затем стартеры так же.
func (r *Registry) CrawlOrder() []string {
	order := make([]string, 0, len(r.booster)+len(r.starter))
	for i := len(r.booster) - 1; i >= 0; i-- {
		order = append(order, r.booster[i].ID)
	}
	for i := len(r.starter) - 1; i >= 0; i-- {
		order = append(order, r.starter[i].ID)
	}
	return order
}

type Listing struct {
	ID    string
	Kind  Kind
	Count int
	Width int
}

// Listings - все сеты в порядке CrawlOrder
func (r *Registry) Listings() []Listing {
	order := r.CrawlOrder()
	out := make([]Listing, 0, len(order))
	for _, id := range order {
		out = append(out, Listing{
			ID:    id,
			Kind:  r.kinds[id],
			Count: r.counts[id],
			Width: r.PadWidth(id),
		})
	}
	return out
}
