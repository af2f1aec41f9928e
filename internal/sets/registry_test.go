package sets

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func mustRegistry(t *testing.T, booster, starter []Entry) *Registry {
	t.Helper()
	r, err := New(booster, starter)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestCardIDsPadding(t *testing.T) {
	r := mustRegistry(t,
		[]Entry{{ID: "BT1", Count: 3}},
		[]Entry{{ID: "ST1", Count: 2}},
	)

	tests := []struct {
		setID    string
		count    int
		expected []string
	}{
		{"BT1", 3, []string{"BT1-001", "BT1-002", "BT1-003"}},
		{"ST1", 2, []string{"ST1-01", "ST1-02"}},
		// Неизвестный сет форматируется как стартер
		{"P", 2, []string{"P-01", "P-02"}},
		{"BT1", 0, nil},
	}

	for _, tt := range tests {
		got := r.CardIDs(tt.setID, tt.count)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("CardIDs(%q, %d) = %v, want %v", tt.setID, tt.count, got, tt.expected)
		}
	}
}

func TestCardIDsContiguous(t *testing.T) {
	r := mustRegistry(t, []Entry{{ID: "BT2", Count: 112}}, nil)

	ids := r.CardIDs("BT2", 112)
	if len(ids) != 112 {
		t.Fatalf("len = %d, want 112", len(ids))
	}
	for i, id := range ids {
		if id != r.FormatCardID("BT2", i+1) {
			t.Errorf("ids[%d] = %q", i, id)
		}
		if i > 0 && ids[i-1] >= id {
			t.Errorf("ids not strictly increasing at %d: %q >= %q", i, ids[i-1], id)
		}
	}
	if ids[111] != "BT2-112" {
		t.Errorf("last id = %q, want BT2-112", ids[111])
	}
}

func TestCount(t *testing.T) {
	r := mustRegistry(t, []Entry{{ID: "BT1", Count: 3}}, []Entry{{ID: "ST1", Count: 2}})

	if c, ok := r.Count("ST1"); !ok || c != 2 {
		t.Errorf("Count(ST1) = %d, %v", c, ok)
	}
	if c, ok := r.Count("XX9"); ok || c != 0 {
		t.Errorf("Count(XX9) = %d, %v, want 0, false", c, ok)
	}
}

func TestCrawlOrder(t *testing.T) {
	r := mustRegistry(t,
		[]Entry{{ID: "BT1", Count: 1}, {ID: "BT2", Count: 1}},
		[]Entry{{ID: "ST1", Count: 1}},
	)

	got := r.CrawlOrder()
	expected := []string{"BT2", "BT1", "ST1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("CrawlOrder() = %v, want %v", got, expected)
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name    string
		booster []Entry
		starter []Entry
		errSub  string
	}{
		{"overlap", []Entry{{ID: "BT1", Count: 1}}, []Entry{{ID: "BT1", Count: 1}}, "declared twice"},
		{"zero count", []Entry{{ID: "BT1", Count: 0}}, nil, "count must be > 0"},
		{"empty id", nil, []Entry{{Count: 4}}, "empty id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.booster, tt.starter)
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("New() error = %v, want %q", err, tt.errSub)
			}
		})
	}
}

func TestLoadEmbedded(t *testing.T) {
	r, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !r.IsBooster("BT1") {
		t.Error("BT1 should be a booster set")
	}
	if r.IsBooster("ST1") {
		t.Error("ST1 should be a starter set")
	}

	order := r.CrawlOrder()
	if len(order) == 0 || order[len(order)-1] != "ST1" {
		t.Errorf("first declared starter should be crawled last, got %v", order)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.yaml")
	content := "booster:\n  - {id: BT1, count: 3}\nstarter:\n  - {id: ST1, count: 2}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	listings := r.Listings()
	expected := []Listing{
		{ID: "BT1", Kind: KindBooster, Count: 3, Width: 3},
		{ID: "ST1", Kind: KindStarter, Count: 2, Width: 2},
	}
	if !reflect.DeepEqual(listings, expected) {
		t.Errorf("Listings() = %+v, want %+v", listings, expected)
	}
}
