package catalog

import (
	"errors"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

const sample = `[
  {"name": "M1 Abrams", "origin": "United States", "type": "Tank", "coords": [42.52, -83.04],
   "specs": {"speed": "67 km/h", "armament": "120 mm", "range": "426 km"},
   "inService": "1980", "status": "Active", "users": ["United States", "Poland"]},
  {"name": "Rafale", "origin": "France", "type": "Aircraft", "coords": [44.83, -0.71]},
  {"name": "Leopard 2", "origin": "Germany", "type": "Tank", "coords": [48.14, 11.58]}
]`

func mustParse(t *testing.T, s string) *Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestParse(t *testing.T) {
	c := mustParse(t, sample)

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	eq, ok := c.ByName("M1 Abrams")
	if !ok {
		t.Fatal("M1 Abrams not found")
	}
	if eq.Coords.Lat != 42.52 || eq.Coords.Lng != -83.04 {
		t.Errorf("coords = %+v", eq.Coords)
	}
	if eq.Specs.Armament != "120 mm" || eq.InService != "1980" {
		t.Errorf("details = %+v", eq)
	}
	if !slices.Equal(eq.Users, []string{"United States", "Poland"}) {
		t.Errorf("users = %v", eq.Users)
	}

	rafale, _ := c.ByName("Rafale")
	if rafale.Users == nil {
		t.Error("missing users should decode as empty, not nil")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"empty", `[]`},
		{"missing name", `[{"origin": "France", "coords": [1, 2]}]`},
		{"missing origin", `[{"name": "X", "coords": [1, 2]}]`},
		{"short coords", `[{"name": "X", "origin": "France", "coords": [1]}]`},
		{"lat out of range", `[{"name": "X", "origin": "France", "coords": [91, 0]}]`},
		{"lng out of range", `[{"name": "X", "origin": "France", "coords": [0, -181]}]`},
		{"duplicate", `[{"name": "X", "origin": "France", "coords": [0, 0]}, {"name": "X", "origin": "Spain", "coords": [0, 0]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseEmptyIsErrEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(`[]`))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestCategoriesAndFilter(t *testing.T) {
	c := mustParse(t, sample)

	if got, want := c.Categories(), []string{"Tank", "Aircraft"}; !slices.Equal(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}

	tests := []struct {
		category string
		want     []string
	}{
		{"", []string{"M1 Abrams", "Rafale", "Leopard 2"}},
		{All, []string{"M1 Abrams", "Rafale", "Leopard 2"}},
		{"Tank", []string{"M1 Abrams", "Leopard 2"}},
		{"Submarine", []string{}},
	}
	for _, tt := range tests {
		var names []string
		for _, eq := range c.Filter(tt.category) {
			names = append(names, eq.Name)
		}
		if names == nil {
			names = []string{}
		}
		if !slices.Equal(names, tt.want) {
			t.Errorf("Filter(%q) = %v, want %v", tt.category, names, tt.want)
		}
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := mustParse(t, sample)
	items := c.Items()
	items[0].Name = "mutated"
	if eq, ok := c.ByName("M1 Abrams"); !ok || eq.Name != "M1 Abrams" {
		t.Error("Items exposed internal slice")
	}
}

func TestBrowser(t *testing.T) {
	b := NewBrowser(mustParse(t, sample))

	if b.Category() != All {
		t.Errorf("initial category = %q, want all", b.Category())
	}
	if got := b.SetCategory("Aircraft"); len(got) != 1 || got[0].Name != "Rafale" {
		t.Errorf("SetCategory(Aircraft) = %v", got)
	}
	if b.Category() != "Aircraft" {
		t.Errorf("category = %q", b.Category())
	}
	if got := b.SetCategory(""); len(got) != 3 || b.Category() != All {
		t.Errorf("SetCategory(\"\") = %d items, category %q", len(got), b.Category())
	}

	if _, ok := b.Selected(); ok {
		t.Error("nothing should be selected initially")
	}
	if _, err := b.Open("Tiger"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(Tiger) = %v, want ErrNotFound", err)
	}
	eq, err := b.Open("Leopard 2")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sel, ok := b.Selected(); !ok || sel.Name != eq.Name {
		t.Errorf("Selected = %v, %v", sel.Name, ok)
	}
	b.Close()
	if _, ok := b.Selected(); ok {
		t.Error("Close should clear the selection")
	}
}

func TestLoadBundledCatalog(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "data", "equipment.json")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() < 10 {
		t.Errorf("bundled catalog has %d items, want at least 10", c.Len())
	}
}
