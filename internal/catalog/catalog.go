// Package catalog loads the equipment catalog and backs the practice
// browser.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/playperu/defenceguesser/internal/defence"
)

// All selects every category in Filter and Browser.
const All = "all"

var (
	ErrEmpty    = errors.New("catalog is empty")
	ErrNotFound = errors.New("equipment not found")
)

// record is the on-disk shape of one equipment entry.
type record struct {
	Name      string        `json:"name"`
	Origin    string        `json:"origin"`
	Type      string        `json:"type"`
	Coords    []float64     `json:"coords"`
	Image     string        `json:"image"`
	Specs     defence.Specs `json:"specs"`
	InService string        `json:"inService"`
	Status    string        `json:"status"`
	Users     []string      `json:"users"`
}

func (r record) equipment() (defence.Equipment, error) {
	if strings.TrimSpace(r.Name) == "" {
		return defence.Equipment{}, errors.New("missing name")
	}
	if strings.TrimSpace(r.Origin) == "" {
		return defence.Equipment{}, fmt.Errorf("%s: missing origin", r.Name)
	}
	if len(r.Coords) != 2 {
		return defence.Equipment{}, fmt.Errorf("%s: coords must be [lat, lng]", r.Name)
	}
	c := defence.Coords{Lat: r.Coords[0], Lng: r.Coords[1]}
	if !c.Valid() {
		return defence.Equipment{}, fmt.Errorf("%s: coords out of range", r.Name)
	}
	users := r.Users
	if users == nil {
		users = []string{}
	}
	return defence.Equipment{
		Name:      r.Name,
		Origin:    r.Origin,
		Type:      r.Type,
		Coords:    c,
		Image:     r.Image,
		Specs:     r.Specs,
		InService: r.InService,
		Status:    r.Status,
		Users:     users,
	}, nil
}

// Catalog is an immutable, validated list of equipment in file order.
type Catalog struct {
	items  []defence.Equipment
	byName map[string]int
}

func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a JSON array of equipment records. Names must be unique.
func Parse(r io.Reader) (*Catalog, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	items := make([]defence.Equipment, 0, len(records))
	for i, rec := range records {
		eq, err := rec.equipment()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		items = append(items, eq)
	}
	return New(items)
}

// New builds a catalog from already decoded equipment.
func New(items []defence.Equipment) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		items:  slices.Clone(items),
		byName: make(map[string]int, len(items)),
	}
	for i, eq := range c.items {
		if _, dup := c.byName[eq.Name]; dup {
			return nil, fmt.Errorf("duplicate equipment name %q", eq.Name)
		}
		c.byName[eq.Name] = i
	}
	return c, nil
}

// Items returns a copy of the equipment list.
func (c *Catalog) Items() []defence.Equipment {
	return slices.Clone(c.items)
}

func (c *Catalog) Len() int { return len(c.items) }

// Categories returns the distinct equipment types in first-seen order.
func (c *Catalog) Categories() []string {
	cats := []string{}
	for _, eq := range c.items {
		if eq.Type != "" && !slices.Contains(cats, eq.Type) {
			cats = append(cats, eq.Type)
		}
	}
	return cats
}

func (c *Catalog) ByName(name string) (defence.Equipment, bool) {
	i, ok := c.byName[name]
	if !ok {
		return defence.Equipment{}, false
	}
	return c.items[i], true
}

// Filter returns the equipment of the given type. All or "" selects
// everything.
func (c *Catalog) Filter(category string) []defence.Equipment {
	if category == "" || category == All {
		return c.Items()
	}
	out := []defence.Equipment{}
	for _, eq := range c.items {
		if eq.Type == category {
			out = append(out, eq)
		}
	}
	return out
}

// Browser holds the practice view for one player: the active category and
// the equipment opened in detail. It is independent of any game.
type Browser struct {
	catalog *Catalog

	mu       sync.Mutex
	category string
	selected string
}

func NewBrowser(c *Catalog) *Browser {
	return &Browser{catalog: c, category: All}
}

// SetCategory switches the listing and returns it. Selecting a category
// keeps the open detail, like the practice grid does.
func (b *Browser) SetCategory(category string) []defence.Equipment {
	if category == "" {
		category = All
	}
	b.mu.Lock()
	b.category = category
	b.mu.Unlock()
	return b.catalog.Filter(category)
}

func (b *Browser) Category() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.category
}

// Open selects name for the detail view.
func (b *Browser) Open(name string) (defence.Equipment, error) {
	eq, ok := b.catalog.ByName(name)
	if !ok {
		return defence.Equipment{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	b.mu.Lock()
	b.selected = name
	b.mu.Unlock()
	return eq, nil
}

// Close clears the detail view.
func (b *Browser) Close() {
	b.mu.Lock()
	b.selected = ""
	b.mu.Unlock()
}

// Selected returns the equipment open in the detail view, if any.
func (b *Browser) Selected() (defence.Equipment, bool) {
	b.mu.Lock()
	name := b.selected
	b.mu.Unlock()
	if name == "" {
		return defence.Equipment{}, false
	}
	return b.catalog.ByName(name)
}
