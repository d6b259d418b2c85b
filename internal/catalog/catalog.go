// Package catalog loads and serves the static bird catalog document. The
// catalog is read once at startup and treated as immutable reference data;
// only its ordering changes, driven by the sort setting.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
)

// Sort orders accepted by SortBy. These match the values of the sortBy
// setting.
const (
	SortFrequency    = "frequency"
	SortAlphabetical = "alphabetical"
	SortRandom       = "random"
)

// Common catalog errors.
var (
	ErrEmptyCatalog = errors.New("catalog contains no birds")
	ErrMissingID    = errors.New("catalog entry is missing an id")
)

// Bird is one catalog entry: a learnable subject with its display fields and
// everything needed to derive its asset paths.
type Bird struct {
	ID             string   `json:"id"`
	CommonName     string   `json:"commonName"`
	ScientificName string   `json:"scientificName"`
	Frequency      int      `json:"frequency"`
	Description    string   `json:"description"`
	FieldMarks     []string `json:"fieldMarks"`
	Habitat        string   `json:"habitat"`
	PhotoCount     int      `json:"photoCount,omitempty"`
}

// Catalog holds the loaded bird list. It is not safe for concurrent
// mutation; sort once during startup, read-only afterwards.
type Catalog struct {
	birds []Bird
}

// document is the on-disk shape of the catalog file.
type document struct {
	Birds []Bird `json:"birds"`
}

// Load reads and parses the catalog document at the given path. Entries
// without an explicit photo count default to a single photo.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return Parse(data)
}

// Parse builds a Catalog from raw JSON catalog data.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(doc.Birds) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i := range doc.Birds {
		if doc.Birds[i].ID == "" {
			return nil, fmt.Errorf("%w (entry %d)", ErrMissingID, i)
		}
		if doc.Birds[i].PhotoCount < 1 {
			doc.Birds[i].PhotoCount = 1
		}
	}

	return &Catalog{birds: doc.Birds}, nil
}

// Birds returns the catalog entries in their current order.
func (c *Catalog) Birds() []Bird {
	return c.birds
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.birds)
}

// Get looks up a bird by its ID.
func (c *Catalog) Get(id string) (Bird, bool) {
	for _, bird := range c.birds {
		if bird.ID == id {
			return bird, true
		}
	}
	return Bird{}, false
}

// SortBy reorders the catalog: most frequent first, alphabetical by common
// name, or shuffled. Unknown methods leave the order untouched.
func (c *Catalog) SortBy(method string) {
	switch method {
	case SortFrequency:
		sort.SliceStable(c.birds, func(i, j int) bool {
			return c.birds[i].Frequency > c.birds[j].Frequency
		})
	case SortAlphabetical:
		sort.SliceStable(c.birds, func(i, j int) bool {
			return strings.ToLower(c.birds[i].CommonName) < strings.ToLower(c.birds[j].CommonName)
		})
	case SortRandom:
		c.Shuffle()
	}
}

// Sorted returns a copy of the catalog entries ordered by the given method,
// leaving the catalog's own order untouched. Unknown methods return the
// current order.
func (c *Catalog) Sorted(method string) []Bird {
	birds := make([]Bird, len(c.birds))
	copy(birds, c.birds)

	view := Catalog{birds: birds}
	view.SortBy(method)
	return view.birds
}

// Shuffle randomizes the catalog order.
func (c *Catalog) Shuffle() {
	rand.Shuffle(len(c.birds), func(i, j int) {
		c.birds[i], c.birds[j] = c.birds[j], c.birds[i]
	})
}

// RandomBirds returns up to count random birds, excluding the bird with
// excludeID. Used by quiz consumers to build wrong-answer options.
func (c *Catalog) RandomBirds(count int, excludeID string) []Bird {
	available := make([]Bird, 0, len(c.birds))
	for _, bird := range c.birds {
		if bird.ID != excludeID {
			available = append(available, bird)
		}
	}

	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if count > len(available) {
		count = len(available)
	}
	return available[:count]
}
