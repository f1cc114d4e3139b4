package match

import (
	"strings"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

// candidate is the winning resource for one index key.
type candidate struct {
	id   int
	name string
}

// Index maps names to resource ids. An Index is read-only after construction.
type Index struct {
	exact      map[string]candidate
	normalized map[string]candidate
}

// BuildIndex indexes every resource under its literal name and under its
// normalized name. When several resources share a key the numerically
// smallest id wins; the outcome does not depend on the order of resources.
//
// Postcondition: returns a non-nil Index; BuildIndex(rs) built twice yields
// equal indices.
func BuildIndex(resources []importer.Resource) *Index {
	ix := &Index{
		exact:      make(map[string]candidate, len(resources)),
		normalized: make(map[string]candidate, len(resources)),
	}
	for _, r := range resources {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		c := candidate{id: r.ID, name: name}
		offer(ix.exact, name, c)
		if key := importer.Normalize(name); key != "" {
			offer(ix.normalized, key, c)
		}
	}
	return ix
}

// NewIndex builds an Index from key maps prepared elsewhere. normalized keys
// are used verbatim and are not passed through importer.Normalize. A
// normalized hit reports the exact-index name carrying the same id as its
// literal name, the lexically smallest when several do; only when no exact
// name has that id is the normalized key itself reported.
func NewIndex(exact, normalized map[string]int) *Index {
	ix := &Index{
		exact:      make(map[string]candidate, len(exact)),
		normalized: make(map[string]candidate, len(normalized)),
	}
	literal := make(map[int]string, len(exact))
	for name, id := range exact {
		ix.exact[name] = candidate{id: id, name: name}
		if cur, ok := literal[id]; !ok || name < cur {
			literal[id] = name
		}
	}
	for key, id := range normalized {
		name, ok := literal[id]
		if !ok {
			name = key
		}
		ix.normalized[key] = candidate{id: id, name: name}
	}
	return ix
}

// offer stores c under key unless a candidate with a smaller id, or an
// equal id and a lexically smaller name, already holds it.
func offer(m map[string]candidate, key string, c candidate) {
	cur, ok := m[key]
	if !ok || c.id < cur.id || (c.id == cur.id && c.name < cur.name) {
		m[key] = c
	}
}

// Exact returns the id indexed under the literal name.
func (ix *Index) Exact(name string) (int, bool) {
	c, ok := ix.exact[name]
	return c.id, ok
}

// Normalized returns the id indexed under a normalized key, together with
// the literal resource name that produced it.
func (ix *Index) Normalized(key string) (int, string, bool) {
	c, ok := ix.normalized[key]
	return c.id, c.name, ok
}

// Len returns the number of literal names in the index.
func (ix *Index) Len() int { return len(ix.exact) }
