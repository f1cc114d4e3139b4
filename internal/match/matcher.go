package match

import (
	"strings"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

// Kind records how a name was resolved.
type Kind string

const (
	KindExact      Kind = "exact"
	KindNormalized Kind = "normalized"
	KindAlias      Kind = "alias"
	// KindFallback marks an asset borrowed from a base entry; the Matcher
	// itself never produces it.
	KindFallback Kind = "fallback"
)

// Match is a successful resolution.
type Match struct {
	ResourceID int
	Via        Kind
	// Name is the literal index key that matched.
	Name string
}

// Matcher resolves display names against one Index.
type Matcher struct {
	index   *Index
	aliases AliasTable
}

// NewMatcher constructs a Matcher over index using aliases in order.
//
// Precondition: index must be non-nil.
func NewMatcher(index *Index, aliases AliasTable) *Matcher {
	return &Matcher{index: index, aliases: aliases}
}

// Resolve looks query up in strict order and returns on the first hit:
// the literal name, the normalized name, then each alias rewrite of the
// normalized name.
//
// Postcondition: ok is false only when no tier matched.
func (m *Matcher) Resolve(query string) (Match, bool) {
	query = strings.TrimSpace(query)
	if id, ok := m.index.Exact(query); ok {
		return Match{ResourceID: id, Via: KindExact, Name: query}, true
	}

	key := importer.Normalize(query)
	if key == "" {
		return Match{}, false
	}
	if id, name, ok := m.index.Normalized(key); ok {
		return Match{ResourceID: id, Via: KindNormalized, Name: name}, true
	}

	for _, a := range m.aliases {
		rewritten, ok := a.Apply(key)
		if !ok {
			continue
		}
		if id, name, ok := m.index.Normalized(rewritten); ok {
			return Match{ResourceID: id, Via: KindAlias, Name: name}, true
		}
	}
	return Match{}, false
}
