package icons

import (
	"strings"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

// DefaultDerivedPrefixes are the id prefixes of derived unit entries.
var DefaultDerivedPrefixes = []string{"elite_"}

// DerivedRules recognises ids of derived entries, such as "elite_pikeman"
// derived from "pikeman".
type DerivedRules struct {
	Prefixes []string
}

// BaseID strips the longest matching prefix from id. It reports false when
// id carries no prefix or nothing remains after stripping.
func (r DerivedRules) BaseID(id string) (string, bool) {
	best := ""
	for _, p := range r.Prefixes {
		if p != "" && strings.HasPrefix(id, p) && len(p) > len(best) {
			best = p
		}
	}
	if best == "" || len(id) == len(best) {
		return "", false
	}
	return id[len(best):], true
}

// ResolveFallback gives a derived entry the icon of its base entry. The base
// must already be matched by this Builder and its written asset must still
// exist; the asset is then copied under the derived entry's own id with the
// base's extension. resourceID is the derived entry's own resource id, if its
// name resolved.
//
// Postcondition: ok is false, with no file written, when e is not derived
// or its base has no icon yet. err is non-nil only when copying fails.
func (b *Builder) ResolveFallback(t Target, e importer.Entry, resourceID *int) (ManifestEntry, bool, error) {
	entry, _, ok, err := b.resolveFallback(t, e, resourceID)
	return entry, ok, err
}

func (b *Builder) resolveFallback(t Target, e importer.Entry, resourceID *int) (ManifestEntry, string, bool, error) {
	baseID, ok := t.Derived.BaseID(e.ID)
	if !ok {
		return ManifestEntry{}, "", false, nil
	}
	src, ok := b.assets[t.Kind][baseID]
	if !ok || !b.store.Exists(src) {
		return ManifestEntry{}, "", false, nil
	}
	dest, err := b.store.Copy(src, t.OutDir, e.ID)
	if err != nil {
		return ManifestEntry{}, "", false, err
	}
	return ManifestEntry{
		Kind:         t.Kind,
		Name:         e.Name,
		ResourceID:   resourceID,
		Src:          b.rel(dest),
		MatchedVia:   match.KindFallback,
		FallbackFrom: baseID,
	}, dest, true, nil
}
