package icons

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

// Target describes how entries of one kind are resolved and where their
// icons go.
type Target struct {
	Kind    importer.Kind
	Matcher *match.Matcher
	// SourceDir holds the bundle images, named <resource id><ext>.
	SourceDir string
	// OutDir receives the copies, named <entry id><ext>.
	OutDir  string
	Derived DerivedRules
}

// Builder accumulates a Manifest over one or more Targets.
type Builder struct {
	store    *AssetStore
	root     string
	manifest *Manifest
	// assets holds the written asset path of every matched entry, per kind.
	assets map[importer.Kind]map[string]string
	logger *zap.Logger
}

// NewBuilder constructs a Builder. Manifest src paths are made relative to
// root, which is made absolute first.
//
// Precondition: store and logger must be non-nil.
func NewBuilder(store *AssetStore, root string, logger *zap.Logger) *Builder {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Builder{
		store:    store,
		root:     root,
		manifest: NewManifest(),
		assets:   make(map[importer.Kind]map[string]string),
		logger:   logger,
	}
}

// Manifest returns the manifest built so far.
func (b *Builder) Manifest() *Manifest { return b.manifest }

// Add resolves entries against t in two passes: every non-derived entry
// first, then every derived entry, so that a base entry's outcome is known
// before any fallback to it is attempted. Derived entries are processed in
// order of id length, placing a derived base ahead of entries derived from it.
//
// Postcondition: every entry is either in the matched partition for t.Kind
// or in its unmatched list; err is non-nil only on an asset I/O failure.
func (b *Builder) Add(t Target, entries []importer.Entry) error {
	var bases, derived []importer.Entry
	for _, e := range entries {
		if _, ok := t.Derived.BaseID(e.ID); ok {
			derived = append(derived, e)
			continue
		}
		bases = append(bases, e)
	}
	sort.SliceStable(derived, func(i, j int) bool {
		if len(derived[i].ID) != len(derived[j].ID) {
			return len(derived[i].ID) < len(derived[j].ID)
		}
		return derived[i].ID < derived[j].ID
	})

	for _, pass := range [][]importer.Entry{bases, derived} {
		for _, e := range pass {
			if err := b.resolve(t, e); err != nil {
				return fmt.Errorf("resolving %s %q: %w", t.Kind, e.ID, err)
			}
		}
	}
	b.manifest.sortUnmatched()
	return nil
}

func (b *Builder) resolve(t Target, e importer.Entry) error {
	var resourceID *int
	if m, ok := t.Matcher.Resolve(e.Name); ok {
		id := m.ResourceID
		resourceID = &id
		if src, found := b.store.Find(t.SourceDir, strconv.Itoa(id)); found {
			dest, err := b.store.Copy(src, t.OutDir, e.ID)
			if err != nil {
				return err
			}
			entry := ManifestEntry{
				Kind:       t.Kind,
				Name:       e.Name,
				ResourceID: resourceID,
				Src:        b.rel(dest),
				MatchedVia: m.Via,
			}
			if m.Name != e.Name {
				entry.MatchedName = m.Name
			}
			b.addMatched(e.ID, entry, dest)
			b.logger.Debug("icon matched",
				zap.String("kind", string(t.Kind)),
				zap.String("id", e.ID),
				zap.Int("resource_id", id),
				zap.String("via", string(m.Via)),
			)
			return nil
		}
	}

	entry, dest, ok, err := b.resolveFallback(t, e, resourceID)
	if err != nil {
		return err
	}
	if ok {
		b.addMatched(e.ID, entry, dest)
		b.logger.Debug("icon reused from base entry",
			zap.String("kind", string(t.Kind)),
			zap.String("id", e.ID),
			zap.String("base", entry.FallbackFrom),
		)
		return nil
	}

	reason := ReasonNoNameMatch
	switch {
	case isDerived(t, e):
		reason = ReasonNoFallback
	case resourceID != nil:
		reason = ReasonNoAssetFile
	}
	b.manifest.addUnmatched(Unmatched{
		Kind:       t.Kind,
		ID:         e.ID,
		Name:       e.Name,
		ResourceID: resourceID,
		Reason:     reason,
	})
	b.logger.Debug("icon unmatched",
		zap.String("kind", string(t.Kind)),
		zap.String("id", e.ID),
		zap.String("name", e.Name),
		zap.String("reason", string(reason)),
	)
	return nil
}

func (b *Builder) addMatched(id string, e ManifestEntry, dest string) {
	b.manifest.addMatched(id, e)
	if b.assets[e.Kind] == nil {
		b.assets[e.Kind] = make(map[string]string)
	}
	b.assets[e.Kind][id] = dest
}

func isDerived(t Target, e importer.Entry) bool {
	_, ok := t.Derived.BaseID(e.ID)
	return ok
}

// rel converts an output path into a project-relative, slash-separated path.
func (b *Builder) rel(path string) string {
	r, err := filepath.Rel(b.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}
