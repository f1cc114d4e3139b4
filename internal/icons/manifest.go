package icons

import (
	"encoding/json"
	"sort"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

// Reason explains why an entry has no icon.
type Reason string

const (
	// ReasonNoNameMatch: no tier of the matcher found the entry's name.
	ReasonNoNameMatch Reason = "no_name_match"
	// ReasonNoAssetFile: the name resolved but the bundle has no image for it.
	ReasonNoAssetFile Reason = "no_asset_file"
	// ReasonNoFallback: a derived entry failed directly and its base has no icon.
	ReasonNoFallback Reason = "no_fallback_available"
)

// ManifestEntry records one entry that received an icon.
type ManifestEntry struct {
	Kind importer.Kind
	Name string
	// ResourceID is nil when the icon was obtained purely via fallback.
	ResourceID *int
	// Src is the copied asset path relative to the project root, using
	// forward slashes.
	Src         string
	MatchedVia  match.Kind
	MatchedName string
	// FallbackFrom is the id of the base entry whose icon was reused.
	FallbackFrom string
}

// Unmatched records one entry that received no icon.
type Unmatched struct {
	Kind       importer.Kind
	ID         string
	Name       string
	ResourceID *int
	Reason     Reason
}

// Manifest is the complete outcome of one sync run.
type Manifest struct {
	Units          map[string]ManifestEntry
	Civilizations  map[string]ManifestEntry
	UnmatchedUnits []Unmatched
	UnmatchedCivs  []Unmatched
}

// NewManifest returns an empty Manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Units:         make(map[string]ManifestEntry),
		Civilizations: make(map[string]ManifestEntry),
	}
}

// Matched returns the matched partition for kind.
func (m *Manifest) Matched(kind importer.Kind) map[string]ManifestEntry {
	if kind == importer.KindCivilization {
		return m.Civilizations
	}
	return m.Units
}

func (m *Manifest) addMatched(id string, e ManifestEntry) {
	m.Matched(e.Kind)[id] = e
}

func (m *Manifest) addUnmatched(u Unmatched) {
	if u.Kind == importer.KindCivilization {
		m.UnmatchedCivs = append(m.UnmatchedCivs, u)
		return
	}
	m.UnmatchedUnits = append(m.UnmatchedUnits, u)
}

// sortUnmatched orders both unmatched partitions by id.
func (m *Manifest) sortUnmatched() {
	for _, list := range [][]Unmatched{m.UnmatchedUnits, m.UnmatchedCivs} {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
}

// resourceKey is the manifest field holding the resource id of kind.
func resourceKey(kind importer.Kind) string {
	if kind == importer.KindCivilization {
		return "iconId"
	}
	return "objectId"
}

// MarshalJSON writes the entry with the resource id under "objectId" for
// units and "iconId" for civilizations.
func (e ManifestEntry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"name":       e.Name,
		"src":        e.Src,
		"matchedVia": e.MatchedVia,
	}
	out[resourceKey(e.Kind)] = e.ResourceID
	if e.MatchedName != "" {
		out["matchedName"] = e.MatchedName
	}
	if e.FallbackFrom != "" {
		out["fallbackFrom"] = e.FallbackFrom
		if e.ResourceID == nil {
			out["reason"] = "fallback to " + e.FallbackFrom + " (no resource match)"
		} else {
			out["reason"] = "fallback to " + e.FallbackFrom + " (no asset file)"
		}
	}
	return json.Marshal(out)
}

// MarshalJSON writes the unmatched record, omitting an unknown resource id.
func (u Unmatched) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":     u.ID,
		"name":   u.Name,
		"reason": u.Reason,
	}
	if u.ResourceID != nil {
		out[resourceKey(u.Kind)] = *u.ResourceID
	}
	return json.Marshal(out)
}

// MarshalJSON writes the four partitions under their document keys. Empty
// partitions are written as {} or [] rather than null.
func (m Manifest) MarshalJSON() ([]byte, error) {
	doc := struct {
		Units          map[string]ManifestEntry `json:"units"`
		Civilizations  map[string]ManifestEntry `json:"civilisations"`
		UnmatchedUnits []Unmatched              `json:"unmatched_units"`
		UnmatchedCivs  []Unmatched              `json:"unmatched_civs"`
	}{m.Units, m.Civilizations, m.UnmatchedUnits, m.UnmatchedCivs}
	if doc.Units == nil {
		doc.Units = map[string]ManifestEntry{}
	}
	if doc.Civilizations == nil {
		doc.Civilizations = map[string]ManifestEntry{}
	}
	if doc.UnmatchedUnits == nil {
		doc.UnmatchedUnits = []Unmatched{}
	}
	if doc.UnmatchedCivs == nil {
		doc.UnmatchedCivs = []Unmatched{}
	}
	return json.Marshal(doc)
}

// Encode returns the deterministic JSON form of the manifest.
func (m *Manifest) Encode() ([]byte, error) {
	return importer.EncodeJSON(m)
}
