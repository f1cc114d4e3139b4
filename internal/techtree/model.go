// Package techtree flattens the raw tech-tree export into the project's
// technologies and per-civilization availability tables.
package techtree

import "encoding/json"

// Technology types.
const (
	TypeTech        = "tech"
	TypeUnitUpgrade = "unit_upgrade"
)

// Technology is one row of technologies.json. Cost, ResearchTime and
// Repeatable carry the export's values verbatim.
type Technology struct {
	ID           *int            `json:"id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	UnitID       *int            `json:"unitId,omitempty"`
	Cost         json.RawMessage `json:"cost"`
	ResearchTime json.RawMessage `json:"researchTime"`
	// Repeatable is only present on TypeTech rows.
	Repeatable   json.RawMessage `json:"repeatable,omitempty"`
	InternalName *string         `json:"internalName"`
}

// CivTechnologies is one row of civ_technologies.json.
type CivTechnologies struct {
	Name          string `json:"name"`
	TechIDs       []int  `json:"techIds"`
	UniqueTechIDs []int  `json:"uniqueTechIds"`
}

// Result holds both output tables, keyed as they are written.
type Result struct {
	// Technologies is keyed by tech id, or "upgrade_<unit id>" for unit upgrades.
	Technologies map[string]Technology
	// CivTechnologies is keyed by project civilization id.
	CivTechnologies map[string]CivTechnologies
}
