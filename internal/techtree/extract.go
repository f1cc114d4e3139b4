package techtree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

var (
	jsonNull      = json.RawMessage("null")
	jsonEmptyObj  = json.RawMessage("{}")
	uniqueTechKey = []string{"castleAgeUniqueTech", "imperialAgeUniqueTech"}
)

// Extractor turns the tech-tree export into a Result.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor constructs an Extractor.
//
// Precondition: logger must be non-nil.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract flattens the export. data is the tech-tree document (with "data"
// and "techtrees" sections), langStrings maps language ids to English text, and
// civs is the project civilization list used to key availability rows.
//
// Precondition: data and strings must be JSON objects.
// Postcondition: returns a Result or an error wrapping
// importer.ErrMalformedInput.
func (x *Extractor) Extract(data, langStrings []byte, civs []importer.Entry) (*Result, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: tech-tree data is not a JSON object", importer.ErrMalformedInput)
	}
	if !gjson.ValidBytes(langStrings) || !gjson.ParseBytes(langStrings).IsObject() {
		return nil, fmt.Errorf("%w: language strings are not a JSON object", importer.ErrMalformedInput)
	}
	doc := gjson.ParseBytes(data)
	text := make(map[string]string)
	gjson.ParseBytes(langStrings).ForEach(func(key, value gjson.Result) bool {
		text[key.String()] = value.String()
		return true
	})

	res := &Result{
		Technologies:    make(map[string]Technology),
		CivTechnologies: make(map[string]CivTechnologies),
	}
	if err := x.techs(doc.Get("data.techs"), text, res); err != nil {
		return nil, err
	}
	if err := x.unitUpgrades(doc.Get("data.unit_upgrades"), res); err != nil {
		return nil, err
	}
	if err := x.techTrees(doc.Get("techtrees"), civs, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (x *Extractor) techs(techs gjson.Result, text map[string]string, res *Result) error {
	var err error
	techs.ForEach(func(key, t gjson.Result) bool {
		tid := key.String()
		id, convErr := strconv.Atoi(tid)
		if convErr != nil {
			err = fmt.Errorf("%w: tech id %q is not an integer", importer.ErrMalformedInput, tid)
			return false
		}
		name := techName(t, text)
		slug := importer.NameToID(name)
		if name == "" {
			slug = "tech_" + tid
			name = "Tech " + tid
		}
		res.Technologies[tid] = Technology{
			ID:           &id,
			Slug:         slug,
			Name:         name,
			Type:         TypeTech,
			Cost:         costOf(t.Get("Cost")),
			ResearchTime: rawOrNull(t.Get("ResearchTime")),
			Repeatable:   rawOrNull(t.Get("Repeatable")),
			InternalName: stringOrNil(t.Get("internal_name")),
		}
		return true
	})
	return err
}

// techName prefers the English string for LanguageNameId and falls back to
// the internal name.
func techName(t gjson.Result, text map[string]string) string {
	if lnid := t.Get("LanguageNameId"); lnid.Exists() && lnid.Type != gjson.Null {
		if s, ok := text[lnid.String()]; ok {
			return s
		}
	}
	return t.Get("internal_name").String()
}

func (x *Extractor) unitUpgrades(upgrades gjson.Result, res *Result) error {
	var err error
	upgrades.ForEach(func(key, t gjson.Result) bool {
		uid := key.String()
		unitID, convErr := strconv.Atoi(uid)
		if convErr != nil {
			err = fmt.Errorf("%w: unit upgrade key %q is not an integer", importer.ErrMalformedInput, uid)
			return false
		}
		var techID *int
		if raw := t.Get("ID"); raw.Exists() && raw.Type != gjson.Null {
			id, convErr := importer.ParseInt(raw)
			if convErr != nil {
				err = fmt.Errorf("%w: unit upgrade %s: %v", importer.ErrMalformedInput, uid, convErr)
				return false
			}
			techID = &id
		}
		name := t.Get("internal_name").String()
		if name == "" {
			name = "Upgrade None"
			if techID != nil {
				name = "Upgrade " + strconv.Itoa(*techID)
			}
		}
		res.Technologies["upgrade_"+uid] = Technology{
			ID:           techID,
			Slug:         importer.NameToID(name),
			Name:         name,
			Type:         TypeUnitUpgrade,
			UnitID:       &unitID,
			Cost:         costOf(t.Get("Cost")),
			ResearchTime: rawOrNull(t.Get("ResearchTime")),
			InternalName: stringOrNil(t.Get("internal_name")),
		}
		return true
	})
	return err
}

func (x *Extractor) techTrees(trees gjson.Result, civs []importer.Entry, res *Result) error {
	civIDs := make(map[string]string, len(civs))
	for _, c := range civs {
		civIDs[c.Name] = c.ID
	}

	var err error
	trees.ForEach(func(key, tree gjson.Result) bool {
		civName := key.String()
		civID, ok := civIDs[civName]
		if !ok {
			x.logger.Debug("tech tree for unknown civilization skipped", zap.String("civilization", civName))
			return true
		}

		seen := make(map[int]bool)
		techIDs := []int{}
		for _, item := range tree.Get("techs").Array() {
			id, convErr := importer.ParseInt(item.Get("id"))
			if convErr != nil {
				err = fmt.Errorf("%w: tech tree %q: %v", importer.ErrMalformedInput, civName, convErr)
				return false
			}
			if !seen[id] {
				seen[id] = true
				techIDs = append(techIDs, id)
			}
		}
		sort.Ints(techIDs)

		unique := []int{}
		for _, k := range uniqueTechKey {
			raw := tree.Get("unique." + k)
			if !raw.Exists() || raw.Type == gjson.Null {
				continue
			}
			id, convErr := importer.ParseInt(raw)
			if convErr != nil {
				err = fmt.Errorf("%w: tech tree %q %s: %v", importer.ErrMalformedInput, civName, k, convErr)
				return false
			}
			unique = append(unique, id)
		}

		res.CivTechnologies[civID] = CivTechnologies{
			Name:          civName,
			TechIDs:       techIDs,
			UniqueTechIDs: unique,
		}
		return true
	})
	return err
}

// costOf returns the cost object, or {} when the export has none.
func costOf(r gjson.Result) json.RawMessage {
	if !truthy(r) {
		return jsonEmptyObj
	}
	return json.RawMessage(r.Raw)
}

// truthy reports whether r is present and not an empty or zero value.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	}
	return true
}

func rawOrNull(r gjson.Result) json.RawMessage {
	if !r.Exists() {
		return jsonNull
	}
	return json.RawMessage(r.Raw)
}

func stringOrNil(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}
