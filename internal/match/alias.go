package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

// Alias rewrites one whole-word phrase of a normalized query into the form
// the export uses for it.
type Alias struct {
	// From is a normalized phrase, e.g. "man at arms".
	From string `yaml:"from"`
	// To replaces From verbatim; it may contain characters Normalize would
	// strip, such as the hyphen of "man-at-arms".
	To string `yaml:"to"`
	// Note documents why the rule exists.
	Note string `yaml:"note,omitempty"`
}

// AliasTable is an ordered list of rewrite rules. The first rule whose
// rewrite hits the index wins.
type AliasTable []Alias

// aliasFile is the YAML layout read by LoadAliases.
type aliasFile struct {
	Aliases []Alias `yaml:"aliases"`
}

// DefaultAliases returns the built-in rewrite rules.
func DefaultAliases() AliasTable {
	return AliasTable{
		{
			From: "man at arms",
			To:   "man-at-arms",
			Note: "the export spells the militia line upgrade with hyphens",
		},
	}
}

// Apply rewrites every whole-word occurrence of a.From in the normalized
// query, scanning left to right without overlaps. It reports false when the
// query does not contain a.From.
func (a Alias) Apply(normalized string) (string, bool) {
	from := strings.Fields(a.From)
	if len(from) == 0 {
		return "", false
	}
	words := strings.Fields(normalized)
	out := make([]string, 0, len(words))
	hit := false
	for i := 0; i < len(words); {
		if i+len(from) <= len(words) && slices.Equal(words[i:i+len(from)], from) {
			out = append(out, a.To)
			i += len(from)
			hit = true
			continue
		}
		out = append(out, words[i])
		i++
	}
	if !hit {
		return "", false
	}
	return strings.Join(out, " "), true
}

// Merge returns t followed by the rules of other whose From is not already
// present in t.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	seen := make(map[string]bool, len(t))
	out := make(AliasTable, 0, len(t)+len(other))
	for _, a := range t {
		seen[a.From] = true
		out = append(out, a)
	}
	for _, a := range other {
		if seen[a.From] {
			continue
		}
		seen[a.From] = true
		out = append(out, a)
	}
	return out
}

// ParseAliases parses a YAML alias document:
//
//	aliases:
//	  - from: man at arms
//	    to: man-at-arms
//	    note: hyphenated in the export
//
// From is normalized on load; To is lowercased and trimmed.
//
// Postcondition: every returned rule has a non-empty From and To, or a
// non-nil error is returned.
func ParseAliases(data []byte) (AliasTable, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}
	table := make(AliasTable, 0, len(f.Aliases))
	for i, a := range f.Aliases {
		a.From = importer.Normalize(a.From)
		a.To = strings.ToLower(strings.TrimSpace(a.To))
		if a.From == "" || a.To == "" {
			return nil, fmt.Errorf("alias %d: from and to must not be empty", i)
		}
		table = append(table, a)
	}
	return table, nil
}

// LoadAliases reads an alias document from fs.
//
// Precondition: path must name a YAML alias document.
// Postcondition: returns the parsed rules or a non-nil error.
func LoadAliases(fs afero.Fs, path string) (AliasTable, error) {
	data, err := importer.ReadInput(fs, path)
	if err != nil {
		return nil, err
	}
	table, err := ParseAliases(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", importer.ErrMalformedInput, path, err)
	}
	return table, nil
}
