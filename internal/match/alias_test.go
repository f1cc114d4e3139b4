package match_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

func TestAlias_Apply(t *testing.T) {
	a := match.Alias{From: "man at arms", To: "man-at-arms"}

	cases := []struct {
		query string
		want  string
		ok    bool
	}{
		{"man at arms", "man-at-arms", true},
		{"elite man at arms", "elite man-at-arms", true},
		{"woman at arms", "", false},
		{"man at armsman", "", false},
		{"pikeman", "", false},
		{"man at arms man at arms", "man-at-arms man-at-arms", true},
		{"man at arms elite man at arms", "man-at-arms elite man-at-arms", true},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got, ok := a.Apply(tc.query)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultAliases_ManAtArms(t *testing.T) {
	table := match.DefaultAliases()
	require.NotEmpty(t, table)
	assert.Equal(t, "man at arms", table[0].From)
	assert.Equal(t, "man-at-arms", table[0].To)
}

func TestAliasTable_Merge(t *testing.T) {
	base := match.AliasTable{{From: "man at arms", To: "man-at-arms"}}
	extra := match.AliasTable{
		{From: "man at arms", To: "ignored"},
		{From: "cho ko nu", To: "chu ko nu"},
	}
	merged := base.Merge(extra)
	require.Len(t, merged, 2)
	assert.Equal(t, "man-at-arms", merged[0].To)
	assert.Equal(t, "chu ko nu", merged[1].To)
}

func TestParseAliases(t *testing.T) {
	table, err := match.ParseAliases([]byte(`
aliases:
  - from: "Cho-Ko-Nu"
    to: " Chu Ko Nu "
    note: misspelled in the unit list
`))
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "cho ko nu", table[0].From)
	assert.Equal(t, "chu ko nu", table[0].To)
	assert.Equal(t, "misspelled in the unit list", table[0].Note)
}

func TestParseAliases_Invalid(t *testing.T) {
	_, err := match.ParseAliases([]byte("aliases:\n  - from: \"\"\n    to: x\n"))
	assert.Error(t, err)

	_, err = match.ParseAliases([]byte("aliases: [unterminated"))
	assert.Error(t, err)
}

func TestLoadAliases(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/aliases.yaml", []byte("aliases:\n  - from: a b\n    to: a-b\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/broken.yaml", []byte("aliases:\n  - from: ''\n    to: ''\n"), 0644))

	table, err := match.LoadAliases(fs, "/aliases.yaml")
	require.NoError(t, err)
	assert.Equal(t, match.AliasTable{{From: "a b", To: "a-b"}}, table)

	_, err = match.LoadAliases(fs, "/missing.yaml")
	assert.ErrorIs(t, err, importer.ErrMissingInput)

	_, err = match.LoadAliases(fs, "/broken.yaml")
	assert.ErrorIs(t, err, importer.ErrMalformedInput)
}
