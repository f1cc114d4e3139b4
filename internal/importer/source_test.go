package importer_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

func memFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestLoadEntries_SkipsBlankAndDuplicate(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/data/units.json", `[
		{"id": "archer", "name": "Archer", "cost": {"wood": 25}},
		{"id": "", "name": "Nameless"},
		{"id": "pikeman"},
		{"id": "archer", "name": "Archer Again"},
		{"id": "elite_skirmisher", "name": " Elite Skirmisher "}
	]`)

	entries, warnings, err := importer.LoadEntries(fs, "/data/units.json", importer.KindUnit)
	require.NoError(t, err)
	assert.Equal(t, []importer.Entry{
		{ID: "archer", Name: "Archer", Kind: importer.KindUnit},
		{ID: "elite_skirmisher", Name: "Elite Skirmisher", Kind: importer.KindUnit},
	}, entries)
	assert.Len(t, warnings, 3)
}

func TestLoadEntries_Missing(t *testing.T) {
	_, _, err := importer.LoadEntries(afero.NewMemMapFs(), "/nope.json", importer.KindUnit)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrMissingInput)
}

func TestLoadEntries_Malformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/bad.json", `[{"id": "a",`)
	memFile(t, fs, "/object.json", `{"id": "a"}`)

	_, _, err := importer.LoadEntries(fs, "/bad.json", importer.KindUnit)
	assert.ErrorIs(t, err, importer.ErrMalformedInput)
	_, _, err = importer.LoadEntries(fs, "/object.json", importer.KindUnit)
	assert.ErrorIs(t, err, importer.ErrMalformedInput)
}

func TestLoadDataset(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/aoc.json", `{
		"objects": {"93": "Pikeman", "4": "Archer", "5": 17, "6": "  ", "24": "Archer"},
		"civilizations": {
			"Britons": {"name": "Britons", "id": 1},
			"Franks": {"name": "Franks", "id": "2"},
			"Unknown": {"name": "Unknown", "id": null},
			"Broken": "not an object"
		}
	}`)

	ds, err := importer.LoadDataset(fs, "/aoc.json")
	require.NoError(t, err)
	assert.Equal(t, []importer.Resource{
		{ID: 4, Name: "Archer"},
		{ID: 24, Name: "Archer"},
		{ID: 93, Name: "Pikeman"},
	}, ds.Objects)
	assert.Equal(t, []importer.Resource{
		{ID: 1, Name: "Britons"},
		{ID: 2, Name: "Franks"},
	}, ds.Civilizations)
}

func TestLoadDataset_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/badid.json", `{"objects": {"x12": "Archer"}}`)
	memFile(t, fs, "/badciv.json", `{"civilizations": {"A": {"name": "A", "id": "one"}}}`)
	memFile(t, fs, "/array.json", `[]`)
	memFile(t, fs, "/objects.json", `{"objects": []}`)

	for _, path := range []string{"/badid.json", "/badciv.json", "/array.json", "/objects.json"} {
		t.Run(path, func(t *testing.T) {
			_, err := importer.LoadDataset(fs, path)
			assert.ErrorIs(t, err, importer.ErrMalformedInput)
		})
	}

	_, err := importer.LoadDataset(fs, "/missing.json")
	assert.ErrorIs(t, err, importer.ErrMissingInput)
}

func TestLoadDataset_EmptySections(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/aoc.json", `{"civilizations": null}`)

	ds, err := importer.LoadDataset(fs, "/aoc.json")
	require.NoError(t, err)
	assert.Empty(t, ds.Objects)
	assert.Empty(t, ds.Civilizations)
}

func TestFileSource_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	memFile(t, fs, "/units.json", `[{"id": "archer", "name": "Archer"}, {"id": "x"}]`)
	memFile(t, fs, "/civs.json", `[{"id": "britons", "name": "Britons"}]`)
	memFile(t, fs, "/aoc.json", `{"objects": {"4": "Archer"}}`)

	in, err := importer.NewFileSource(fs, "/units.json", "/civs.json", "/aoc.json").Load()
	require.NoError(t, err)
	require.Len(t, in.Units, 1)
	require.Len(t, in.Civilizations, 1)
	assert.Equal(t, importer.KindCivilization, in.Civilizations[0].Kind)
	assert.Len(t, in.Dataset.Objects, 1)
	assert.Len(t, in.Warnings, 1)
}

func TestRequireDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/icons/objects", 0755))
	memFile(t, fs, "/file", "x")

	assert.NoError(t, importer.RequireDir(fs, "/icons"))
	assert.ErrorIs(t, importer.RequireDir(fs, "/absent"), importer.ErrMissingInput)
	assert.ErrorIs(t, importer.RequireDir(fs, "/file"), importer.ErrMissingInput)
}
