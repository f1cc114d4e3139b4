package importer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

var (
	// ErrMissingInput reports a required input file or directory that does not exist.
	ErrMissingInput = errors.New("missing input")
	// ErrMalformedInput reports an input document that cannot be interpreted.
	ErrMalformedInput = errors.New("malformed input")
)

// Kind tags an Entry as a unit or a civilization.
type Kind string

const (
	KindUnit         Kind = "unit"
	KindCivilization Kind = "civilization"
)

// Entry is a project-owned record that needs an icon asset.
type Entry struct {
	ID   string
	Name string
	Kind Kind
}

// Resource is an object of the external game-data export.
type Resource struct {
	ID   int
	Name string
}

// Dataset is the subset of the raw game-data export the tools consume.
// Both slices are sorted by ID, then Name.
type Dataset struct {
	Objects       []Resource
	Civilizations []Resource
}

// Inputs bundles everything a sync run reads.
type Inputs struct {
	Units         []Entry
	Civilizations []Entry
	Dataset       *Dataset
	// Warnings lists records that were skipped while loading.
	Warnings []string
}

// Source loads the inputs of a sync run.
//
// Postcondition: returns non-nil Inputs with a non-nil Dataset, or a non-nil
// error wrapping ErrMissingInput or ErrMalformedInput.
type Source interface {
	Load() (*Inputs, error)
}

var _ Source = (*FileSource)(nil)

// FileSource implements Source over three JSON documents on fs.
type FileSource struct {
	fs          afero.Fs
	unitsPath   string
	civsPath    string
	datasetPath string
}

// NewFileSource constructs a FileSource reading the project unit and
// civilization lists and the raw game-data export.
func NewFileSource(fs afero.Fs, unitsPath, civsPath, datasetPath string) *FileSource {
	return &FileSource{fs: fs, unitsPath: unitsPath, civsPath: civsPath, datasetPath: datasetPath}
}

// Load reads all three documents. The first missing or malformed document
// aborts the load.
func (s *FileSource) Load() (*Inputs, error) {
	units, unitWarnings, err := LoadEntries(s.fs, s.unitsPath, KindUnit)
	if err != nil {
		return nil, err
	}
	civs, civWarnings, err := LoadEntries(s.fs, s.civsPath, KindCivilization)
	if err != nil {
		return nil, err
	}
	ds, err := LoadDataset(s.fs, s.datasetPath)
	if err != nil {
		return nil, err
	}
	return &Inputs{
		Units:         units,
		Civilizations: civs,
		Dataset:       ds,
		Warnings:      append(unitWarnings, civWarnings...),
	}, nil
}

// LoadEntries reads a JSON array of {"id", "name"} records. Records with an
// empty id or name are skipped, as are repeated ids after their first
// occurrence; each skip produces a warning.
//
// Precondition: path must name a JSON array on fs.
// Postcondition: returns entries in document order, or a non-nil error.
func LoadEntries(fs afero.Fs, path string, kind Kind) ([]Entry, []string, error) {
	data, err := ReadInput(fs, path)
	if err != nil {
		return nil, nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: %s is not valid JSON", ErrMalformedInput, path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, nil, fmt.Errorf("%w: %s must contain a JSON array", ErrMalformedInput, path)
	}

	var (
		entries  []Entry
		warnings []string
		seen     = make(map[string]bool)
	)
	for i, rec := range doc.Array() {
		id := strings.TrimSpace(rec.Get("id").String())
		name := strings.TrimSpace(rec.Get("name").String())
		if id == "" || name == "" {
			warnings = append(warnings, fmt.Sprintf("%s: record %d skipped: empty id or name", path, i))
			continue
		}
		if seen[id] {
			warnings = append(warnings, fmt.Sprintf("%s: record %d skipped: duplicate id %q", path, i, id))
			continue
		}
		seen[id] = true
		entries = append(entries, Entry{ID: id, Name: name, Kind: kind})
	}
	return entries, warnings, nil
}

// LoadDataset reads the raw game-data export. Objects whose name is not a
// non-blank string are ignored, as are civilizations without an id.
//
// Precondition: path must name a JSON object on fs.
// Postcondition: returns a Dataset, or a non-nil error when the document is
// absent, not JSON, or carries a non-integer id.
func LoadDataset(fs afero.Fs, path string) (*Dataset, error) {
	data, err := ReadInput(fs, path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrMalformedInput, path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: %s must contain a JSON object", ErrMalformedInput, path)
	}

	ds := &Dataset{}

	objects := doc.Get("objects")
	if objects.Exists() && !objects.IsObject() {
		return nil, fmt.Errorf("%w: %s: \"objects\" must be an object", ErrMalformedInput, path)
	}
	var convErr error
	objects.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			return true
		}
		name := strings.TrimSpace(value.Str)
		if name == "" {
			return true
		}
		id, err := strconv.Atoi(key.String())
		if err != nil {
			convErr = fmt.Errorf("%w: %s: object id %q is not an integer", ErrMalformedInput, path, key.String())
			return false
		}
		ds.Objects = append(ds.Objects, Resource{ID: id, Name: name})
		return true
	})
	if convErr != nil {
		return nil, convErr
	}

	civs := doc.Get("civilizations")
	if civs.Exists() && civs.Type != gjson.Null && !civs.IsObject() {
		return nil, fmt.Errorf("%w: %s: \"civilizations\" must be an object", ErrMalformedInput, path)
	}
	civs.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		name := value.Get("name")
		rawID := value.Get("id")
		if name.Type != gjson.String || !rawID.Exists() || rawID.Type == gjson.Null {
			return true
		}
		id, err := ParseInt(rawID)
		if err != nil {
			convErr = fmt.Errorf("%w: %s: civilization %q: %v", ErrMalformedInput, path, key.String(), err)
			return false
		}
		ds.Civilizations = append(ds.Civilizations, Resource{ID: id, Name: strings.TrimSpace(name.Str)})
		return true
	})
	if convErr != nil {
		return nil, convErr
	}

	sortResources(ds.Objects)
	sortResources(ds.Civilizations)
	return ds, nil
}

// ParseInt reads an integer that the export may encode either as a JSON
// number or as a numeric string.
func ParseInt(r gjson.Result) (int, error) {
	switch r.Type {
	case gjson.Number:
		if r.Num != float64(int(r.Num)) {
			return 0, fmt.Errorf("id %s is not an integer", r.Raw)
		}
		return int(r.Num), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, fmt.Errorf("id %q is not an integer", r.Str)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("id %s is not an integer", r.Raw)
	}
}

// ReadInput reads a required input file, classifying a missing file as
// ErrMissingInput.
func ReadInput(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// RequireDir returns ErrMissingInput unless path is an existing directory on fs.
func RequireDir(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: directory %s", ErrMissingInput, path)
		}
		return fmt.Errorf("inspecting %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingInput, path)
	}
	return nil
}

func sortResources(rs []Resource) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].ID != rs[j].ID {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].Name < rs[j].Name
	})
}
