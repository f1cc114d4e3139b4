package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/pretty"
)

// EncodeJSON serialises v with two-space indentation, every object's keys
// sorted and every non-empty array expanded one element per line, followed
// by a single newline. Equal values always encode to identical bytes.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	opts := *pretty.DefaultOptions
	opts.SortKeys = true
	// A zero width turns off pretty's single-line arrays.
	opts.Width = 0
	out := pretty.PrettyOptions(buf.Bytes(), &opts)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// WriteOutput encodes v with EncodeJSON and replaces path with the result.
// The document is written to a sibling temporary file first and renamed into
// place.
//
// Postcondition: path holds the complete encoding of v, or a non-nil error
// is returned and path is unchanged.
func WriteOutput(fs afero.Fs, path string, v any) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("serialising %s: %w", path, err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
