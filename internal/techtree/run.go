package techtree

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
)

// Paths locates the inputs and outputs of an extraction.
type Paths struct {
	Data            string
	Strings         string
	Civilizations   string
	Technologies    string
	CivTechnologies string
}

// Summary counts the rows written.
type Summary struct {
	TechDefs          int
	CivsWithTechTrees int
}

// Lines renders the summary as "key value" lines.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("tech_defs %d", s.TechDefs),
		fmt.Sprintf("civs_with_techtrees %d", s.CivsWithTechTrees),
	}
}

// Run reads the export and the project civilization list, extracts both
// tables and replaces the two output documents.
//
// Postcondition: both outputs are replaced, or a non-nil error is returned.
func (x *Extractor) Run(fs afero.Fs, paths Paths) (Summary, error) {
	start := time.Now()

	data, err := importer.ReadInput(fs, paths.Data)
	if err != nil {
		return Summary{}, err
	}
	langStrings, err := importer.ReadInput(fs, paths.Strings)
	if err != nil {
		return Summary{}, err
	}
	civs, warnings, err := importer.LoadEntries(fs, paths.Civilizations, importer.KindCivilization)
	if err != nil {
		return Summary{}, err
	}
	for _, w := range warnings {
		x.logger.Warn("input record skipped", zap.String("detail", w))
	}

	res, err := x.Extract(data, langStrings, civs)
	if err != nil {
		return Summary{}, fmt.Errorf("extracting %s: %w", paths.Data, err)
	}

	if err := importer.WriteOutput(fs, paths.Technologies, res.Technologies); err != nil {
		return Summary{}, err
	}
	if err := importer.WriteOutput(fs, paths.CivTechnologies, res.CivTechnologies); err != nil {
		return Summary{}, err
	}

	s := Summary{TechDefs: len(res.Technologies), CivsWithTechTrees: len(res.CivTechnologies)}
	x.logger.Info("tech extraction complete",
		zap.Int("tech_defs", s.TechDefs),
		zap.Int("civs_with_techtrees", s.CivsWithTechTrees),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}
