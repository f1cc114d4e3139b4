package icons

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

// Paths locates the bundle and the outputs of a sync run.
type Paths struct {
	// Root is the project root; manifest src paths are relative to it.
	Root string
	// IconSource is the bundle root holding objects/ and civilizations/.
	IconSource string
	UnitsOut   string
	CivsOut    string
	Manifest   string
}

// Options tunes matching.
type Options struct {
	Aliases         match.AliasTable
	DerivedPrefixes []string
}

// Summary counts the outcome of a sync run.
type Summary struct {
	UnitsTotal     int
	UnitIcons      int
	UnmatchedUnits int
	CivsTotal      int
	CivIcons       int
	UnmatchedCivs  int
	ByVia          map[match.Kind]int
	Skipped        int
}

// Lines renders the summary as "key value" lines in a fixed order.
func (s Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("units_total %d", s.UnitsTotal),
		fmt.Sprintf("unit_icons %d", s.UnitIcons),
		fmt.Sprintf("unmatched_units %d", s.UnmatchedUnits),
		fmt.Sprintf("civs_total %d", s.CivsTotal),
		fmt.Sprintf("civ_icons %d", s.CivIcons),
		fmt.Sprintf("unmatched_civs %d", s.UnmatchedCivs),
	}
	kinds := make([]string, 0, len(s.ByVia))
	for k := range s.ByVia {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		lines = append(lines, fmt.Sprintf("via_%s %d", k, s.ByVia[match.Kind(k)]))
	}
	return lines
}

// Syncer runs the icon sync end to end.
type Syncer struct {
	fs     afero.Fs
	source importer.Source
	paths  Paths
	opts   Options
	logger *zap.Logger
}

// NewSyncer constructs a Syncer.
//
// Precondition: fs, source and logger must be non-nil.
func NewSyncer(fs afero.Fs, source importer.Source, paths Paths, opts Options, logger *zap.Logger) *Syncer {
	return &Syncer{fs: fs, source: source, paths: paths, opts: opts, logger: logger}
}

// Run loads the inputs, resolves every unit and civilization, copies one
// icon per resolved entry and replaces the manifest. Entries that cannot be
// resolved are recorded in the manifest; they never fail the run.
//
// Postcondition: the manifest at paths.Manifest reflects this run only, or a
// non-nil error is returned for missing or malformed inputs and output I/O
// failures.
func (s *Syncer) Run() (Summary, error) {
	overall := time.Now()

	in, err := s.source.Load()
	if err != nil {
		return Summary{}, fmt.Errorf("loading inputs: %w", err)
	}
	for _, w := range in.Warnings {
		s.logger.Warn("input record skipped", zap.String("detail", w))
	}
	if err := importer.RequireDir(s.fs, s.paths.IconSource); err != nil {
		return Summary{}, fmt.Errorf("icon bundle: %w", err)
	}
	for _, dir := range []string{s.paths.UnitsOut, s.paths.CivsOut} {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return Summary{}, fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	objects := match.BuildIndex(in.Dataset.Objects)
	civs := match.BuildIndex(in.Dataset.Civilizations)
	s.logger.Info("indices built",
		zap.Int("object_names", objects.Len()),
		zap.Int("civilization_names", civs.Len()),
	)

	b := NewBuilder(NewAssetStore(s.fs), s.paths.Root, s.logger)
	targets := []struct {
		target  Target
		entries []importer.Entry
	}{
		{Target{
			Kind:      importer.KindUnit,
			Matcher:   match.NewMatcher(objects, s.opts.Aliases),
			SourceDir: filepath.Join(s.paths.IconSource, "objects"),
			OutDir:    s.paths.UnitsOut,
			Derived:   DerivedRules{Prefixes: s.opts.DerivedPrefixes},
		}, in.Units},
		{Target{
			Kind:      importer.KindCivilization,
			Matcher:   match.NewMatcher(civs, s.opts.Aliases),
			SourceDir: filepath.Join(s.paths.IconSource, "civilizations"),
			OutDir:    s.paths.CivsOut,
		}, in.Civilizations},
	}
	for _, tg := range targets {
		if err := b.Add(tg.target, tg.entries); err != nil {
			return Summary{}, err
		}
	}

	m := b.Manifest()
	if err := importer.WriteOutput(s.fs, s.paths.Manifest, m); err != nil {
		return Summary{}, fmt.Errorf("writing manifest: %w", err)
	}

	summary := Summarize(m, len(in.Units), len(in.Civilizations))
	summary.Skipped = len(in.Warnings)
	s.logger.Info("icon sync complete",
		zap.String("manifest", s.paths.Manifest),
		zap.Int("units_total", summary.UnitsTotal),
		zap.Int("unit_icons", summary.UnitIcons),
		zap.Int("unmatched_units", summary.UnmatchedUnits),
		zap.Int("civs_total", summary.CivsTotal),
		zap.Int("civ_icons", summary.CivIcons),
		zap.Int("unmatched_civs", summary.UnmatchedCivs),
		zap.Duration("elapsed", time.Since(overall)),
	)
	return summary, nil
}

// Summarize counts the partitions of m.
func Summarize(m *Manifest, unitsTotal, civsTotal int) Summary {
	s := Summary{
		UnitsTotal:     unitsTotal,
		UnitIcons:      len(m.Units),
		UnmatchedUnits: len(m.UnmatchedUnits),
		CivsTotal:      civsTotal,
		CivIcons:       len(m.Civilizations),
		UnmatchedCivs:  len(m.UnmatchedCivs),
		ByVia:          make(map[match.Kind]int),
	}
	for _, part := range []map[string]ManifestEntry{m.Units, m.Civilizations} {
		for _, e := range part {
			s.ByVia[e.MatchedVia]++
		}
	}
	return s
}
