// Package main provides the aoe2data binary, which prepares the counter
// guide's icon assets and technology tables from raw game-data exports.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Cammf/aoe2-counter-guide/internal/config"
	"github.com/Cammf/aoe2-counter-guide/internal/icons"
	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
	"github.com/Cammf/aoe2-counter-guide/internal/observability"
	"github.com/Cammf/aoe2-counter-guide/internal/techtree"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	fs         afero.Fs
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"root":       "root",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	root := &cobra.Command{
		Use:           "aoe2data",
		Short:         "Prepare icons and technology tables for the counter guide",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Root().PersistentFlags())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().String("root", "", "project root that relative paths resolve against")
	root.PersistentFlags().String("log-level", "", "minimum log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: json or console")

	root.AddCommand(newSyncIconsCmd(a), newExtractTechsCmd(a))
	return root
}

// setup loads configuration with flag overrides and builds the run logger.
func (a *app) setup(flags *pflag.FlagSet) error {
	v, err := config.New(a.configPath)
	if err != nil {
		return err
	}
	if err := bindFlags(v, flags); err != nil {
		return err
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.cfg = cfg
	a.logger, _ = observability.WithRunID(logger)
	return nil
}

// bindFlags binds only the flags given on the command line, so unset flags
// never mask file, environment or default values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func newSyncIconsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-icons",
		Short: "Match units and civilizations to icons from an icon bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			cfg := a.cfg

			aliases := match.DefaultAliases()
			if cfg.Matching.AliasesFile != "" {
				extra, err := match.LoadAliases(a.fs, cfg.Resolve(cfg.Matching.AliasesFile))
				if err != nil {
					return fmt.Errorf("loading aliases: %w", err)
				}
				aliases = aliases.Merge(extra)
			}

			source := importer.NewFileSource(a.fs,
				cfg.Resolve(cfg.Paths.Units),
				cfg.Resolve(cfg.Paths.Civilizations),
				cfg.Resolve(cfg.Paths.Dataset),
			)
			syncer := icons.NewSyncer(a.fs, source, icons.Paths{
				Root:       cfg.Root,
				IconSource: cfg.Resolve(cfg.Paths.IconSource),
				UnitsOut:   cfg.Resolve(cfg.Paths.UnitsOut),
				CivsOut:    cfg.Resolve(cfg.Paths.CivsOut),
				Manifest:   cfg.Resolve(cfg.Paths.Manifest),
			}, icons.Options{
				Aliases:         aliases,
				DerivedPrefixes: cfg.Matching.DerivedPrefixes,
			}, a.logger)

			summary, err := syncer.Run()
			if err != nil {
				return err
			}
			printLines(cmd, summary.Lines())
			a.logger.Debug("sync-icons finished", zap.Duration("elapsed", time.Since(start)))
			return nil
		},
	}
}

func newExtractTechsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract-techs",
		Short: "Extract technology definitions and per-civilization tech trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			summary, err := techtree.NewExtractor(a.logger).Run(a.fs, techtree.Paths{
				Data:            cfg.Resolve(cfg.Paths.TechtreeData),
				Strings:         cfg.Resolve(cfg.Paths.TechtreeStrings),
				Civilizations:   cfg.Resolve(cfg.Paths.Civilizations),
				Technologies:    cfg.Resolve(cfg.Paths.Technologies),
				CivTechnologies: cfg.Resolve(cfg.Paths.CivTechnologies),
			})
			if err != nil {
				return err
			}
			printLines(cmd, summary.Lines())
			return nil
		},
	}
}

func printLines(cmd *cobra.Command, lines []string) {
	out := cmd.OutOrStdout()
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
}
