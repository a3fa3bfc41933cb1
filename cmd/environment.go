package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/volcans/core/catalogue"
	"github.com/adalundhe/volcans/core/config"
	"github.com/adalundhe/volcans/core/dataset"
	"github.com/adalundhe/volcans/core/storage"
)

// environment is the resolved configuration and logger shared by every
// command.
type environment struct {
	cfg    *config.Config
	dirs   *storage.Dirs
	logger *slog.Logger
}

// loadEnvironment layers the config files, the environment and the global
// flags. A --data directory without --bundle drops the configured bundle so
// the directory is what gets loaded.
func loadEnvironment() (*environment, error) {
	dirs, err := storage.ResolveDirs()
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	if configPath != "" {
		opts = append(opts, config.WithFile(configPath))
	}
	m := config.NewManager(dirs, opts...)
	if err := m.Load(); err != nil {
		return nil, err
	}

	cfg := *m.Get()
	if dataDir != "" {
		cfg.Data.Dir = dataDir
		cfg.Data.Bundle = ""
	}
	if bundlePath != "" {
		cfg.Data.Bundle = bundlePath
	}
	if colorMode != "" {
		cfg.Output.Color = strings.ToLower(colorMode)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &environment{cfg: &cfg, dirs: dirs, logger: slog.Default()}, nil
}

// openDataset loads the dataset named by the configuration.
func (e *environment) openDataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, err := dataset.Open(ctx,
		dataset.Location{Dir: e.cfg.Data.Dir, Bundle: e.cfg.Data.Bundle},
		catalogue.WithSuggestionLimit(e.cfg.Analogy.SuggestionLimit),
		catalogue.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.logger.Debug("loaded dataset", "source", ds.Source, "path", ds.Path, "volcanoes", ds.Len())
	return ds, nil
}

// intFlag returns the flag value when it was given and fallback otherwise.
func intFlag(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
