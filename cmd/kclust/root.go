package main

import (
	"log/slog"

	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/internal/config"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	verbose    bool
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "kclust",
		Short: "Multi-trial k-means clustering",
		Long: `kclust partitions labeled or unlabeled feature vectors into k clusters.

It runs k-means from several random starting points and keeps the clustering
with the lowest dissimilarity. Results can be stored as snapshots in memory,
on the local filesystem, in MinIO or in Amazon S3.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every iteration")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newClusterCmd(g),
		newSynthCmd(),
		newShowCmd(g),
		newVersionCmd(),
	)
	return root
}

// loadConfig returns the configuration file named by --config, or the
// defaults, with the global flags applied.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if g.configFile != "" {
		var err error
		if cfg, err = config.Load(g.configFile); err != nil {
			return nil, err
		}
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) (*kclust.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return kclust.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), opts)), nil
	}
	return kclust.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), opts)), nil
}
