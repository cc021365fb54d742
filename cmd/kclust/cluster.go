package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/codec"
	"github.com/hupe1980/kclust/dataset"
	"github.com/hupe1980/kclust/internal/compress"
	"github.com/hupe1980/kclust/internal/config"
	"github.com/hupe1980/kclust/model"
	"github.com/hupe1980/kclust/snapshot"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type clusterFlags struct {
	input         string
	nameColumn    string
	labelColumn   string
	features      []string
	delimiter     string
	k             int
	trials        int
	seed          int64
	maxIterations int
	maxRetries    int
	parallelism   int
	scale         string
	store         string
	compression   string
	keep          int
}

func newClusterCmd(g *globalFlags) *cobra.Command {
	f := &clusterFlags{}

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster the examples of a CSV file",
		Long: `Load examples from a CSV file, optionally rescale the features, run
multi-trial k-means and print the winning clustering.

With --store the result is saved as a snapshot and CURRENT is pointed at it.
Flags override values from the configuration file.`,
		Example: `  kclust cluster --input mammals.csv --label-column class --k 3 --trials 20 --scale zscore
  kclust cluster -c kclust.yaml --store file://./snapshots`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCluster(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", `CSV input file, "-" for stdin`)
	fl.StringVar(&f.nameColumn, "name-column", "", "column holding example names")
	fl.StringVar(&f.labelColumn, "label-column", "", "column holding example labels")
	fl.StringSliceVar(&f.features, "features", nil, "feature columns (default: all other columns)")
	fl.StringVar(&f.delimiter, "delimiter", "", "field delimiter")
	fl.IntVarP(&f.k, "k", "k", 0, "number of clusters")
	fl.IntVarP(&f.trials, "trials", "n", 0, "number of random restarts")
	fl.Int64Var(&f.seed, "seed", 0, "master seed (default: time-based)")
	fl.IntVar(&f.maxIterations, "max-iterations", 0, "iteration cap per pass, 0 for unbounded")
	fl.IntVar(&f.maxRetries, "max-retries", 0, "retries per trial after an empty cluster, -1 for unbounded")
	fl.IntVarP(&f.parallelism, "parallelism", "p", 0, "trials run concurrently (default: 1)")
	fl.StringVar(&f.scale, "scale", "", "feature scaling: none, zscore or minmax")
	fl.StringVar(&f.store, "store", "", "snapshot store URI")
	fl.StringVar(&f.compression, "compression", "", "snapshot compression: none, lz4 or zstd")
	fl.IntVar(&f.keep, "keep", 0, "prune all but the newest N snapshots after saving")

	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f *clusterFlags) apply(fl *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fl.Changed(name) {
			fn()
		}
	}
	set("input", func() { cfg.Input.Path = f.input })
	set("name-column", func() { cfg.Input.NameColumn = f.nameColumn })
	set("label-column", func() { cfg.Input.LabelColumn = f.labelColumn })
	set("features", func() { cfg.Input.Features = f.features })
	set("delimiter", func() { cfg.Input.Delimiter = f.delimiter })
	set("k", func() { cfg.Clustering.K = f.k })
	set("trials", func() { cfg.Clustering.Trials = f.trials })
	set("seed", func() { cfg.Clustering.Seed = &f.seed })
	set("max-iterations", func() { cfg.Clustering.MaxIterations = f.maxIterations })
	set("max-retries", func() { cfg.Clustering.MaxRetries = f.maxRetries })
	set("parallelism", func() { cfg.Clustering.Parallelism = f.parallelism })
	set("scale", func() { cfg.Clustering.Scale = f.scale })
	set("store", func() { cfg.Store.URI = f.store })
	set("compression", func() { cfg.Store.Compression = f.compression })
	set("keep", func() { cfg.Store.Keep = f.keep })
}

func runCluster(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	logger, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}

	examples, err := readExamples(cmd, cfg.Input)
	if err != nil {
		return err
	}
	logger.WithCount(len(examples)).InfoContext(ctx, "loaded examples", "input", cfg.Input.Path)

	switch cfg.Clustering.Scale {
	case config.ScaleZScore:
		examples, err = dataset.ZScale(examples)
	case config.ScaleMinMax:
		examples, err = dataset.MinMax(examples)
	}
	if err != nil {
		return fmt.Errorf("rescale: %w", err)
	}

	metrics := &kclust.BasicMetricsCollector{}
	opts := append(cfg.Clustering.Options(),
		kclust.WithLogger(logger),
		kclust.WithMetricsCollector(metrics),
	)

	res, err := kclust.Cluster(ctx, examples, cfg.Clustering.K, cfg.Clustering.Trials, opts...)
	if err != nil {
		return err
	}

	stats := metrics.GetStats()
	logger.DebugContext(ctx, "metrics",
		"trials", stats.TrialCount,
		"retries", stats.RetryCount,
		"avg_iterations", stats.TrialAvgIteration,
	)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.String())
	fmt.Fprintf(out, "best trial %d of %d, seed %d\n", res.Best, len(res.Trials), res.Seed)

	if cfg.Store.URI == "" {
		return nil
	}
	return saveSnapshot(cmd, cfg.Store, logger, examples, res)
}

func readExamples(cmd *cobra.Command, in config.InputConfig) ([]*model.Example, error) {
	var r io.Reader
	switch in.Path {
	case "":
		return nil, fmt.Errorf("no input: set --input or input.path")
	case "-":
		r = cmd.InOrStdin()
	default:
		file, err := os.Open(in.Path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	examples, err := dataset.LoadCSV(r, dataset.Options{
		NameColumn:  in.NameColumn,
		LabelColumn: in.LabelColumn,
		Features:    in.Features,
		Comma:       in.Comma(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	return examples, nil
}

func saveSnapshot(cmd *cobra.Command, cfg config.StoreConfig, logger *kclust.Logger, examples []*model.Example, res *kclust.Result) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg.URI, 0)
	if err != nil {
		return err
	}

	c, _ := codec.ByName(cfg.Codec)
	ct, err := compress.ParseType(cfg.Compression)
	if err != nil {
		return err
	}

	snap, err := snapshot.FromResult(examples, res)
	if err != nil {
		return err
	}
	name, err := snapshot.NewWriter(
		snapshot.WithCodec(c),
		snapshot.WithCompression(ct),
		snapshot.WithIOLimit(cfg.IOLimit),
	).Save(ctx, store, snap)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "saved snapshot", "name", name, "store", cfg.URI)
	fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot %s\n", name)

	if cfg.Keep > 0 {
		deleted, err := snapshot.Prune(ctx, store, cfg.Keep)
		if err != nil {
			return err
		}
		logger.WithCount(len(deleted)).InfoContext(ctx, "pruned snapshots")
	}
	return nil
}
