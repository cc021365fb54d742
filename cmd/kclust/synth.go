package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/kclust/dataset"
	"github.com/hupe1980/kclust/model"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var (
		blobs string
		sd    float64
		n     int
		seed  int64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate Gaussian blobs as CSV",
		Long: `Generate n examples around each blob center with normally distributed
noise of standard deviation sd in every dimension. Blobs are named A, B, C, ...
and their examples A0, A1, ... and labeled with the blob name.`,
		Example: `  kclust synth --blobs "3,5;6,6" --sd 1 --n 10 --seed 1 --out contrived.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n < 1 {
				return fmt.Errorf("--n must be positive, got %d", n)
			}
			centers, err := parseCenters(blobs)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed)) // nolint gosec

			var examples []*model.Example
			for i, center := range centers {
				sds := make([]float64, len(center))
				for j := range sds {
					sds[j] = sd
				}
				blob, err := dataset.Gaussian(rng, center, sds, n, blobName(i))
				if err != nil {
					return err
				}
				examples = append(examples, blob...)
			}

			if out == "" || out == "-" {
				return dataset.WriteCSV(cmd.OutOrStdout(), examples)
			}
			return writeFile(out, func(w io.Writer) error {
				return dataset.WriteCSV(w, examples)
			})
		},
	}

	cmd.Flags().StringVar(&blobs, "blobs", "3,5;6,6", `blob centers, ";" between blobs and "," between coordinates`)
	cmd.Flags().Float64Var(&sd, "sd", 1, "standard deviation in every dimension")
	cmd.Flags().IntVar(&n, "n", 10, "examples per blob")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time-based)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// parseCenters parses "x1,y1;x2,y2".
func parseCenters(s string) ([][]float64, error) {
	var centers [][]float64
	for _, blob := range strings.Split(s, ";") {
		blob = strings.TrimSpace(blob)
		if blob == "" {
			continue
		}
		var center []float64
		for _, field := range strings.Split(blob, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("blob %q: %w", blob, err)
			}
			center = append(center, v)
		}
		if len(centers) > 0 && len(center) != len(centers[0]) {
			return nil, fmt.Errorf("blob %q has %d coordinates, want %d", blob, len(center), len(centers[0]))
		}
		centers = append(centers, center)
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("no blob centers in %q", s)
	}
	return centers, nil
}

// blobName returns A..Z, then AA, AB, ...
func blobName(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
