package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/hupe1980/kclust/snapshot"
	"github.com/spf13/cobra"
)

func newShowCmd(g *globalFlags) *cobra.Command {
	var (
		storeURI    string
		name        string
		list        bool
		assignments bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored clustering snapshot",
		Long: `Load a snapshot from a store and print its clustering report.
Without --name the snapshot named by CURRENT is shown.`,
		Example: `  kclust show --store file://./snapshots
  kclust show --store s3://my-bucket/kclust --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.URI = storeURI
			}
			if cfg.Store.URI == "" {
				return fmt.Errorf("no store: set --store or store.uri")
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg.Store.URI, cfg.Store.CacheBytes)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				names, err := snapshot.List(ctx, store)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			if name == "" {
				if name, err = snapshot.Latest(ctx, store); err != nil {
					return err
				}
			}
			snap, err := snapshot.Load(ctx, store, name)
			if err != nil {
				return err
			}

			fmt.Fprint(out, snap.String())
			if assignments {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "EXAMPLE\tLABEL\tCLUSTER")
				for i, idx := range snap.Assignments() {
					label := ""
					if l := snap.Examples[i].Label; l != nil {
						label = *l
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\n", snap.Examples[i].Name, label, idx)
				}
				return tw.Flush()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeURI, "store", "", "snapshot store URI")
	cmd.Flags().StringVar(&name, "name", "", "snapshot blob name (default: CURRENT)")
	cmd.Flags().BoolVar(&list, "list", false, "list snapshot names instead")
	cmd.Flags().BoolVar(&assignments, "assignments", false, "print the cluster of every example")
	return cmd
}
