package cli

import (
	"errors"
	"fmt"
	"path"

	"github.com/hupe1980/vecpress/bench"
	"github.com/hupe1980/vecpress/blobstore"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/spf13/cobra"
)

// errNoArchive is returned by report commands when archive.kind is none.
var errNoArchive = errors.New("no archive configured (set archive.kind to local or minio)")

func newReportCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect archived run reports",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Render an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := g.archiveStore(cmd)
			if err != nil {
				return err
			}
			r, err := bench.LoadReport(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("failed to load report %q: %w", args[0], err)
			}
			if asJSON {
				return bench.WriteJSON(cmd.OutOrStdout(), r)
			}
			return bench.Render(cmd.OutOrStdout(), r)
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, err := g.archiveStore(cmd)
			if err != nil {
				return err
			}
			names, err := store.List(cmd.Context(), cfg.Archive.Prefix)
			if err != nil {
				return err
			}
			for _, name := range names {
				if path.Base(name) == bench.ReportName {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}

	blobs := &cobra.Command{
		Use:   "blobs <run>",
		Short: "List the encoded blobs archived with a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := g.archiveStore(cmd)
			if err != nil {
				return err
			}
			infos, err := bench.InspectBlobs(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\t%d bytes\n",
					info.Name, info.Header.N, info.Header.Dim, info.Size)
			}
			return nil
		},
	}

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must be >= 0, got %d", keep)
			}
			cfg, store, err := g.archiveStore(cmd)
			if err != nil {
				return err
			}
			removed, err := bench.PruneRuns(cmd.Context(), store, cfg.Archive.Prefix, keep)
			if err != nil {
				return fmt.Errorf("failed to prune archive: %w", err)
			}
			for _, run := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", run)
			}
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", 10, "number of newest runs to keep")

	cmd.AddCommand(show, list, blobs, prune)
	return cmd
}

func (g *globalOptions) archiveStore(cmd *cobra.Command) (*config.Config, blobstore.BlobStore, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cmd.Context(), cfg.Archive)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, errNoArchive
	}
	return cfg, store, nil
}
