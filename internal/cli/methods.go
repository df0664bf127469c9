package cli

import (
	"fmt"
	"slices"

	"github.com/hupe1980/vecpress"
	"github.com/hupe1980/vecpress/codec"
	"github.com/spf13/cobra"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the available compression methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			core := codec.CoreNames()

			rows := make([][]string, 0, len(vecpress.Methods()))
			for _, name := range vecpress.Methods() {
				c, err := vecpress.New(name)
				if err != nil {
					return err
				}
				kind := "baseline"
				if slices.Contains(core, name) {
					kind = "correlation-aware"
				}
				rows = append(rows, []string{name, kind, yesNo(c.Lossless())})
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), styledTable([]string{"method", "kind", "lossless"}, rows))
			return err
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
