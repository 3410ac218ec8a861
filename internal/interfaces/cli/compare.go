package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCompareCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare products",
	}
	cmd.AddCommand(
		newCompareRunCommand(opts),
		newCompareSpecsCommand(opts),
		newCompareBestValueCommand(opts),
	)
	return cmd
}

func newCompareRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <product-id> <product-id> [product-id...]",
		Short: "Full comparison of 2 to 10 products",
		Args:  cobra.RangeArgs(2, 10),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			cmp, err := c.Comparisons().Compare(cmd.Context(), args)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), cmp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Best price: %s (%s) at %s\n\n",
				cmp.MejorPrecio.ID, cmp.MejorPrecio.Nombre, cmp.MejorPrecio.Precio.StringFixed(2))

			keys := make([]string, 0, len(cmp.Diferencias))
			for k := range cmp.Diferencias {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			header := "DIFERENCIA"
			for _, p := range cmp.Productos {
				header += "\t" + p.ID
			}
			fmt.Fprintln(w, header)
			for _, k := range keys {
				row := k
				for _, v := range cmp.Diferencias[k] {
					row += fmt.Sprintf("\t%v", v)
				}
				fmt.Fprintln(w, row)
			}
			return w.Flush()
		},
	}
}

func newCompareSpecsCommand(opts *RootOptions) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "specs <product-id> <product-id> [product-id...]",
		Short: "Compare selected specifications only",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(specs) == 0 {
				return fmt.Errorf("at least one --spec is required")
			}

			c, err := opts.Client()
			if err != nil {
				return err
			}
			table, err := c.Comparisons().CompareBySpecs(cmd.Context(), args, specs)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), table)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ESPECIFICACION\t"+strings.Join(args, "\t"))
			for _, spec := range specs {
				row := spec
				for _, id := range args {
					if v := table[spec][id]; v != nil {
						row += "\t" + *v
					} else {
						row += "\t-"
					}
				}
				fmt.Fprintln(w, row)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&specs, "spec", nil, "specification to compare (repeatable)")
	return cmd
}

func newCompareBestValueCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "best-value <category>",
		Short: "Rank a category's products by value score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			entries, err := c.Comparisons().BestValue(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tRAM_GB\tALMACENAMIENTO_GB\tVALOR")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\n",
					e.ID, e.Nombre, e.Precio.StringFixed(2), e.RAMGB, e.AlmacenamientoGB, e.ValorScore)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results")
	return cmd
}
