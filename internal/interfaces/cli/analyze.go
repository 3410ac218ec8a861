package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Market analytics",
	}
	cmd.AddCommand(
		newAnalyzePricesCommand(opts),
		newAnalyzeVendorsCommand(opts),
		newAnalyzeBrandsCommand(opts),
		newAnalyzeOverviewCommand(opts),
		newAnalyzeInsightsCommand(opts),
	)
	return cmd
}

func newAnalyzePricesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Price range per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			stats, err := c.Analysis().PriceRanges(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORIA\tMIN\tMAX\tPROMEDIO\tPRODUCTOS")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					s.Categoria, s.PrecioMinimo.StringFixed(2), s.PrecioMaximo.StringFixed(2),
					s.PrecioPromedio.StringFixed(2), s.TotalProductos)
			}
			return w.Flush()
		},
	}
}

func newAnalyzeVendorsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "Vendor statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			stats, err := c.Analysis().Vendors(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VENDEDOR\tPRODUCTOS\tPROMEDIO\tCOMPETITIVO")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%d\t%s\t%t\n",
					s.Vendedor, s.TotalProductos, s.PrecioPromedio.StringFixed(2), s.PrecioCompetitivo)
			}
			return w.Flush()
		},
	}
}

func newAnalyzeBrandsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "Brand statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			stats, err := c.Analysis().Brands(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MARCA\tPRODUCTOS\tPROMEDIO")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.Marca, s.TotalProductos, s.PrecioPromedio.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func newAnalyzeOverviewCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Condensed market summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			overview, err := c.Analysis().MarketOverview(cmd.Context())
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), overview)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Categories: %d\n", overview.TotalCategorias)
			fmt.Fprintf(out, "Vendors:    %d\n", overview.TotalVendedores)
			fmt.Fprintf(out, "Brands:     %d\n", overview.TotalMarcas)
			fmt.Fprintf(out, "Global average price: %s\n", overview.PrecioPromedioGlobal.StringFixed(2))
			if overview.CategoriaTop != nil {
				fmt.Fprintf(out, "Top category: %s (%d products)\n", overview.CategoriaTop.Nombre, overview.CategoriaTop.Productos)
			}
			if overview.VendedorTop != nil {
				fmt.Fprintf(out, "Top vendor:   %s (%d products)\n", overview.VendedorTop.Nombre, overview.VendedorTop.Productos)
			}
			return nil
		},
	}
}

func newAnalyzeInsightsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insights <category>",
		Short: "Market position of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			insights, err := c.Analysis().Insights(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), insights)
			}

			out := cmd.OutOrStdout()
			if !insights.Encontrada {
				fmt.Fprintf(out, "Category %q not found in the market\n", insights.Categoria)
				return nil
			}
			fmt.Fprintf(out, "Category:   %s\n", insights.Categoria)
			fmt.Fprintf(out, "Products:   %d\n", insights.TotalProductos)
			fmt.Fprintf(out, "Prices:     %s - %s (avg %s)\n",
				insights.PrecioMinimo.StringFixed(2), insights.PrecioMaximo.StringFixed(2), insights.PrecioPromedio.StringFixed(2))
			fmt.Fprintf(out, "Percentile: %.1f\n", insights.PercentilPrecio)
			fmt.Fprintf(out, "Competitive: %t\n", insights.PrecioCompetitivo)
			return nil
		},
	}
}
