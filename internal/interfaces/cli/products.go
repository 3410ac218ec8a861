package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/client"
)

func newProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and search the product catalog",
	}
	cmd.AddCommand(
		newProductsListCommand(opts),
		newProductsGetCommand(opts),
		newProductsSearchCommand(opts),
		newProductsSimilarCommand(opts),
	)
	return cmd
}

func newProductsListCommand(opts *RootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			list, err := c.Products().List(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printProductTable(cmd, list.Items)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "products per page")
	return cmd
}

func newProductsGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			p, err := c.Products().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), p)
			}
			return printProductTable(cmd, []client.Product{*p})
		},
	}
}

func newProductsSearchCommand(opts *RootOptions) *cobra.Command {
	var (
		categoria, marca, keyword string
		minPrecio, maxPrecio      string
		pageSize                  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search products with semantic filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			searchOpts := client.SearchOptions{
				Categoria: categoria,
				Marca:     marca,
				Keyword:   keyword,
				PageSize:  pageSize,
			}
			if minPrecio != "" {
				d, err := decimal.NewFromString(minPrecio)
				if err != nil {
					return fmt.Errorf("invalid --min-precio: %w", err)
				}
				searchOpts.MinPrecio = &d
			}
			if maxPrecio != "" {
				d, err := decimal.NewFromString(maxPrecio)
				if err != nil {
					return fmt.Errorf("invalid --max-precio: %w", err)
				}
				searchOpts.MaxPrecio = &d
			}

			c, err := opts.Client()
			if err != nil {
				return err
			}
			list, err := c.Products().Search(cmd.Context(), searchOpts)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printProductTable(cmd, list.Items)
		},
	}
	cmd.Flags().StringVar(&categoria, "categoria", "", "filter by category")
	cmd.Flags().StringVar(&marca, "marca", "", "filter by brand")
	cmd.Flags().StringVar(&keyword, "keyword", "", "keyword in name or description")
	cmd.Flags().StringVar(&minPrecio, "min-precio", "", "minimum price")
	cmd.Flags().StringVar(&maxPrecio, "max-precio", "", "maximum price")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "products per page")
	return cmd
}

func newProductsSimilarCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <product-id>",
		Short: "Show semantically similar products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			similar, err := c.Products().Similar(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), similar)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Similar to %s (%s):\n", similar.ProductoOrigen.ID, similar.ProductoOrigen.Nombre)
			return printProductTable(cmd, similar.ProductosSimilares)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results")
	return cmd
}

func printProductTable(cmd *cobra.Command, products []client.Product) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tCATEGORIA\tMARCA\tVENDEDOR")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Nombre, p.Precio.StringFixed(2), p.Categoria, p.Marca, p.Vendedor)
	}
	return w.Flush()
}
