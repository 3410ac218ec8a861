package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/client"
)

func newRecommendCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Per-user recommendations",
	}
	cmd.AddCommand(
		newRecommendUserCommand(opts),
		newRecommendBudgetCommand(opts),
		newRecommendPersonalizedCommand(opts),
	)
	return cmd
}

func newRecommendUserCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "user <user-id>",
		Short: "Scored recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			recs, err := c.Recommendations().ForUser(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			return printRecommendationTable(cmd, recs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum recommendations")
	return cmd
}

func newRecommendBudgetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <user-id>",
		Short: "Products within the user's budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.Client()
			if err != nil {
				return err
			}
			list, err := c.Recommendations().Budget(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printProductTable(cmd, list.Items)
		},
	}
}

func newRecommendPersonalizedCommand(opts *RootOptions) *cobra.Command {
	var (
		categoria, maxPrecio string
		limit                int
	)

	cmd := &cobra.Command{
		Use:   "personalized <user-id>",
		Short: "Recommendations narrowed by category and price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pOpts := client.PersonalizedOptions{Categoria: categoria, Limit: limit}
			if maxPrecio != "" {
				d, err := decimal.NewFromString(maxPrecio)
				if err != nil {
					return fmt.Errorf("invalid --max-precio: %w", err)
				}
				pOpts.MaxPrecio = &d
			}

			c, err := opts.Client()
			if err != nil {
				return err
			}
			recs, err := c.Recommendations().Personalized(cmd.Context(), args[0], pOpts)
			if err != nil {
				return err
			}
			if opts.Output == "json" {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			return printRecommendationTable(cmd, recs)
		},
	}
	cmd.Flags().StringVar(&categoria, "categoria", "", "filter by category")
	cmd.Flags().StringVar(&maxPrecio, "max-precio", "", "price ceiling")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum recommendations")
	return cmd
}

func printRecommendationTable(cmd *cobra.Command, recs *client.RecommendationList) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tRAZON\tSCORE")
	for _, rec := range recs.Items {
		score := "-"
		if rec.Score != nil {
			score = fmt.Sprintf("%.2f", *rec.Score)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Producto.ID, rec.Producto.Nombre, rec.Producto.Precio.StringFixed(2), rec.Razon, score)
	}
	return w.Flush()
}
