package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/catalog"
)

var catalogXLSXPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import products from an XLSX file into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		path := catalogXLSXPath
		if path == "" {
			path = cfg.Catalog.Path
		}
		if path == "" {
			return eris.New("catalog file is required (--xlsx or SHOPASSIST_CATALOG_PATH)")
		}

		products, err := catalog.LoadXLSX(path)
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		count, err := st.UpsertProducts(ctx, products)
		if err != nil {
			return eris.Wrap(err, "upsert products")
		}

		zap.L().Info("catalog import complete",
			zap.Int("imported", count),
			zap.String("file", path),
		)
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored products by free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		products, err := st.ListProducts(ctx)
		if err != nil {
			return eris.Wrap(err, "list products")
		}

		matches := catalog.SearchText(products, strings.Join(args, " "), nil)
		for _, p := range matches {
			fmt.Printf("%s\t%s\t%s\t$%.2f\n", p.ID, p.Name, p.Brand, p.Price)
		}
		fmt.Printf("%d of %d products matched\n", len(matches), len(products))

		return nil
	},
}

func init() {
	catalogImportCmd.Flags().StringVar(&catalogXLSXPath, "xlsx", "", "path to XLSX catalog file")
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	rootCmd.AddCommand(catalogCmd)
}
