package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga inicial de datos",
}

var seedProductsFlags struct {
	file      string
	latin1    bool
	semicolon bool
}

// stockctl seed products --file catalogo.csv [--latin1] [--semicolon]
var seedProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Importa productos desde CSV (name,sku,category,min_stock_level)",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedProductsFlags.file)
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()

		opts := csvimport.Options{Latin1: seedProductsFlags.latin1}
		if seedProductsFlags.semicolon {
			opts.Comma = ';'
		}
		rows, err := csvimport.ReadProducts(f, opts)
		if err != nil {
			return err
		}

		pool, log, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		products := usecase.NewProductUseCase(postgres.NewTxRunner(pool), postgres.NewProductRepository(pool))
		res, err := products.Import(cmd.Context(), rows)
		if err != nil {
			return err
		}
		log.Info().
			Str("file", seedProductsFlags.file).
			Int("inserted", len(res.Inserted)).
			Int("skipped", len(res.Skipped)).
			Msg("productos importados")
		for _, s := range res.Skipped {
			log.Debug().Str("sku", s).Msg("SKU ya existente")
		}
		return nil
	},
}

func init() {
	f := seedProductsCmd.Flags()
	f.StringVar(&seedProductsFlags.file, "file", "", "ruta del CSV")
	f.BoolVar(&seedProductsFlags.latin1, "latin1", false, "el archivo está en ISO-8859-1")
	f.BoolVar(&seedProductsFlags.semicolon, "semicolon", false, "separador ';' en vez de ','")
	_ = seedProductsCmd.MarkFlagRequired("file")
	seedCmd.AddCommand(seedProductsCmd)
}
