// lotsctl is the ops companion to the Solterra API server: it seeds the
// canonical lot records into a fresh database and inspects the inventory
// the tour engine sees.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/solterra-dev/solterra/api/internal/config"
	"github.com/solterra-dev/solterra/api/internal/database"
	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/repository"
	"github.com/solterra-dev/solterra/api/internal/tour"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "lotsctl",
		Short:         "Operations helper for the Solterra lot inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSeedCmd())
	root.AddCommand(newListCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lotsctl: %v\n", err)
		os.Exit(1)
	}
}

// seedLots are the initial development lots. Seeding is idempotent: lots
// whose slug already exists are left untouched.
func seedLots() []models.Lot {
	describe := func(s string) *string { return &s }
	return []models.Lot{
		{
			Slug:        "lote-1",
			Number:      "1",
			Status:      models.StatusAvailable,
			Price:       15000,
			Currency:    "USD",
			Dimensions:  "10m x 30m",
			Area:        300,
			Description: describe("Excelente lote cerca de la entrada principal con orientación Norte."),
		},
		{
			Slug:        "lote-2",
			Number:      "2",
			Status:      models.StatusReserved,
			Price:       18000,
			Currency:    "USD",
			Dimensions:  "12m x 30m",
			Area:        360,
			Description: describe("Lote amplio con vista al parque central."),
		},
		{
			Slug:        "lote-3",
			Number:      "3",
			Status:      models.StatusSold,
			Price:       12000,
			Currency:    "USD",
			Dimensions:  "10m x 25m",
			Area:        250,
			Description: describe("Oportunidad de inversión."),
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the canonical development lots into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			repo := repository.NewLotRepository(db)

			for _, lot := range seedLots() {
				existing, err := repo.FindBySlug(ctx, lot.Slug)
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Printf("skip %s (already present)\n", lot.Slug)
					continue
				}

				seeded := lot
				if err := repo.Create(ctx, &seeded); err != nil {
					return err
				}
				fmt.Printf("created %s with id %d\n", seeded.Slug, seeded.ID)
			}

			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var inventoryURL string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the inventory exactly as the tour engine fetches it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inventoryURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				inventoryURL = cfg.Tour.InventoryURL
			}

			client := tour.NewInventoryClient(inventoryURL, logger.NewNop())
			snapshot, err := client.FetchSnapshot(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNUMBER\tSTATUS\tPRICE\tAREA")
			for _, lot := range snapshot.Lots {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %.0f\t%.0f m2\n",
					lot.Slug, lot.Number, lot.Status, lot.Currency, lot.Price, lot.Area)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\nfingerprint: %d (%d lots)\n", snapshot.Fingerprint, len(snapshot.Lots))
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryURL, "url", "", "inventory endpoint (defaults to TOUR_INVENTORY_URL)")
	return cmd
}
