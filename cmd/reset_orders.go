package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/services"
)

var confirmReset bool

var resetOrdersCmd = &cobra.Command{
	Use:   "reset-orders",
	Short: "Delete every order and mark every table available",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return fmt.Errorf("refusing to delete all orders without --yes")
		}
		_, db, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close(db)

		// nobody is subscribed from the CLI
		orders := services.NewOrderService(repository.NewGormStore(db), kds.NewHub())
		return orders.DeleteAll(cmd.Context())
	},
}

func init() {
	resetOrdersCmd.Flags().BoolVar(&confirmReset, "yes", false, "confirm the reset")
	rootCmd.AddCommand(resetOrdersCmd)
}
