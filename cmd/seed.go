package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-orders/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample products and tables into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Seed(db)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
