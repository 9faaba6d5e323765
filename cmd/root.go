package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-orders/config"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/utils"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Restaurant order service",
	Long: `Backend for the restaurant cart, order board and product admin.

Running without a subcommand starts the HTTP server. Settings come from the
environment (RESTO_* variables, optionally from a .env file).`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads the config, sets up logging and connects to the database
// with the schema migrated. Every subcommand starts here.
func openStore() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}
	return cfg, db, nil
}
