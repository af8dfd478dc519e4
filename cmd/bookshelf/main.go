// Command bookshelf serves the bookshelf API and manages its database.
//
//	bookshelf serve
//	bookshelf migrate
//	bookshelf seed
//	bookshelf user:create-admin root@example.com
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bookshelf/app/routes"
	"github.com/shashiranjanraj/bookshelf/config"
	"github.com/shashiranjanraj/bookshelf/pkg/app"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/bookshelf/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bookshelf",
	Short:         "Bookshelf users and books API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(userPromoteCmd)
	rootCmd.AddCommand(userCreateAdminCmd)
}

// boot loads the config and builds the application with the API routes.
func boot() (*app.Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a := app.New(cfg).Routes(routes.RegisterAPI)
	if err := a.SetupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	return a, nil
}
