package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bookshelf/database/seeders"
)

// bookshelf migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return a.Migrate(cmd.OutOrStdout())
	},
}

// bookshelf migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:     "migrate:rollback",
	Aliases: []string{"migrate:down"},
	Short:   "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return a.Rollback(cmd.OutOrStdout())
	},
}

// bookshelf migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.MigrationStatus(cmd.OutOrStdout())
	},
}

// bookshelf seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		db, err := a.DB()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(cmd.Context(), db, a.Config(), cmd.OutOrStdout())
	},
}
