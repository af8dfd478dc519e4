package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shashiranjanraj/bookshelf/pkg/migration"
)

// Migrate runs every pending migration.
func (a *Application) Migrate(out io.Writer) error {
	db, err := a.DB()
	if err != nil {
		return err
	}
	return migration.New(db, out).Run()
}

// Rollback reverses the last migration batch.
func (a *Application) Rollback(out io.Writer) error {
	db, err := a.DB()
	if err != nil {
		return err
	}
	return migration.New(db, out).Rollback()
}

// MigrationStatus prints each migration and the batch that applied it.
func (a *Application) MigrationStatus(out io.Writer) error {
	db, err := a.DB()
	if err != nil {
		return err
	}
	return migration.New(db, out).PrintStatus()
}

// PrintRoutes writes the route table.
func (a *Application) PrintRoutes(out io.Writer) error {
	routes, err := a.RouteTable()
	if err != nil {
		return err
	}
	if len(routes) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 6), strings.Repeat("-", 4), strings.Repeat("-", 4))
	for _, ri := range routes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
