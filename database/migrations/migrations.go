// Package migrations registers the bookshelf schema migrations. Import it for
// side effects wherever migrations are run.
package migrations
