// Package schema exposes users and books as a read-only GraphQL schema.
package schema

import (
	"context"
	"errors"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/graphql"
)

type UserReader interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (models.User, error)
}

type BookReader interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id uint) (models.Book, error)
	BooksByUser(ctx context.Context, userID uint) ([]models.Book, error)
}

// New builds the schema. Field names follow the REST JSON views.
//
//	{ user(id: 1) { email books { title pages } } }
func New(users UserReader, books BookReader) (gql.Schema, error) {
	bookType := gql.NewObject(gql.ObjectConfig{
		Name: "Book",
		Fields: gql.Fields{
			"book_id": &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"title":   &gql.Field{Type: gql.String},
			"author":  &gql.Field{Type: gql.String},
			"pages":   &gql.Field{Type: gql.Int},
			"summary": &gql.Field{Type: gql.String},
			"img":     &gql.Field{Type: gql.String},
			"subject": &gql.Field{Type: gql.String},
			"user_id": &gql.Field{Type: gql.NewNonNull(gql.Int)},
		},
	})

	userType := gql.NewObject(gql.ObjectConfig{
		Name: "User",
		Fields: gql.Fields{
			"user_id": &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"email":   &gql.Field{Type: gql.String},
			"books": &gql.Field{
				Type: gql.NewList(bookType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					u, ok := p.Source.(models.UserView)
					if !ok {
						return nil, nil
					}
					owned, err := books.BooksByUser(p.Context, u.UserID)
					if err != nil {
						return nil, public(err)
					}
					return models.BookViews(owned), nil
				},
			},
		},
	})

	idArg := gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}}

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"users": &gql.Field{
				Type: gql.NewList(userType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					all, err := users.List(p.Context)
					if err != nil {
						return nil, public(err)
					}
					return models.UserViews(all), nil
				},
			},
			"user": &gql.Field{
				Type: userType,
				Args: idArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, ok := idFrom(p)
					if !ok {
						return nil, nil
					}
					u, err := users.Get(p.Context, id)
					if err != nil {
						return orNil(err)
					}
					return u.View(), nil
				},
			},
			"books": &gql.Field{
				Type: gql.NewList(bookType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					all, err := books.List(p.Context)
					if err != nil {
						return nil, public(err)
					}
					return models.BookViews(all), nil
				},
			},
			"book": &gql.Field{
				Type: bookType,
				Args: idArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, ok := idFrom(p)
					if !ok {
						return nil, nil
					}
					b, err := books.Get(p.Context, id)
					if err != nil {
						return orNil(err)
					}
					return b.View(), nil
				},
			},
			"booksByUser": &gql.Field{
				Type: gql.NewList(bookType),
				Args: gql.FieldConfigArgument{"userId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["userId"].(int)
					if id <= 0 {
						return nil, apperr.NotFound("user not found")
					}
					owned, err := books.BooksByUser(p.Context, uint(id))
					if err != nil {
						return nil, public(err)
					}
					return models.BookViews(owned), nil
				},
			},
		},
	})

	return graphql.NewSchema(query)
}

func idFrom(p gql.ResolveParams) (uint, bool) {
	id, ok := p.Args["id"].(int)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// orNil turns a not-found lookup into a null field.
func orNil(err error) (interface{}, error) {
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return nil, public(err)
}

// public hides internal failures from query results.
func public(err error) error {
	return errors.New(apperr.PublicMessage(err))
}
