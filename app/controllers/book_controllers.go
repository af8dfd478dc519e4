package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/app/services"
	"github.com/shashiranjanraj/bookshelf/pkg/ctx"
)

type BookController struct {
	books *services.BookService
}

func NewBookController(books *services.BookService) *BookController {
	return &BookController{books: books}
}

func booksBody(books []models.Book) map[string][]models.BookView {
	return map[string][]models.BookView{"books": models.BookViews(books)}
}

func (b *BookController) Index(c *ctx.Context) {
	books, err := b.books.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, booksBody(books))
}

func (b *BookController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	book, err := b.books.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, book.View())
}

// ByUser answers GET /book/user/{id}.
func (b *BookController) ByUser(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	books, err := b.books.BooksByUser(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, booksBody(books))
}

func (b *BookController) Store(c *ctx.Context) {
	var in services.BookInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := b.books.Create(c.Context(), in); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}

func (b *BookController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.BookInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := b.books.Update(c.Context(), id, in); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}

func (b *BookController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := b.books.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}
