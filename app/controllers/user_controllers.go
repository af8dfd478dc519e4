package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/app/services"
	"github.com/shashiranjanraj/bookshelf/pkg/ctx"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (u *UserController) Index(c *ctx.Context) {
	users, err := u.users.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, map[string][]models.UserView{"users": models.UserViews(users)})
}

func (u *UserController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	user, err := u.users.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, user.View())
}

func (u *UserController) Store(c *ctx.Context) {
	var in services.CreateUserInput
	if !c.BindJSON(&in) {
		return
	}
	if _, err := u.users.Create(c.Context(), in); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}

func (u *UserController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !c.DecodeJSON(&in) {
		return
	}
	if _, err := u.users.Update(c.Context(), id, in); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}

func (u *UserController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := u.users.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.OK()
}
