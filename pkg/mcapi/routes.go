package mcapi

import (
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
)

type RouteOpts struct {
	Stors         *stor.Stors
	MinBodyLength int
}

func SetupRoutes(e *echo.Echo, opts RouteOpts) {
	postController := NewPostController(opts.Stors.PostStor, opts.MinBodyLength)
	e.GET("/posts/:id", postController.GetPost)
	e.GET("/posts/:id/comments", postController.GetPostComments)
	e.POST("/posts", postController.CreatePost)
	e.PUT("/posts/:id", postController.UpdatePost)

	userController := NewUserController(opts.Stors.UserStor)
	e.GET("/users/:id", userController.GetUser)
}
