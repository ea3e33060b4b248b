package mcapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserController struct {
	userStor stor.UserStor
}

func NewUserController(userStor stor.UserStor) *UserController {
	return &UserController{userStor: userStor}
}

func (c *UserController) GetUser(ctx echo.Context) error {
	userID, err := idParam(ctx)
	if err != nil {
		return err
	}

	user, err := c.userStor.GetUserByID(userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Message: "user not found"})
	case err != nil:
		return errors.Wrapf(err, "loading user %d", userID)
	}

	return ctx.JSON(http.StatusOK, LoadResponse{Results: user.ToAttrs()})
}
