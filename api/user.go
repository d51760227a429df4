package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"users-backend/constant"
	"users-backend/db"
	"users-backend/model"
	"users-backend/services"
	"users-backend/validator"
)

type UserHandler struct {
	repo   *services.UserRepository
	seeder *services.Seeder
}

func NewUserHandler(repo *services.UserRepository, seeder *services.Seeder) *UserHandler {
	return &UserHandler{repo: repo, seeder: seeder}
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	input := model.UserInput{}
	if ok, err := bindInput(c, &input); !ok {
		return err
	}

	user, err := h.repo.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	skip, limit, errs := validator.ListParams(c.QueryParam("skip"), c.QueryParam("limit"))
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: errs})
	}

	users, err := h.repo.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DetailUser(c echo.Context) error {
	id, inRange, errs := validator.UserID(c.Param("id"))
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: errs})
	}
	if !inRange {
		return userNotFound(c)
	}

	user, err := h.repo.Get(c.Request().Context(), id)
	if db.IsNotFound(err) {
		return userNotFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser replaces the whole record; every field must be sent.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, inRange, errs := validator.UserID(c.Param("id"))
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: errs})
	}
	input := model.UserInput{}
	if ok, err := bindInput(c, &input); !ok {
		return err
	}
	if !inRange {
		return userNotFound(c)
	}

	user, err := h.repo.Update(c.Request().Context(), id, input)
	if db.IsNotFound(err) {
		return userNotFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, inRange, errs := validator.UserID(c.Param("id"))
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: errs})
	}
	if !inRange {
		return userNotFound(c)
	}

	err := h.repo.Delete(c.Request().Context(), id)
	if db.IsNotFound(err) {
		return userNotFound(c)
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Populate inserts constant.SEED_COUNT fake users in one batch.
func (h *UserHandler) Populate(c echo.Context) error {
	inserted, err := h.seeder.Seed(c.Request().Context(), constant.SEED_COUNT)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, &PayloadMessage{
		Message: fmt.Sprintf("Successfully added %d fake users to the database.", inserted),
	})
}

func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, &PayloadMessage{Message: constant.MSG_WELCOME})
}

// bindInput decodes and validates the request body. When it reports false
// the response has been written, or err must be returned to echo.
func bindInput(c echo.Context, input *model.UserInput) (bool, error) {
	if err := c.Bind(input); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code != http.StatusBadRequest {
			return false, err
		}
		return false, c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: validator.FieldErrors(unwrapBindError(err))})
	}
	if err := c.Validate(input); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, &PayloadError{Detail: validator.FieldErrors(err)})
	}
	return true, nil
}

func unwrapBindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		return he.Internal
	}
	return err
}

func userNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, &PayloadError{Detail: constant.MSG_USER_NOT_FOUND})
}
