package handlers

import (
	"errors"
	"net/http"

	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/labstack/echo/v4"
)

func RegisterUser(authService AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateUserParams{}
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		user, err := authService.Register(params)
		if err != nil {
			if errors.Is(err, model.ErrorInvalidUsernameOrPassword) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
			}
			return err
		}
		return c.JSON(http.StatusCreated, user)
	}
}

func Login(authService AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreateUserParams{}
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		tokenString, err := authService.Login(params.Username, params.Password)
		if err != nil {
			if errors.Is(err, model.ErrorInvalidUsernameOrPassword) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
			}
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"token": tokenString})
	}
}
