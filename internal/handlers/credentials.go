package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/labstack/echo/v4"
)

// Credential reads never include the stored key; every response goes through
// the CredentialStatus projection.

func GetCredentials(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		credentials, err := store.GetCredentials()
		if err != nil {
			return err
		}
		statuses := make([]model.CredentialStatus, 0, len(credentials))
		for i := range credentials {
			statuses = append(statuses, credentials[i].Status())
		}
		return c.JSON(http.StatusOK, statuses)
	}
}

type saveCredentialRequest struct {
	Name   string                 `json:"name"`
	APIKey string                 `json:"apiKey"`
	Status model.CredentialHealth `json:"status"`
}

func SaveCredential(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := saveCredentialRequest{}
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if request.Name == "" || request.APIKey == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and apiKey are required"})
		}
		if request.Status == "" {
			request.Status = model.CredentialActive
		}

		credential := &model.Credential{
			Name:   request.Name,
			APIKey: request.APIKey,
			Health: request.Status,
		}
		if err := store.UpsertCredential(credential); err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, credential.Status())
	}
}

type updateCredentialRequest struct {
	Status model.CredentialHealth `json:"status"`
}

func UpdateCredential(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := updateCredentialRequest{}
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if request.Status == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
		}

		name := c.Param("name")
		if err := store.UpdateCredentialHealth(name, request.Status, time.Now().UTC()); err != nil {
			if errors.Is(err, model.ErrorCredentialNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "credential not found"})
			}
			return err
		}

		credential, err := store.GetCredential(name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, credential.Status())
	}
}
