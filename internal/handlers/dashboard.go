package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const recentMessageLimit = 10

func GetDashboardStats(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := store.GetDashboardStats(time.Now().UTC())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func GetRecentMessages(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		messages, err := store.GetRecentInboundMessages(recentMessageLimit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messages)
	}
}
