package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Webhook ingests provider updates. The response is 200 with an ack body
// whatever the payload contained; anything else would make the provider
// redeliver forever.
func Webhook(gateway Gateway) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := c.Request().Body
		defer body.Close()

		raw, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}

		gateway.HandleUpdate(c.Request().Context(), raw)

		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
}
