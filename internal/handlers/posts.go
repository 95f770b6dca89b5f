package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/pkg/token"
	"github.com/labstack/echo/v4"
)

func GetPosts(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		posts, err := store.GetPosts()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, posts)
	}
}

func GetPostsByStatus(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := model.PostStatus(c.Param("status"))
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		posts, err := store.GetPostsByStatus(status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, posts)
	}
}

func CreatePost(workflow Workflow) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.CreatePostParams{}
		if err := c.Bind(params); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if params.Content == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
		}
		post, err := workflow.Create(c.Request().Context(), params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, post)
	}
}

type decideRequest struct {
	Status model.PostStatus `json:"status"`
}

// DecidePost applies a manual approve/reject. A publish failure is not an
// HTTP error; the response carries the post in whatever state the decision
// left it. A duplicate decision is a no-op that returns the current post.
func DecidePost(workflow Workflow) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := decideRequest{}
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}

		var action token.Action
		switch request.Status {
		case model.PostStatusApproved:
			action = token.ActionApprove
		case model.PostStatusRejected:
			action = token.ActionReject
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
		}

		post, err := workflow.Decide(c.Request().Context(), model.PostID(c.Param("id")), action)
		if err != nil {
			if errors.Is(err, model.ErrorPostNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
			}
			if errors.Is(err, model.ErrorInvalidTransition) {
				return c.JSON(http.StatusOK, post)
			}
			return err
		}

		return c.JSON(http.StatusOK, post)
	}
}

// UpdatePostMetrics accepts an engagement blob for a published post. The
// numbers are pass-through; nothing is computed from them here.
func UpdatePostMetrics(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := json.RawMessage{}
		if err := c.Bind(&body); err != nil || len(body) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}

		err := store.UpdatePostMetrics(model.PostID(c.Param("id")), string(body))
		if err != nil {
			if errors.Is(err, model.ErrorPostNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "no published post with that id"})
			}
			return err
		}

		post, err := store.GetPost(model.PostID(c.Param("id")))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, post)
	}
}
