package handlers

import (
	"net/http"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const testWorkflowInput = "This is a test message for the social media automation workflow"

type generateRequest struct {
	Input string `json:"input"`
}

// GenerateContent is the manual trigger: it drafts a post from free-text
// input and parks it pending, skipping the webhook path entirely.
func GenerateContent(generator Generator, workflow Workflow) echo.HandlerFunc {
	return func(c echo.Context) error {
		request := generateRequest{}
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		if request.Input == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "input is required"})
		}

		content := generator.Generate(c.Request().Context(), request.Input)
		post, err := workflow.Create(c.Request().Context(), &model.CreatePostParams{
			Content:     content,
			AIGenerated: true,
		})
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, echo.Map{"content": content, "postId": post.ID})
	}
}

func GetWorkflows(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		workflows, err := store.GetWorkflows()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, workflows)
	}
}

// TestWorkflow runs the draft pipeline against a canned input and records
// the run on the workflow registry row.
func TestWorkflow(generator Generator, workflow Workflow, store Store, workflowName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		content := generator.Generate(c.Request().Context(), testWorkflowInput)
		post, err := workflow.Create(c.Request().Context(), &model.CreatePostParams{
			Content:     content,
			AIGenerated: true,
		})
		if err != nil {
			return err
		}

		id, err := store.EnsureWorkflow(workflowName)
		if err != nil {
			log.Errorf("ensuring workflow row: %+v", err)
		} else if err := store.RecordWorkflowRun(id, true, time.Now().UTC()); err != nil {
			log.Errorf("recording workflow run: %+v", err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"message":          "Test workflow completed successfully",
			"generatedContent": content,
			"postId":           post.ID,
		})
	}
}
