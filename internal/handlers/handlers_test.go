package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/internal/service/auth"
	"github.com/bhagyaborus/socialsphere/internal/service/generator"
	"github.com/bhagyaborus/socialsphere/internal/service/ingest"
	"github.com/bhagyaborus/socialsphere/internal/service/workflow"
	"github.com/bhagyaborus/socialsphere/internal/store"
	"github.com/bhagyaborus/socialsphere/pkg/token"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakePublisher struct {
	calls int
	fail  bool
}

func (p *fakePublisher) Publish(ctx context.Context, post *model.Post) error {
	p.calls++
	if p.fail {
		return errors.New("publish rejected upstream")
	}
	return nil
}

type fakeNotifier struct{}

func (fakeNotifier) SendApprovalRequest(ctx context.Context, post *model.Post) error { return nil }
func (fakeNotifier) SendText(ctx context.Context, text string) error                 { return nil }
func (fakeNotifier) AnswerCallbackQuery(ctx context.Context, id, text string) error  { return nil }

type app struct {
	server    *echo.Echo
	publisher *fakePublisher
}

func newApp(t *testing.T) *app {
	t.Helper()
	db, err := store.New(&boot.Config{})
	if err != nil {
		t.Fatalf("opening store: %+v", err)
	}
	t.Cleanup(func() { db.Close() })

	publisher := &fakePublisher{}
	gen := generator.NewWithProvider(nil, nil)
	wf := workflow.New(db, publisher)
	gateway := ingest.New(db, gen, wf, fakeNotifier{})
	t.Cleanup(gateway.Close)
	authService := auth.New(db, "test-secret")

	server := echo.New()
	server.POST("/api/telegram/webhook", Webhook(gateway))
	server.GET("/api/telegram/messages", GetRecentMessages(db))
	server.GET("/api/posts", GetPosts(db))
	server.GET("/api/posts/status/:status", GetPostsByStatus(db))
	server.POST("/api/posts", CreatePost(wf))
	server.PATCH("/api/posts/:id", DecidePost(wf))
	server.PUT("/api/posts/:id/metrics", UpdatePostMetrics(db))
	server.POST("/api/content/generate", GenerateContent(gen, wf))
	server.GET("/api/workflows", GetWorkflows(db))
	server.POST("/api/workflow/test", TestWorkflow(gen, wf, db, "Test Agent"))
	server.GET("/api/dashboard/stats", GetDashboardStats(db))
	server.GET("/api/config", GetCredentials(db))
	server.POST("/api/config", SaveCredential(db))
	server.PUT("/api/config/:name", UpdateCredential(db))
	server.POST("/api/auth/register", RegisterUser(authService))
	server.POST("/api/auth/login", Login(authService))

	return &app{server: server, publisher: publisher}
}

func (a *app) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func (a *app) pendingPost(t *testing.T) model.Post {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/posts", `{"content":"drafted copy"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating post: status %d", rec.Code)
	}
	post := model.Post{}
	json.Unmarshal(rec.Body.Bytes(), &post)
	return post
}

func TestGenerateContentEndpoint(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)

	t.Run("missing input", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/content/generate", `{}`)
		assert.Equal(http.StatusBadRequest, rec.Code)
	})

	t.Run("creates a pending post", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/content/generate", `{"input":"product launch"}`)
		assert.Equal(http.StatusOK, rec.Code)

		response := struct {
			Content string `json:"content"`
			PostID  string `json:"postId"`
		}{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(generator.Fallback("product launch"), response.Content)
		assert.NotEmpty(response.PostID)

		rec = a.do(http.MethodGet, "/api/posts/status/pending", "")
		assert.Equal(http.StatusOK, rec.Code)
		posts := []model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Len(posts, 1)
	})
}

func TestDecideEndpoint(t *testing.T) {
	assert := assert.New(t)

	t.Run("unknown post id", func(t *testing.T) {
		a := newApp(t)
		rec := a.do(http.MethodPatch, "/api/posts/missing", `{"status":"approved"}`)
		assert.Equal(http.StatusNotFound, rec.Code)
	})

	t.Run("bad target status", func(t *testing.T) {
		a := newApp(t)
		post := a.pendingPost(t)
		rec := a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"posted"}`)
		assert.Equal(http.StatusBadRequest, rec.Code)
	})

	t.Run("approve lands in posted", func(t *testing.T) {
		a := newApp(t)
		post := a.pendingPost(t)

		rec := a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"approved"}`)
		assert.Equal(http.StatusOK, rec.Code)

		updated := model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(model.PostStatusPosted, updated.Status)
		assert.NotNil(updated.PublishedAt)
		assert.Equal(1, a.publisher.calls)
	})

	t.Run("publish failure is still a 200", func(t *testing.T) {
		a := newApp(t)
		a.publisher.fail = true
		post := a.pendingPost(t)

		rec := a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"approved"}`)
		assert.Equal(http.StatusOK, rec.Code)

		updated := model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(model.PostStatusFailed, updated.Status)
		assert.Nil(updated.PublishedAt)
	})

	t.Run("duplicate decision is a no-op success", func(t *testing.T) {
		a := newApp(t)
		post := a.pendingPost(t)

		rec := a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"rejected"}`)
		assert.Equal(http.StatusOK, rec.Code)

		rec = a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"approved"}`)
		assert.Equal(http.StatusOK, rec.Code)

		updated := model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(model.PostStatusRejected, updated.Status)
		assert.Equal(0, a.publisher.calls)
	})
}

func TestWebhookEndpoint(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)

	t.Run("acks malformed payloads", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/telegram/webhook", `{not json`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), `"ok":true`)
	})

	t.Run("message flows into a post", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/telegram/webhook", `{"update_id":1,"message":{"message_id":100,"chat":{"id":42},"text":"product launch"}}`)
		assert.Equal(http.StatusOK, rec.Code)

		rec = a.do(http.MethodGet, "/api/telegram/messages", "")
		assert.Equal(http.StatusOK, rec.Code)
		messages := []model.InboundMessage{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &messages))
		assert.Len(messages, 1)
		assert.True(messages[0].Processed)
	})

	t.Run("callback approves the post", func(t *testing.T) {
		posts := []model.Post{}
		rec := a.do(http.MethodGet, "/api/posts/status/pending", "")
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Len(posts, 1)

		payload := `{"update_id":2,"callback_query":{"id":"cb1","data":"` + token.Encode(token.ActionApprove, string(posts[0].ID)) + `","message":{"message_id":7,"chat":{"id":42}}}}`
		rec = a.do(http.MethodPost, "/api/telegram/webhook", payload)
		assert.Equal(http.StatusOK, rec.Code)

		rec = a.do(http.MethodGet, "/api/posts/status/posted", "")
		posted := []model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &posted))
		assert.Len(posted, 1)
	})
}

func TestCredentialEndpoints(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)

	t.Run("save", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/config", `{"name":"openai","apiKey":"sk-secret"}`)
		assert.Equal(http.StatusCreated, rec.Code)
		assert.NotContains(rec.Body.String(), "sk-secret")
	})

	t.Run("reads never leak the key", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/config", "")
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), "openai")
		assert.NotContains(rec.Body.String(), "sk-secret")
	})

	t.Run("health update", func(t *testing.T) {
		rec := a.do(http.MethodPut, "/api/config/openai", `{"status":"error"}`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), `"status":"error"`)
		assert.NotContains(rec.Body.String(), "sk-secret")
	})

	t.Run("unknown name", func(t *testing.T) {
		rec := a.do(http.MethodPut, "/api/config/ghost", `{"status":"active"}`)
		assert.Equal(http.StatusNotFound, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)
	post := a.pendingPost(t)

	t.Run("pending post has no metrics", func(t *testing.T) {
		rec := a.do(http.MethodPut, "/api/posts/"+string(post.ID)+"/metrics", `{"likes":12}`)
		assert.Equal(http.StatusNotFound, rec.Code)
	})

	t.Run("posted post accepts metrics", func(t *testing.T) {
		rec := a.do(http.MethodPatch, "/api/posts/"+string(post.ID), `{"status":"approved"}`)
		assert.Equal(http.StatusOK, rec.Code)

		rec = a.do(http.MethodPut, "/api/posts/"+string(post.ID)+"/metrics", `{"likes":12}`)
		assert.Equal(http.StatusOK, rec.Code)

		updated := model.Post{}
		assert.Nil(json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.NotNil(updated.Metrics)
	})
}

func TestWorkflowEndpoints(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)

	rec := a.do(http.MethodPost, "/api/workflow/test", "")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "Test workflow completed successfully")

	rec = a.do(http.MethodGet, "/api/workflows", "")
	assert.Equal(http.StatusOK, rec.Code)
	workflows := []model.Workflow{}
	assert.Nil(json.Unmarshal(rec.Body.Bytes(), &workflows))
	assert.Len(workflows, 1)
	assert.Equal(1, workflows[0].TotalRuns)
}

func TestAuthEndpoints(t *testing.T) {
	assert := assert.New(t)
	a := newApp(t)

	t.Run("register", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/auth/register", `{"username":"testuser","password":"password"}`)
		assert.Equal(http.StatusCreated, rec.Code)
		assert.NotContains(rec.Body.String(), "password\":")
	})

	t.Run("login", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/auth/login", `{"username":"testuser","password":"password"}`)
		assert.Equal(http.StatusOK, rec.Code)
		assert.Contains(rec.Body.String(), "token")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/auth/login", `{"username":"testuser","password":"nope"}`)
		assert.Equal(http.StatusUnauthorized, rec.Code)
	})
}
