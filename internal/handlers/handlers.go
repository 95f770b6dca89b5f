// Package handlers wires the HTTP surface to the pipeline services. Each
// handler is a closure over the narrow interface it needs.
package handlers

import (
	"context"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/internal/store"
	"github.com/bhagyaborus/socialsphere/pkg/token"
)

type Gateway interface {
	HandleUpdate(ctx context.Context, raw []byte)
}

type Workflow interface {
	Create(ctx context.Context, params *model.CreatePostParams) (*model.Post, error)
	Decide(ctx context.Context, postID model.PostID, action token.Action) (*model.Post, error)
}

type Generator interface {
	Generate(ctx context.Context, input string) string
}

type AuthService interface {
	Register(params *model.CreateUserParams) (*model.User, error)
	Login(username, password string) (string, error)
}

type Store interface {
	GetPost(id model.PostID) (*model.Post, error)
	GetPosts() ([]model.Post, error)
	GetPostsByStatus(status model.PostStatus) ([]model.Post, error)
	UpdatePostMetrics(id model.PostID, metrics string) error
	GetRecentInboundMessages(limit int) ([]model.InboundMessage, error)
	GetDashboardStats(now time.Time) (*store.DashboardStats, error)
	GetCredential(name string) (*model.Credential, error)
	GetCredentials() ([]model.Credential, error)
	UpsertCredential(credential *model.Credential) error
	UpdateCredentialHealth(name string, health model.CredentialHealth, checkedAt time.Time) error
	GetWorkflows() ([]model.Workflow, error)
	EnsureWorkflow(name string) (string, error)
	RecordWorkflowRun(id string, success bool, ranAt time.Time) error
}
