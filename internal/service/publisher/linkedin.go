// Package publisher performs the one-shot outbound publish of an approved
// post. It is not idempotent and does not retry; the workflow state machine
// guarantees it is invoked at most once per post.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/metrics"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/labstack/gommon/log"
)

type service struct {
	httpClient  *http.Client
	accessToken string
	authorURN   string
	baseURL     string
}

func New(config *boot.Config) *service {
	return &service{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		accessToken: config.LinkedIn.AccessToken,
		authorURN:   config.LinkedIn.AuthorURN,
		baseURL:     strings.TrimRight(config.LinkedIn.BaseURL, "/"),
	}
}

type shareRequest struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// Publish sends the post content to LinkedIn. Without an access token the
// publish is simulated and succeeds, matching the behaviour of an
// unconfigured development install.
func (s *service) Publish(ctx context.Context, post *model.Post) error {
	if s.accessToken == "" {
		log.Infof("publish simulated for post %s (no access token configured)", post.ID)
		metrics.Publishes.WithLabelValues("simulated").Inc()
		return nil
	}

	body, err := json.Marshal(shareRequest{
		Author:         s.authorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": post.Content},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	})
	if err != nil {
		return fmt.Errorf("marshalling share request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating share request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.Publishes.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: %v", model.ErrorProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		metrics.Publishes.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: status %d: %s", model.ErrorProviderFailure, resp.StatusCode, string(errBody))
	}

	metrics.Publishes.WithLabelValues("success").Inc()
	return nil
}
