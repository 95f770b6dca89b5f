// Package workflow owns the post lifecycle. It is the only writer of post
// status; every transition goes through a conditional update in the store,
// which serializes racing decisions per post while leaving distinct posts
// fully concurrent.
//
// Lifecycle: pending -> approved | rejected; approved -> posted | failed.
// rejected, posted and failed are terminal. A post is published at most
// once: the pending -> approved update has exactly one winner, and only the
// winner calls the publisher.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/metrics"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/pkg/token"
	"github.com/labstack/gommon/log"
)

const DefaultPlatform = "linkedin"

type Store interface {
	CreatePost(post *model.Post) error
	GetPost(id model.PostID) (*model.Post, error)
	TransitionPost(id model.PostID, from, to model.PostStatus) (bool, error)
	MarkPostPosted(id model.PostID, publishedAt time.Time) (bool, error)
	MarkPostFailed(id model.PostID, cause string) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, post *model.Post) error
}

type service struct {
	store     Store
	publisher Publisher
}

func New(store Store, publisher Publisher) *service {
	return &service{store: store, publisher: publisher}
}

// Create inserts a new pending post and returns it.
func (s *service) Create(ctx context.Context, params *model.CreatePostParams) (*model.Post, error) {
	platform := params.Platform
	if platform == "" {
		platform = DefaultPlatform
	}

	post := &model.Post{
		ID:          model.PostID(model.CreateID()),
		Content:     params.Content,
		Status:      model.PostStatusPending,
		Platform:    platform,
		AIGenerated: params.AIGenerated,
		CreatedAt:   time.Now().UTC(),
	}
	if params.InboundMessageID != "" {
		id := params.InboundMessageID
		post.InboundMessageID = &id
	}

	if err := s.store.CreatePost(post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

// Decide applies a human decision to a pending post.
//
// Unknown ids return ErrorPostNotFound. A post that is no longer pending
// returns ErrorInvalidTransition together with its current state; the
// messaging provider redelivers callbacks, so this is the normal fate of a
// duplicate. On approve the publisher runs synchronously and the post lands
// in posted or failed; publish failures are terminal until re-triggered by
// an operator.
func (s *service) Decide(ctx context.Context, postID model.PostID, action token.Action) (*model.Post, error) {
	post, err := s.store.GetPost(postID)
	if err != nil {
		return nil, err
	}

	target := model.PostStatusRejected
	if action == token.ActionApprove {
		target = model.PostStatusApproved
	}

	won, err := s.store.TransitionPost(postID, model.PostStatusPending, target)
	if err != nil {
		return nil, err
	}
	if !won {
		metrics.DiscardedDecisions.Inc()
		// re-fetch so the caller sees the state the winner left behind
		current, err := s.store.GetPost(postID)
		if err != nil {
			return nil, err
		}
		log.Infof("discarding duplicate decision %s for post %s (status %s)", action, postID, current.Status)
		return current, model.ErrorInvalidTransition
	}

	if action == token.ActionApprove {
		if err := s.publish(ctx, post); err != nil {
			log.Errorf("publishing post %s: %+v", postID, err)
		}
	}

	return s.store.GetPost(postID)
}

func (s *service) publish(ctx context.Context, post *model.Post) error {
	if err := s.publisher.Publish(ctx, post); err != nil {
		if _, markErr := s.store.MarkPostFailed(post.ID, err.Error()); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}

	if _, err := s.store.MarkPostPosted(post.ID, time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// ApplyCallback decodes a button-press token and delegates to Decide.
func (s *service) ApplyCallback(ctx context.Context, encoded string) (*model.Post, error) {
	action, postID, err := token.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrorMalformedToken, err)
	}
	return s.Decide(ctx, model.PostID(postID), action)
}
