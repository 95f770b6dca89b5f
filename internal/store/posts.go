package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

func (s *store) CreatePost(post *model.Post) error {
	res, err := s.db.NamedExec(`insert into posts
		(ID, Content, Status, Platform, InboundMessageID, AIGenerated, CreatedAt)
		values(:ID, :Content, :Status, :Platform, :InboundMessageID, :AIGenerated, :CreatedAt)`, post)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *store) GetPost(id model.PostID) (*model.Post, error) {
	post := &model.Post{}
	err := s.db.Get(post, `select * from posts where ID = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorPostNotFound
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return post, nil
}

func (s *store) GetPosts() ([]model.Post, error) {
	posts := []model.Post{}
	err := s.db.Select(&posts, `select * from posts order by CreatedAt desc`)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	return posts, nil
}

func (s *store) GetPostsByStatus(status model.PostStatus) ([]model.Post, error) {
	posts := []model.Post{}
	err := s.db.Select(&posts, `select * from posts where Status = ? order by CreatedAt desc`, status)
	if err != nil {
		return nil, fmt.Errorf("fetching posts by status: %w", err)
	}
	return posts, nil
}

func (s *store) GetRecentPosts(limit int) ([]model.Post, error) {
	posts := []model.Post{}
	err := s.db.Select(&posts, `select * from posts order by CreatedAt desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent posts: %w", err)
	}
	return posts, nil
}

// TransitionPost conditionally moves a post from one status to another. The
// update is the single serialization point for concurrent decisions: of any
// number of racing callers, exactly one observes a row change and the rest
// get false.
func (s *store) TransitionPost(id model.PostID, from, to model.PostStatus) (bool, error) {
	res, err := s.db.Exec(`update posts set Status = ? where ID = ? and Status = ?`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating post status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rows == 1, nil
}

// MarkPostPosted finalizes a successful publish. Only an approved post can
// reach posted; PublishedAt is set in the same statement.
func (s *store) MarkPostPosted(id model.PostID, publishedAt time.Time) (bool, error) {
	res, err := s.db.Exec(`update posts set Status = ?, PublishedAt = ? where ID = ? and Status = ?`,
		model.PostStatusPosted, publishedAt, id, model.PostStatusApproved)
	if err != nil {
		return false, fmt.Errorf("marking post posted: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rows == 1, nil
}

// MarkPostFailed records a terminal publish failure. PublishedAt stays null.
func (s *store) MarkPostFailed(id model.PostID, cause string) (bool, error) {
	res, err := s.db.Exec(`update posts set Status = ?, Error = ? where ID = ? and Status = ?`,
		model.PostStatusFailed, cause, id, model.PostStatusApproved)
	if err != nil {
		return false, fmt.Errorf("marking post failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rows == 1, nil
}

// UpdatePostMetrics is the only mutation allowed on a published post.
func (s *store) UpdatePostMetrics(id model.PostID, metrics string) error {
	res, err := s.db.Exec(`update posts set Metrics = ? where ID = ? and Status = ?`,
		metrics, id, model.PostStatusPosted)
	if err != nil {
		return fmt.Errorf("updating post metrics: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrorPostNotFound
	}
	return nil
}
