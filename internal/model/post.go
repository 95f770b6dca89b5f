package model

import "time"

type PostID string

type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusApproved PostStatus = "approved"
	PostStatusRejected PostStatus = "rejected"
	PostStatusPosted   PostStatus = "posted"
	PostStatusFailed   PostStatus = "failed"
)

// Terminal reports whether no further status transition is possible.
func (s PostStatus) Terminal() bool {
	switch s {
	case PostStatusRejected, PostStatusPosted, PostStatusFailed:
		return true
	}
	return false
}

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusPending, PostStatusApproved, PostStatusRejected, PostStatusPosted, PostStatusFailed:
		return true
	}
	return false
}

type Post struct {
	ID               PostID     `db:"ID" json:"id"`
	Content          string     `db:"Content" json:"content"`
	Status           PostStatus `db:"Status" json:"status"`
	Platform         string     `db:"Platform" json:"platform"`
	InboundMessageID *string    `db:"InboundMessageID" json:"inboundMessageId,omitempty"`
	AIGenerated      bool       `db:"AIGenerated" json:"aiGenerated"`
	Error            *string    `db:"Error" json:"error,omitempty"`
	CreatedAt        time.Time  `db:"CreatedAt" json:"createdAt"`
	PublishedAt      *time.Time `db:"PublishedAt" json:"publishedAt,omitempty"`
	Metrics          *string    `db:"Metrics" json:"metrics,omitempty"`
}

type CreatePostParams struct {
	Content          string `json:"content"`
	Platform         string `json:"platform"`
	InboundMessageID string `json:"inboundMessageId"`
	AIGenerated      bool   `json:"aiGenerated"`
}
