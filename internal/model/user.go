package model

import "time"

type UserID string

type User struct {
	ID        UserID    `db:"ID" json:"id"`
	Username  string    `db:"Username" json:"username"`
	Password  string    `db:"Password" json:"-"`
	CreatedAt time.Time `db:"CreatedAt" json:"createdAt"`
}

type CreateUserParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
