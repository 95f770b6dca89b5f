package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

func (s *store) CreateUser(user *model.User) error {
	res, err := s.db.NamedExec(`insert into users (ID, Username, Password, CreatedAt)
		values(:ID, :Username, :Password, :CreatedAt)`, user)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *store) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Get(user, `select * from users where Username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}
