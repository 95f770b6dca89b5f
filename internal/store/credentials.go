package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

func (s *store) UpsertCredential(credential *model.Credential) error {
	_, err := s.db.NamedExec(`insert into credentials (Name, APIKey, Health, LastCheck)
		values(:Name, :APIKey, :Health, :LastCheck)
		on conflict(Name) do update set APIKey = :APIKey, Health = :Health`, credential)
	if err != nil {
		return fmt.Errorf("upserting credential: %w", err)
	}
	return nil
}

func (s *store) GetCredential(name string) (*model.Credential, error) {
	credential := &model.Credential{}
	err := s.db.Get(credential, `select * from credentials where Name = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorCredentialNotFound
		}
		return nil, fmt.Errorf("fetching credential: %w", err)
	}
	return credential, nil
}

func (s *store) GetCredentials() ([]model.Credential, error) {
	credentials := []model.Credential{}
	err := s.db.Select(&credentials, `select * from credentials order by Name`)
	if err != nil {
		return nil, fmt.Errorf("fetching credentials: %w", err)
	}
	return credentials, nil
}

func (s *store) UpdateCredentialHealth(name string, health model.CredentialHealth, checkedAt time.Time) error {
	res, err := s.db.Exec(`update credentials set Health = ?, LastCheck = ? where Name = ?`, health, checkedAt, name)
	if err != nil {
		return fmt.Errorf("updating credential health: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrorCredentialNotFound
	}
	return nil
}
