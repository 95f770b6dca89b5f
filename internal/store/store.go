package store

import (
	"fmt"
	"path"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type store struct {
	db *sqlx.DB
}

// New opens the pipeline database under the configured data directory. An
// empty DataDir falls back to an ephemeral in-memory database, which is what
// dev and tests run on.
func New(config *boot.Config) (*store, error) {
	// Ephemeral databases get a unique name so two stores in one process
	// never share state.
	dsn := "file:" + model.CreateID() + "?mode=memory&cache=shared"
	if config.DataDir != "" {
		dsn = "file:" + path.Join(config.DataDir, "socialsphere.db")
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// sqlite allows one writer at a time; a single pooled connection turns
	// lock contention into queueing.
	db.SetMaxOpenConns(1)

	s := &store{db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return s, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) createTables() error {
	_, err := s.db.Exec(`create table if not exists posts(
		ID               text not null primary key,
		Content          text not null,
		Status           text not null,
		Platform         text not null default 'linkedin',
		InboundMessageID text null,
		AIGenerated      boolean not null default true,
		Error            text null,
		CreatedAt        DATETIME not null,
		PublishedAt      DATETIME null,
		Metrics          text null
	)`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists inbound_messages(
		ID        text not null primary key,
		MessageID text not null,
		ChatID    text not null,
		Content   text not null,
		Kind      text not null,
		Processed boolean not null default false,
		CreatedAt DATETIME not null,
		unique(ChatID, MessageID)
	)`)
	if err != nil {
		return fmt.Errorf("creating inbound_messages table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists credentials(
		Name      text not null primary key,
		APIKey    text not null,
		Health    text not null default 'active',
		LastCheck DATETIME null
	)`)
	if err != nil {
		return fmt.Errorf("creating credentials table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists workflows(
		ID          text not null primary key,
		Name        text not null,
		Status      text not null default 'active',
		LastRun     DATETIME null,
		TotalRuns   integer not null default 0,
		SuccessRate integer not null default 0
	)`)
	if err != nil {
		return fmt.Errorf("creating workflows table: %w", err)
	}

	_, err = s.db.Exec(`create table if not exists users(
		ID        text not null primary key,
		Username  text not null unique,
		Password  text not null,
		CreatedAt DATETIME not null
	)`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
