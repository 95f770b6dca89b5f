package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

func (s *store) CreateInboundMessage(message *model.InboundMessage) error {
	res, err := s.db.NamedExec(`insert into inbound_messages
		(ID, MessageID, ChatID, Content, Kind, Processed, CreatedAt)
		values(:ID, :MessageID, :ChatID, :Content, :Kind, :Processed, :CreatedAt)`, message)
	if err != nil {
		return fmt.Errorf("inserting inbound message: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

// GetInboundMessageByProviderID looks a message up by its idempotency key.
// A nil result with nil error means the delivery has not been seen before.
func (s *store) GetInboundMessageByProviderID(chatID, messageID string) (*model.InboundMessage, error) {
	message := &model.InboundMessage{}
	err := s.db.Get(message, `select * from inbound_messages where ChatID = ? and MessageID = ?`, chatID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching inbound message: %w", err)
	}
	return message, nil
}

func (s *store) MarkMessageProcessed(id model.InboundMessageID) error {
	_, err := s.db.Exec(`update inbound_messages set Processed = true where ID = ?`, id)
	if err != nil {
		return fmt.Errorf("marking message processed: %w", err)
	}
	return nil
}

func (s *store) GetRecentInboundMessages(limit int) ([]model.InboundMessage, error) {
	messages := []model.InboundMessage{}
	err := s.db.Select(&messages, `select * from inbound_messages order by CreatedAt desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent inbound messages: %w", err)
	}
	return messages, nil
}

func (s *store) GetUnprocessedMessages() ([]model.InboundMessage, error) {
	messages := []model.InboundMessage{}
	err := s.db.Select(&messages, `select * from inbound_messages where Processed = false order by CreatedAt`)
	if err != nil {
		return nil, fmt.Errorf("fetching unprocessed messages: %w", err)
	}
	return messages, nil
}
