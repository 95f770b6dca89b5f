// Package ingest normalizes provider webhook payloads into inbound messages
// and routes them through the pipeline. The messaging provider delivers
// at least once; everything here is written to absorb redelivery without a
// second post or a second transition.
//
// Nothing in this package raises to the webhook caller. Malformed payloads
// and downstream failures are logged and acknowledged, which is what stops
// provider redelivery storms.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/metrics"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/labstack/gommon/log"
)

const voicePlaceholder = "Voice message received"

const dedupTTL = 15 * time.Minute

type Store interface {
	CreateInboundMessage(message *model.InboundMessage) error
	GetInboundMessageByProviderID(chatID, messageID string) (*model.InboundMessage, error)
	GetUnprocessedMessages() ([]model.InboundMessage, error)
	MarkMessageProcessed(id model.InboundMessageID) error
}

type Generator interface {
	Generate(ctx context.Context, input string) string
}

type Workflow interface {
	Create(ctx context.Context, params *model.CreatePostParams) (*model.Post, error)
	ApplyCallback(ctx context.Context, encoded string) (*model.Post, error)
}

type Notifier interface {
	SendApprovalRequest(ctx context.Context, post *model.Post) error
	SendText(ctx context.Context, text string) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error
}

type service struct {
	store     Store
	generator Generator
	workflow  Workflow
	notifier  Notifier
	dedup     *dedup
}

func New(store Store, generator Generator, workflow Workflow, notifier Notifier) *service {
	return &service{
		store:     store,
		generator: generator,
		workflow:  workflow,
		notifier:  notifier,
		dedup:     newDedup(dedupTTL),
	}
}

// Close stops the dedup cache's background cleanup.
func (s *service) Close() {
	s.dedup.close()
}

// HandleUpdate consumes one webhook payload. It never fails from the
// caller's point of view.
func (s *service) HandleUpdate(ctx context.Context, raw []byte) {
	update := Update{}
	if err := json.Unmarshal(raw, &update); err != nil {
		log.Errorf("malformed webhook payload: %+v", err)
		metrics.MalformedPayloads.Inc()
		return
	}

	switch {
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	default:
		log.Infof("ignoring webhook update %d with no message or callback", update.UpdateID)
	}
}

func (s *service) handleMessage(ctx context.Context, message *Message) {
	kind := model.MessageKindText
	content := message.Text
	if message.Voice != nil {
		// Transcription is out of scope; the idea still flows through as a
		// placeholder so the human sees something arrived.
		kind = model.MessageKindVoice
		content = voicePlaceholder
	}
	metrics.WebhookEvents.WithLabelValues(string(kind)).Inc()

	chatID := strconv.FormatInt(message.Chat.ID, 10)
	messageID := strconv.FormatInt(message.MessageID, 10)

	inbound, ok := s.record(chatID, messageID, content, kind)
	if !ok {
		return
	}
	s.draft(ctx, inbound)
}

// draft runs the idea through the pipeline: generate, create the pending
// post, ask the channel for approval, mark the message processed.
func (s *service) draft(ctx context.Context, inbound *model.InboundMessage) {
	drafted := s.generator.Generate(ctx, inbound.Content)
	post, err := s.workflow.Create(ctx, &model.CreatePostParams{
		Content:          drafted,
		InboundMessageID: string(inbound.ID),
		AIGenerated:      true,
	})
	if err != nil {
		log.Errorf("creating post for message %s: %+v", inbound.ID, err)
		return
	}

	if err := s.notifier.SendApprovalRequest(ctx, post); err != nil {
		// The post stays pending; the manual decision endpoint still works.
		log.Errorf("sending approval request for post %s: %+v", post.ID, err)
	}

	if err := s.store.MarkMessageProcessed(inbound.ID); err != nil {
		log.Errorf("marking message %s processed: %+v", inbound.ID, err)
	}
}

// Recover drains messages that were recorded but never finished, e.g. after
// a crash between recording and drafting. Callback deliveries are skipped;
// the provider redelivers those on its own and the decision path absorbs
// the repeat.
func (s *service) Recover(ctx context.Context) error {
	messages, err := s.store.GetUnprocessedMessages()
	if err != nil {
		return fmt.Errorf("fetching unprocessed messages: %w", err)
	}
	for i := range messages {
		inbound := &messages[i]
		if inbound.Kind == model.MessageKindCallback {
			continue
		}
		log.Infof("recovering unprocessed message %s", inbound.ID)
		s.draft(ctx, inbound)
	}
	return nil
}

func (s *service) handleCallback(ctx context.Context, callback *CallbackQuery) {
	metrics.WebhookEvents.WithLabelValues(string(model.MessageKindCallback)).Inc()

	chatID := ""
	if callback.Message != nil {
		chatID = strconv.FormatInt(callback.Message.Chat.ID, 10)
	}

	inbound, ok := s.record(chatID, callback.ID, callback.Data, model.MessageKindCallback)
	if !ok {
		return
	}

	post, err := s.workflow.ApplyCallback(ctx, callback.Data)
	answer := ""
	switch {
	case errors.Is(err, model.ErrorMalformedToken):
		log.Errorf("malformed callback token %q: %+v", callback.Data, err)
		metrics.MalformedPayloads.Inc()
	case errors.Is(err, model.ErrorPostNotFound):
		log.Errorf("callback for unknown post: %q", callback.Data)
	case errors.Is(err, model.ErrorInvalidTransition):
		// Redelivered or late button press; the first press already won.
		answer = "Already handled"
	case err != nil:
		log.Errorf("applying callback %q: %+v", callback.Data, err)
	default:
		answer = s.confirm(ctx, post)
	}

	if err := s.notifier.AnswerCallbackQuery(ctx, callback.ID, answer); err != nil {
		log.Errorf("answering callback query %s: %+v", callback.ID, err)
	}

	if err := s.store.MarkMessageProcessed(inbound.ID); err != nil {
		log.Errorf("marking message %s processed: %+v", inbound.ID, err)
	}
}

// confirm tells the channel how the decision landed and returns the short
// answer for the button press.
func (s *service) confirm(ctx context.Context, post *model.Post) string {
	var text, answer string
	switch post.Status {
	case model.PostStatusPosted:
		text = "✅ Post approved and published to LinkedIn!"
		answer = "Post approved!"
	case model.PostStatusFailed:
		text = "⚠️ Post approved but publishing failed."
		answer = "Publishing failed"
	case model.PostStatusRejected:
		text = "❌ Post rejected and moved to drafts."
		answer = "Post rejected!"
	default:
		return ""
	}

	if err := s.notifier.SendText(ctx, text); err != nil {
		log.Errorf("sending decision confirmation: %+v", err)
	}
	return answer
}

// record persists the delivery, enforcing the idempotency key. The second
// return is false when this delivery has been seen before or cannot be
// stored.
func (s *service) record(chatID, messageID, content string, kind model.MessageKind) (*model.InboundMessage, bool) {
	key := chatID + "/" + messageID
	if s.dedup.isDuplicate(key) {
		log.Infof("discarding duplicate delivery %s", key)
		metrics.DuplicateDeliveries.Inc()
		return nil, false
	}

	existing, err := s.store.GetInboundMessageByProviderID(chatID, messageID)
	if err != nil {
		log.Errorf("checking delivery %s: %+v", key, err)
		s.dedup.forget(key)
		return nil, false
	}
	if existing != nil {
		log.Infof("discarding duplicate delivery %s", key)
		metrics.DuplicateDeliveries.Inc()
		return nil, false
	}

	inbound := &model.InboundMessage{
		ID:        model.InboundMessageID(model.CreateID()),
		MessageID: messageID,
		ChatID:    chatID,
		Content:   content,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateInboundMessage(inbound); err != nil {
		log.Errorf("recording delivery %s: %+v", key, err)
		s.dedup.forget(key)
		return nil, false
	}

	return inbound, true
}
