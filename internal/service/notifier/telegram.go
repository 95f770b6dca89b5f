// Package notifier sends human-facing prompts to the Telegram channel. Every
// send is a single bounded call; failures are logged and dropped, never
// retried. An unsent approval prompt just leaves the post pending until the
// manual decision path is used.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/pkg/token"
	"github.com/labstack/gommon/log"
)

type service struct {
	httpClient *http.Client
	botToken   string
	chatID     string
	baseURL    string
}

func New(config *boot.Config) *service {
	return &service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		botToken:   config.Telegram.BotToken,
		chatID:     config.Telegram.ChatID,
		baseURL:    strings.TrimRight(config.Telegram.BaseURL, "/"),
	}
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      string       `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

// SendApprovalRequest posts the draft with Approve/Reject buttons. The
// button payloads carry the correlation token the webhook decodes.
func (s *service) SendApprovalRequest(ctx context.Context, post *model.Post) error {
	text := fmt.Sprintf("Here is the draft:\n\n%s\n\nApprove this post?", post.Content)
	markup := &replyMarkup{
		InlineKeyboard: [][]inlineButton{{
			{Text: "✅ Approve", CallbackData: token.Encode(token.ActionApprove, string(post.ID))},
			{Text: "❌ Reject", CallbackData: token.Encode(token.ActionReject, string(post.ID))},
		}},
	}
	return s.call(ctx, "sendMessage", sendMessageRequest{ChatID: s.chatID, Text: text, ReplyMarkup: markup})
}

func (s *service) SendText(ctx context.Context, text string) error {
	return s.call(ctx, "sendMessage", sendMessageRequest{ChatID: s.chatID, Text: text})
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

func (s *service) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	return s.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackQueryID, Text: text})
}

func (s *service) call(ctx context.Context, method string, payload interface{}) error {
	if s.botToken == "" {
		log.Infof("telegram %s skipped (no bot token configured)", method)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrorProviderFailure, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s: status %d: %s", model.ErrorProviderFailure, method, resp.StatusCode, string(errBody))
	}

	return nil
}
