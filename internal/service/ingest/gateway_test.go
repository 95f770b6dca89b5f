package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/model"
	"github.com/bhagyaborus/socialsphere/internal/service/generator"
	"github.com/bhagyaborus/socialsphere/internal/service/workflow"
	"github.com/bhagyaborus/socialsphere/internal/store"
	"github.com/bhagyaborus/socialsphere/pkg/token"
	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	approvals []*model.Post
	texts     []string
	answers   []string
}

func (n *fakeNotifier) SendApprovalRequest(ctx context.Context, post *model.Post) error {
	n.approvals = append(n.approvals, post)
	return nil
}

func (n *fakeNotifier) SendText(ctx context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	n.answers = append(n.answers, text)
	return nil
}

type fakePublisher struct {
	calls int32
	fail  bool
}

func (p *fakePublisher) Publish(ctx context.Context, post *model.Post) error {
	atomic.AddInt32(&p.calls, 1)
	if p.fail {
		return errors.New("publish rejected upstream")
	}
	return nil
}

type harness struct {
	gateway   *service
	store     *storeHandle
	notifier  *fakeNotifier
	publisher *fakePublisher
}

// storeHandle names the store surface the tests inspect.
type storeHandle struct {
	Posts       func() ([]model.Post, error)
	ByStatus    func(model.PostStatus) ([]model.Post, error)
	Recent      func(int) ([]model.InboundMessage, error)
	Insert      func(*model.InboundMessage) error
	Unprocessed func() ([]model.InboundMessage, error)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := store.New(&boot.Config{})
	if err != nil {
		t.Fatalf("opening store: %+v", err)
	}
	t.Cleanup(func() { db.Close() })

	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	wf := workflow.New(db, publisher)
	gen := generator.NewWithProvider(nil, nil)
	gateway := New(db, gen, wf, notifier)
	t.Cleanup(gateway.Close)

	return &harness{
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		store: &storeHandle{
			Posts:       db.GetPosts,
			ByStatus:    db.GetPostsByStatus,
			Recent:      db.GetRecentInboundMessages,
			Insert:      db.CreateInboundMessage,
			Unprocessed: db.GetUnprocessedMessages,
		},
	}
}

func textUpdate(messageID int64, text string) []byte {
	return []byte(fmt.Sprintf(`{"update_id":1,"message":{"message_id":%d,"chat":{"id":42},"text":%q}}`, messageID, text))
}

func callbackUpdate(callbackID, data string) []byte {
	return []byte(fmt.Sprintf(`{"update_id":2,"callback_query":{"id":%q,"data":%q,"message":{"message_id":7,"chat":{"id":42}}}}`, callbackID, data))
}

func TestHandleMessage(t *testing.T) {
	assert := assert.New(t)

	t.Run("text message creates a pending post", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), textUpdate(100, "product launch"))

		posts, err := h.store.Posts()
		assert.Nil(err)
		assert.Len(posts, 1)
		assert.Equal(model.PostStatusPending, posts[0].Status)
		assert.Equal(generator.Fallback("product launch"), posts[0].Content)
		assert.True(posts[0].AIGenerated)
		assert.NotNil(posts[0].InboundMessageID)

		assert.Len(h.notifier.approvals, 1)
		assert.Equal(posts[0].ID, h.notifier.approvals[0].ID)

		messages, err := h.store.Recent(10)
		assert.Nil(err)
		assert.Len(messages, 1)
		assert.Equal(model.MessageKindText, messages[0].Kind)
		assert.True(messages[0].Processed)
	})

	t.Run("duplicate delivery creates no second post", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), textUpdate(100, "product launch"))
		h.gateway.HandleUpdate(context.Background(), textUpdate(100, "product launch"))

		posts, err := h.store.Posts()
		assert.Nil(err)
		assert.Len(posts, 1)
		assert.Len(h.notifier.approvals, 1)

		messages, err := h.store.Recent(10)
		assert.Nil(err)
		assert.Len(messages, 1)
	})

	t.Run("same message id in another chat is not a duplicate", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), textUpdate(100, "product launch"))
		h.gateway.HandleUpdate(context.Background(), []byte(`{"update_id":1,"message":{"message_id":100,"chat":{"id":43},"text":"product launch"}}`))

		posts, err := h.store.Posts()
		assert.Nil(err)
		assert.Len(posts, 2)
	})

	t.Run("voice message gets the placeholder", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), []byte(`{"update_id":1,"message":{"message_id":101,"chat":{"id":42},"voice":{"file_id":"f1","duration":3}}}`))

		messages, err := h.store.Recent(10)
		assert.Nil(err)
		assert.Len(messages, 1)
		assert.Equal(model.MessageKindVoice, messages[0].Kind)
		assert.Equal(voicePlaceholder, messages[0].Content)

		posts, err := h.store.Posts()
		assert.Nil(err)
		assert.Len(posts, 1)
	})

	t.Run("malformed payload is swallowed", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), []byte(`{not json`))

		posts, err := h.store.Posts()
		assert.Nil(err)
		assert.Len(posts, 0)
	})
}

func TestRecover(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	// a recorded idea that never made it past the crash
	orphan := &model.InboundMessage{
		ID:        model.InboundMessageID(model.CreateID()),
		MessageID: "500",
		ChatID:    "42",
		Content:   "product launch",
		Kind:      model.MessageKindText,
		CreatedAt: time.Now().UTC(),
	}
	assert.Nil(h.store.Insert(orphan))

	// callback deliveries are the provider's to redeliver, not ours
	pressed := &model.InboundMessage{
		ID:        model.InboundMessageID(model.CreateID()),
		MessageID: "abc",
		ChatID:    "42",
		Content:   "approve_ghost",
		Kind:      model.MessageKindCallback,
		CreatedAt: time.Now().UTC(),
	}
	assert.Nil(h.store.Insert(pressed))

	assert.Nil(h.gateway.Recover(context.Background()))

	posts, err := h.store.Posts()
	assert.Nil(err)
	assert.Len(posts, 1)
	assert.Equal(generator.Fallback("product launch"), posts[0].Content)
	assert.Len(h.notifier.approvals, 1)

	remaining, err := h.store.Unprocessed()
	assert.Nil(err)
	assert.Len(remaining, 1)
	assert.Equal(pressed.ID, remaining[0].ID)

	// a second sweep finds nothing new to draft
	assert.Nil(h.gateway.Recover(context.Background()))
	posts, err = h.store.Posts()
	assert.Nil(err)
	assert.Len(posts, 1)
}

func TestHandleCallback(t *testing.T) {
	assert := assert.New(t)

	pendingPost := func(h *harness) model.Post {
		h.gateway.HandleUpdate(context.Background(), textUpdate(100, "product launch"))
		posts, _ := h.store.ByStatus(model.PostStatusPending)
		return posts[0]
	}

	t.Run("approve publishes the post", func(t *testing.T) {
		h := newHarness(t)
		post := pendingPost(h)

		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", token.Encode(token.ActionApprove, string(post.ID))))

		posted, err := h.store.ByStatus(model.PostStatusPosted)
		assert.Nil(err)
		assert.Len(posted, 1)
		assert.NotNil(posted[0].PublishedAt)
		assert.Equal(int32(1), h.publisher.calls)
		assert.Equal([]string{"Post approved!"}, h.notifier.answers)
		assert.Contains(h.notifier.texts[0], "approved and published")
	})

	t.Run("reject moves the post to rejected", func(t *testing.T) {
		h := newHarness(t)
		post := pendingPost(h)

		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", token.Encode(token.ActionReject, string(post.ID))))

		rejected, err := h.store.ByStatus(model.PostStatusRejected)
		assert.Nil(err)
		assert.Len(rejected, 1)
		assert.Equal(int32(0), h.publisher.calls)
		assert.Equal([]string{"Post rejected!"}, h.notifier.answers)
	})

	t.Run("duplicate callback publishes exactly once", func(t *testing.T) {
		h := newHarness(t)
		post := pendingPost(h)
		approve := token.Encode(token.ActionApprove, string(post.ID))

		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", approve))
		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb2", approve))

		assert.Equal(int32(1), h.publisher.calls)
		assert.Equal([]string{"Post approved!", "Already handled"}, h.notifier.answers)

		posted, err := h.store.ByStatus(model.PostStatusPosted)
		assert.Nil(err)
		assert.Len(posted, 1)
	})

	t.Run("publish failure is reported back", func(t *testing.T) {
		h := newHarness(t)
		h.publisher.fail = true
		post := pendingPost(h)

		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", token.Encode(token.ActionApprove, string(post.ID))))

		failed, err := h.store.ByStatus(model.PostStatusFailed)
		assert.Nil(err)
		assert.Len(failed, 1)
		assert.Nil(failed[0].PublishedAt)
		assert.Equal([]string{"Publishing failed"}, h.notifier.answers)
	})

	t.Run("malformed token mutates nothing and still answers", func(t *testing.T) {
		h := newHarness(t)
		post := pendingPost(h)

		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", "xyz"))

		pending, err := h.store.ByStatus(model.PostStatusPending)
		assert.Nil(err)
		assert.Len(pending, 1)
		assert.Equal(post.ID, pending[0].ID)
		assert.Equal(int32(0), h.publisher.calls)
		assert.Len(h.notifier.answers, 1)
	})

	t.Run("unknown post id mutates nothing", func(t *testing.T) {
		h := newHarness(t)
		h.gateway.HandleUpdate(context.Background(), callbackUpdate("cb1", token.Encode(token.ActionApprove, "missing")))
		assert.Equal(int32(0), h.publisher.calls)
	})
}
