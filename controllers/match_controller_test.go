package controllers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	open   bool
	fail   error
	frames []models.OutboundChatFrame
}

func (s *recordingSender) Send(frame models.OutboundChatFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *recordingSender) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func newMatchController(t *testing.T) (*mocks.Backend, *MatchController) {
	t.Helper()
	fake, backend := newBackends(t)
	c := NewMatchController(backend.Matches, backend.Chat, utils.NewNopLogger())
	t.Cleanup(c.Wait)
	return fake, c
}

func match(id, other string) models.Match {
	return models.Match{MatchID: id, OtherUser: candidate(other, models.StatusActive)}
}

func message(id, matchID, content string) models.Message {
	return models.Message{MessageID: id, MatchID: matchID, SenderID: "them", Content: content}
}

func TestMatchRefreshReplacesList(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) { b.Matches["me"] = []models.Match{match("m1", "alice")} })
	c.Bind("me", nil)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, c.List(), 1)

	fake.Configure(func(b *mocks.Backend) {
		b.Matches["me"] = []models.Match{match("m2", "bob"), match("m3", "carol")}
	})
	require.NoError(t, c.Refresh(context.Background()))

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].MatchID)
	assert.Equal(t, "bob", list[0].OtherUser.UserID)
}

func TestMatchRefreshWithoutSession(t *testing.T) {
	_, c := newMatchController(t)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNoSession)
}

func TestNewMatchFrameRefreshesOncePerEvent(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) { b.Matches["me"] = []models.Match{match("m1", "alice")} })
	c.Bind("me", nil)

	c.HandleFrame(models.NewMatchFrame{})
	c.Wait()
	assert.Equal(t, 1, fake.Calls("GET /api/matches"))
	assert.Len(t, c.List(), 1)

	c.HandleFrame(models.NewMatchFrame{})
	c.HandleFrame(models.NewMatchFrame{})
	c.Wait()
	assert.Equal(t, 3, fake.Calls("GET /api/matches"))

	c.HandleFrame(models.UnknownFrame{Type: "typing"})
	c.Wait()
	assert.Equal(t, 3, fake.Calls("GET /api/matches"))
}

func TestOpenConversationReplacesMessages(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) {
		b.Messages["m1"] = []models.Message{message("a1", "m1", "gm"), message("a2", "m1", "wagmi")}
		b.Messages["m2"] = []models.Message{message("b1", "m2", "hodl")}
	})
	c.Bind("me", nil)

	require.NoError(t, c.OpenConversation(context.Background(), "m1"))
	active, msgs := c.Active()
	assert.Equal(t, "m1", active)
	assert.Len(t, msgs, 2)

	require.NoError(t, c.OpenConversation(context.Background(), "m2"))
	active, msgs = c.Active()
	assert.Equal(t, "m2", active)
	require.Len(t, msgs, 1)
	assert.Equal(t, "b1", msgs[0].MessageID)
}

func TestLateHistoryDoesNotTouchActiveConversation(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) {
		b.Messages["m1"] = []models.Message{message("a1", "m1", "old")}
		b.Messages["m2"] = []models.Message{message("b1", "m2", "new")}
	})
	c.Bind("me", nil)
	release := fake.GateMessages("m1")

	done := make(chan error, 1)
	go func() { done <- c.OpenConversation(context.Background(), "m1") }()

	require.Eventually(t, func() bool { return fake.Calls("GET /api/messages") == 1 }, 2*time.Second, 10*time.Millisecond)
	c.CloseConversation()
	require.NoError(t, c.OpenConversation(context.Background(), "m2"))

	release()
	require.NoError(t, <-done)

	active, msgs := c.Active()
	assert.Equal(t, "m2", active)
	require.Len(t, msgs, 1)
	assert.Equal(t, "b1", msgs[0].MessageID)
}

func TestLateHistoryAfterCloseIsDropped(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) { b.Messages["m1"] = []models.Message{message("a1", "m1", "gm")} })
	c.Bind("me", nil)
	release := fake.GateMessages("m1")

	done := make(chan error, 1)
	go func() { done <- c.OpenConversation(context.Background(), "m1") }()
	require.Eventually(t, func() bool { return fake.Calls("GET /api/messages") == 1 }, 2*time.Second, 10*time.Millisecond)

	c.CloseConversation()
	release()
	require.NoError(t, <-done)

	active, msgs := c.Active()
	assert.Empty(t, active)
	assert.Empty(t, msgs)
}

func TestChatFrameAppendsExactlyOnce(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) { b.Messages["m1"] = []models.Message{message("a1", "m1", "gm")} })
	c.Bind("me", nil)
	require.NoError(t, c.OpenConversation(context.Background(), "m1"))

	c.HandleFrame(models.ChatMessageFrame{Message: message("m1-msg", "m1", "to the moon")})
	_, msgs := c.Active()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1-msg", msgs[1].MessageID)

	// duplicates by message id are ignored
	c.HandleFrame(models.ChatMessageFrame{Message: message("m1-msg", "m1", "to the moon")})
	_, msgs = c.Active()
	assert.Len(t, msgs, 2)
}

func TestChatFrameScoping(t *testing.T) {
	_, c := newMatchController(t)
	c.Bind("me", nil)

	c.HandleFrame(models.ChatMessageFrame{Message: message("x", "m1", "no chat open")})
	_, msgs := c.Active()
	assert.Empty(t, msgs)

	require.NoError(t, c.OpenConversation(context.Background(), "m1"))
	c.HandleFrame(models.ChatMessageFrame{Message: message("y", "m9", "other chat")})
	c.HandleFrame(models.ChatMessageFrame{Message: models.Message{MessageID: "z", Content: "unscoped"}})

	_, msgs = c.Active()
	require.Len(t, msgs, 1)
	assert.Equal(t, "z", msgs[0].MessageID)
	assert.Equal(t, "m1", msgs[0].MatchID)
}

func TestSendMessage(t *testing.T) {
	_, c := newMatchController(t)
	sender := &recordingSender{open: true}
	c.Bind("me", sender)

	assert.ErrorIs(t, c.SendMessage("gm"), ErrNoConversation)
	require.NoError(t, c.OpenConversation(context.Background(), "m1"))

	assert.ErrorIs(t, c.SendMessage("   "), ErrEmptyMessage)
	require.NoError(t, c.SendMessage("  gm ser  "))

	require.Len(t, sender.frames, 1)
	assert.Equal(t, models.OutboundChatFrame{Type: models.FrameChatMessage, MatchID: "m1", Content: "gm ser"}, sender.frames[0])

	// no local echo
	_, msgs := c.Active()
	assert.Empty(t, msgs)
}

func TestSendMessageOnClosedChannel(t *testing.T) {
	_, c := newMatchController(t)
	c.Bind("me", nil)
	require.NoError(t, c.OpenConversation(context.Background(), "m1"))
	assert.ErrorIs(t, c.SendMessage("gm"), ErrChannelClosed)

	sender := &recordingSender{open: false}
	c.Bind("me", sender)
	require.NoError(t, c.OpenConversation(context.Background(), "m1"))
	assert.ErrorIs(t, c.SendMessage("gm"), ErrChannelClosed)

	sender.open = true
	sender.fail = errors.New("broken pipe")
	assert.ErrorIs(t, c.SendMessage("gm"), ErrChannelClosed)
	assert.Empty(t, sender.frames)
}

func TestResetDropsLateRefresh(t *testing.T) {
	fake, c := newMatchController(t)
	fake.Configure(func(b *mocks.Backend) { b.Matches["me"] = []models.Match{match("m1", "alice")} })
	c.Bind("me", nil)
	require.NoError(t, c.Refresh(context.Background()))

	c.Reset()
	assert.Empty(t, c.List())
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNoSession)
}
