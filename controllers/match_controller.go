package controllers

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"tradermatch_client/models"
	"tradermatch_client/socket"
	"tradermatch_client/utils"
)

var (
	// ErrEmptyMessage is returned by SendMessage for blank input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoConversation is returned by SendMessage when no chat is open.
	ErrNoConversation = errors.New("no conversation is open")
	// ErrChannelClosed is returned by SendMessage when realtime is down.
	ErrChannelClosed = socket.ErrChannelClosed
)

// MatchLister loads the signed-in user's matches.
type MatchLister interface {
	GetMatches(ctx context.Context, userID string) ([]models.Match, error)
}

// HistoryFetcher loads the messages of one match.
type HistoryFetcher interface {
	GetMessagesByMatchID(ctx context.Context, matchID string) ([]models.Message, error)
}

// ChatSender writes outbound chat frames.
type ChatSender interface {
	Send(frame models.OutboundChatFrame) error
	IsOpen() bool
}

// MatchController owns the match list and the open conversation.
type MatchController struct {
	Matches MatchLister
	History HistoryFetcher
	Logger  utils.ILogger

	// OnChange runs after any state change, outside the lock.
	OnChange func()

	mu            sync.Mutex
	userID        string
	epoch         uint64
	refreshSeq    uint64
	appliedSeq    uint64
	matches       []models.Match
	activeMatchID string
	token         uint64
	messages      []models.Message
	channel       ChatSender

	wg sync.WaitGroup
}

// NewMatchController creates an unbound store.
func NewMatchController(matches MatchLister, history HistoryFetcher, logger utils.ILogger) *MatchController {
	return &MatchController{Matches: matches, History: history, Logger: logger}
}

// Bind attaches the store to a session and its realtime channel. The channel
// may be nil when realtime could not be opened.
func (c *MatchController) Bind(userID string, channel ChatSender) {
	c.mu.Lock()
	c.resetLocked()
	c.userID = userID
	c.channel = channel
	c.mu.Unlock()
	c.notify()
}

// Reset drops all state. Responses still in flight are ignored.
func (c *MatchController) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *MatchController) resetLocked() {
	c.epoch++
	c.token++
	c.userID = ""
	c.channel = nil
	c.matches = nil
	c.activeMatchID = ""
	c.messages = nil
}

// Refresh replaces the match list. When refreshes overlap the newest
// request wins.
func (c *MatchController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	userID := c.userID
	epoch := c.epoch
	c.refreshSeq++
	seq := c.refreshSeq
	c.mu.Unlock()

	matches, err := c.Matches.GetMatches(ctx, userID)
	if err != nil {
		c.Logger.Warn("Conversations", "Failed to refresh matches", map[string]interface{}{"error": err.Error()})
		return err
	}

	c.mu.Lock()
	if epoch != c.epoch || seq < c.appliedSeq {
		c.mu.Unlock()
		return nil
	}
	c.appliedSeq = seq
	c.matches = slices.Clone(matches)
	c.mu.Unlock()

	c.Logger.Debug("Conversations", "Matches refreshed", map[string]interface{}{"count": len(matches)})
	c.notify()
	return nil
}

// RefreshAsync starts one refresh in the background. Wait blocks until it
// is done.
func (c *MatchController) RefreshAsync() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.Refresh(context.Background())
	}()
}

// List returns a copy of the match list.
func (c *MatchController) List() []models.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.matches)
}

// Match looks up a match by id in the current list.
func (c *MatchController) Match(matchID string) (models.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.matches {
		if m.MatchID == matchID {
			return m, true
		}
	}
	return models.Match{}, false
}

// OpenConversation makes matchID active and replaces the message list with
// its history. A response that arrives after another conversation was
// opened, or after this one was closed, is discarded.
func (c *MatchController) OpenConversation(ctx context.Context, matchID string) error {
	c.mu.Lock()
	c.token++
	token := c.token
	c.activeMatchID = matchID
	c.messages = nil
	c.mu.Unlock()
	c.notify()

	history, err := c.History.GetMessagesByMatchID(ctx, matchID)
	if err != nil {
		c.Logger.Warn("Conversations", "Failed to load messages", map[string]interface{}{
			"match_id": matchID, "error": err.Error(),
		})
		return err
	}

	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		c.Logger.Debug("Conversations", "Dropping late history", map[string]interface{}{"match_id": matchID})
		return nil
	}
	// frames that arrived while history was loading stay after it
	merged := slices.Clone(history)
	for _, m := range c.messages {
		if !containsMessage(merged, m.MessageID) {
			merged = append(merged, m)
		}
	}
	c.messages = merged
	c.mu.Unlock()

	c.notify()
	return nil
}

// CloseConversation leaves the chat view.
func (c *MatchController) CloseConversation() {
	c.mu.Lock()
	c.token++
	c.activeMatchID = ""
	c.messages = nil
	c.mu.Unlock()
	c.notify()
}

// Active returns the open match id and a copy of its messages.
func (c *MatchController) Active() (string, []models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeMatchID, slices.Clone(c.messages)
}

// SendMessage writes a chat frame for the open conversation. Nothing is
// appended locally; the message shows up when the server echoes it.
func (c *MatchController) SendMessage(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	matchID := c.activeMatchID
	channel := c.channel
	c.mu.Unlock()

	if matchID == "" {
		return ErrNoConversation
	}
	if channel == nil || !channel.IsOpen() {
		return ErrChannelClosed
	}
	if err := channel.Send(models.NewOutboundChatFrame(matchID, content)); err != nil {
		c.Logger.Warn("Conversations", "Failed to send message", map[string]interface{}{
			"match_id": matchID, "error": err.Error(),
		})
		return ErrChannelClosed
	}
	return nil
}

// HandleFrame consumes realtime frames. Chat frames for the open
// conversation are appended once; new_match triggers one refresh.
func (c *MatchController) HandleFrame(frame models.InboundFrame) {
	switch f := frame.(type) {
	case models.NewMatchFrame:
		c.RefreshAsync()
	case models.ChatMessageFrame:
		c.appendMessage(f.Message)
	}
}

func (c *MatchController) appendMessage(msg models.Message) {
	c.mu.Lock()
	if c.activeMatchID == "" || (msg.MatchID != "" && msg.MatchID != c.activeMatchID) {
		c.mu.Unlock()
		return
	}
	if containsMessage(c.messages, msg.MessageID) {
		c.mu.Unlock()
		return
	}
	if msg.MatchID == "" {
		msg.MatchID = c.activeMatchID
	}
	c.messages = append(slices.Clip(c.messages), msg)
	c.mu.Unlock()
	c.notify()
}

func containsMessage(messages []models.Message, id string) bool {
	return slices.ContainsFunc(messages, func(m models.Message) bool { return m.MessageID == id })
}

// Wait blocks until realtime-triggered refreshes have finished.
func (c *MatchController) Wait() {
	c.wg.Wait()
}

func (c *MatchController) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
