package socket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"tradermatch_client/models"
	"tradermatch_client/utils"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// ErrChannelClosed is returned by Send once the socket is gone. The channel
// never reconnects; a new session opens a new channel.
var ErrChannelClosed = errors.New("realtime channel closed")

// Handler receives every inbound frame, in arrival order, on the read loop
// goroutine. Handlers must not block for long.
type Handler func(models.InboundFrame)

// Channel is the single websocket bound to one signed-in user.
type Channel struct {
	UserID string

	conn   *websocket.Conn
	logger utils.ILogger

	writeMu sync.Mutex

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	open     bool

	done      chan struct{}
	closeOnce sync.Once
}

// ChannelURL builds {ws}/api/ws/{user_id}.
func ChannelURL(wsBaseURL, userID string) string {
	return strings.TrimRight(wsBaseURL, "/") + "/api/ws/" + url.PathEscape(userID)
}

// Dial opens the channel and starts its read loop.
func Dial(ctx context.Context, wsBaseURL, userID string, logger utils.ILogger) (*Channel, error) {
	target := ChannelURL(wsBaseURL, userID)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open realtime channel for %s: %w", userID, err)
	}

	c := &Channel{
		UserID:   userID,
		conn:     conn,
		logger:   logger,
		handlers: make(map[int]Handler),
		open:     true,
		done:     make(chan struct{}),
	}
	logger.Info("Socket", "✅ Realtime channel connected", map[string]interface{}{"user_id": userID})

	go c.readLoop()
	return c, nil
}

// Subscribe registers a consumer. The returned func removes it.
func (c *Channel) Subscribe(h Handler) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = h
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

// Send writes a chat frame and returns without waiting for any acknowledgement.
func (c *Channel) Send(frame models.OutboundChatFrame) error {
	if !c.IsOpen() {
		return ErrChannelClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(frame); err != nil {
		c.logger.Error("Socket", "❌ Failed to send frame", map[string]interface{}{
			"user_id": c.UserID, "match_id": frame.MatchID, "error": err.Error(),
		})
		return fmt.Errorf("failed to send %s frame: %w", frame.Type, err)
	}
	return nil
}

// IsOpen reports whether the read loop is still running.
func (c *Channel) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// Done is closed once the read loop has exited.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close is idempotent.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.markClosed()

		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()

		err = c.conn.Close()
		c.logger.Info("Socket", "Realtime channel closed", map[string]interface{}{"user_id": c.UserID})
	})
	return err
}

func (c *Channel) markClosed() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

func (c *Channel) readLoop() {
	defer func() {
		c.markClosed()
		close(c.done)
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && c.IsOpen() {
				c.logger.Error("Socket", "❌ Realtime channel dropped", map[string]interface{}{
					"user_id": c.UserID, "error": err.Error(),
				})
			}
			return
		}

		frame, err := models.DecodeInboundFrame(data)
		if err != nil {
			c.logger.Warn("Socket", "Dropping malformed frame", map[string]interface{}{
				"user_id": c.UserID, "error": err.Error(),
			})
			continue
		}
		if unknown, ok := frame.(models.UnknownFrame); ok {
			c.logger.Debug("Socket", "Ignoring unknown frame type", map[string]interface{}{"type": unknown.Type})
			continue
		}

		c.dispatch(frame)
	}
}

func (c *Channel) dispatch(frame models.InboundFrame) {
	c.mu.RLock()
	ids := make([]int, 0, len(c.handlers))
	for id := range c.handlers {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids) // subscription order
	for _, id := range ids {
		handlers = append(handlers, c.handlers[id])
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(frame)
	}
}
