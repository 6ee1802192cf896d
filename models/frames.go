package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedFrame is returned when an inbound frame is not a JSON object
// with a type tag, or when a known frame is missing its payload.
var ErrMalformedFrame = errors.New("malformed realtime frame")

// InboundFrame is one decoded server push. Concrete types are
// NewMatchFrame, ChatMessageFrame and UnknownFrame.
type InboundFrame interface {
	FrameType() string
}

// NewMatchFrame signals that the match list changed. It carries no data.
type NewMatchFrame struct{}

func (NewMatchFrame) FrameType() string { return FrameNewMatch }

// ChatMessageFrame delivers one message for the active conversation.
type ChatMessageFrame struct {
	Message Message
}

func (ChatMessageFrame) FrameType() string { return FrameChatMessage }

// UnknownFrame keeps the tag of a frame this client does not understand.
type UnknownFrame struct {
	Type string
	Raw  json.RawMessage
}

func (f UnknownFrame) FrameType() string { return f.Type }

type inboundEnvelope struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}

// DecodeInboundFrame parses a raw websocket payload into its tagged type.
func DecodeInboundFrame(data []byte) (InboundFrame, error) {
	var envelope inboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch envelope.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	case FrameNewMatch:
		return NewMatchFrame{}, nil
	case FrameChatMessage:
		if envelope.Message == nil || envelope.Message.MessageID == "" {
			return nil, fmt.Errorf("%w: chat_message without message", ErrMalformedFrame)
		}
		return ChatMessageFrame{Message: *envelope.Message}, nil
	default:
		return UnknownFrame{Type: envelope.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

// OutboundChatFrame is the only frame the client writes to the channel.
type OutboundChatFrame struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Content string `json:"content"`
}

// NewOutboundChatFrame builds a chat_message frame for a match.
func NewOutboundChatFrame(matchID, content string) OutboundChatFrame {
	return OutboundChatFrame{Type: FrameChatMessage, MatchID: matchID, Content: content}
}
