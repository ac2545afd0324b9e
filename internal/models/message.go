package models

import (
	"encoding/json"
	"fmt"
)

// MessageType is the kind of one part of a tool response.
type MessageType string

const (
	MessageText               MessageType = "text"
	MessageLink               MessageType = "link"
	MessageImage              MessageType = "image"
	MessageImageLink          MessageType = "image_link"
	MessageJSON               MessageType = "json"
	MessageBlob               MessageType = "blob"
	MessageBinaryLink         MessageType = "binary_link"
	MessageVariable           MessageType = "variable"
	MessageFile               MessageType = "file"
	MessageLog                MessageType = "log"
	MessageBlobChunk          MessageType = "blob_chunk"
	MessageRetrieverResources MessageType = "retriever_resources"
)

// ParseMessageType rejects part kinds the translator has no rendering for.
func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(s); t {
	case MessageText, MessageLink, MessageImage, MessageImageLink, MessageJSON,
		MessageBlob, MessageBinaryLink, MessageVariable, MessageFile, MessageLog,
		MessageBlobChunk, MessageRetrieverResources:
		return t, nil
	default:
		return "", fmt.Errorf("unknown message type %q", s)
	}
}

// MessagePart is one element of the stream a tool invocation produces.
type MessagePart struct {
	Type MessageType
	// Text holds the payload of text, link, image and image_link parts.
	Text string
	// JSON holds the decoded object of json parts.
	JSON any
	// Raw is the undecoded message payload.
	Raw json.RawMessage
}

// wireMessagePart is the engine's NDJSON line format.
type wireMessagePart struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

// UnmarshalJSON decodes {"type": ..., "message": {...}} lines from the engine.
func (m *MessagePart) UnmarshalJSON(data []byte) error {
	var w wireMessagePart
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t, err := ParseMessageType(w.Type)
	if err != nil {
		return err
	}

	part := MessagePart{Type: t, Raw: w.Message}
	switch t {
	case MessageText, MessageLink, MessageImage, MessageImageLink:
		var msg struct {
			Text string `json:"text"`
		}
		if len(w.Message) > 0 {
			if err := json.Unmarshal(w.Message, &msg); err != nil {
				return fmt.Errorf("decode %s message: %w", t, err)
			}
		}
		part.Text = msg.Text
	case MessageJSON:
		var msg struct {
			JSONObject any `json:"json_object"`
		}
		if len(w.Message) > 0 {
			if err := json.Unmarshal(w.Message, &msg); err != nil {
				return fmt.Errorf("decode json message: %w", err)
			}
		}
		part.JSON = msg.JSONObject
	}

	*m = part
	return nil
}
