// Package events contains the message contracts pushed to browser clients over
// the WebSocket connection.
package events

import (
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Schedule messages
	MessageTypeScheduleReloaded MessageType = "schedule:reloaded"
	MessageTypeScheduleFailed   MessageType = "schedule:failed"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// NewMessage builds a message with a fresh ID and the current time.
func NewMessage(msgType MessageType, data interface{}, traceID string) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			ID:        uuid.NewString(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}
}

// ScheduleReloaded is the payload of schedule:reloaded and schedule:failed.
// Clients refetch the date list when they see it.
type ScheduleReloaded struct {
	State          string    `json:"state"`
	Origin         string    `json:"origin,omitempty"`
	LoadedAt       time.Time `json:"loaded_at"`
	Records        int       `json:"records"`
	Dates          []string  `json:"dates"`
	MissingColumns []string  `json:"missing_columns,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// ConnectMessage is sent once to each client after the upgrade.
type ConnectMessage struct {
	ClientID string `json:"client_id"`
	Version  string `json:"version"`
}
