package models

import (
	"fmt"
	"strings"
	"time"
)

// Message represents a direct message between two users. Messages are
// immutable once created; they are never updated or deleted.
type Message struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SenderID   string `gorm:"not null;index" json:"sender_id"`
	ReceiverID string `gorm:"not null;index" json:"receiver_id"`
	Message    string `gorm:"type:text;not null" json:"message"`
	// TranslatedMessage is set only when sender and receiver preferred
	// languages differed at send time and the translation call succeeded.
	TranslatedMessage *string   `gorm:"type:text" json:"translated_message,omitempty"`
	Timestamp         time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// ParseConversationID decomposes a conversation id of the form
// "{idA}_{idB}" into its two participant ids. The ids must be non-empty
// and distinct.
func ParseConversationID(conversationID string) (string, string, error) {
	parts := strings.Split(conversationID, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid conversation id: %q", conversationID)
	}
	if parts[0] == parts[1] {
		return "", "", fmt.Errorf("conversation participants must be distinct: %q", conversationID)
	}
	return parts[0], parts[1], nil
}
