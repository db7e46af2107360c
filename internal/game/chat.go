package game

import "time"

// ChatMessage is one entry in the table's chat and system log.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	At         time.Time `json:"at"`
	IsSystem   bool      `json:"isSystem"`
}
