package domain

import "time"

type MessageType string

const (
	MessageText MessageType = "text"
	MessageFile MessageType = "file"
)

// Message is one durable chat entry. ID is assigned by storage; a
// message relayed after a persistence failure carries no ID.
type Message struct {
	ID         string         `json:"id,omitempty"`
	RoomID     RoomID         `json:"roomId"`
	SenderID   UserID         `json:"senderId"`
	SenderName string         `json:"senderName"`
	Type       MessageType    `json:"type"`
	Content    MessageContent `json:"content"`
	Timestamp  time.Time      `json:"timestamp"`
}

type MessageContent struct {
	Text     string `json:"text,omitempty" bson:"text,omitempty"`
	FileName string `json:"fileName,omitempty" bson:"file_name,omitempty"`
	FileType string `json:"fileType,omitempty" bson:"file_type,omitempty"`
	FileSize int64  `json:"fileSize,omitempty" bson:"file_size,omitempty"`
	FileURL  string `json:"fileUrl,omitempty" bson:"file_url,omitempty"`
}
