package domain

import "time"

type RoomID string

// Room is the persisted meeting entity. It records who has ever been
// in the meeting; live presence is tracked separately in core and is
// never read from here.
type Room struct {
	ID           RoomID            `json:"roomId" bson:"room_id"`
	Name         string            `json:"name" bson:"name"`
	CreatedBy    UserID            `json:"createdBy" bson:"created_by"`
	Participants []RoomParticipant `json:"participants" bson:"participants"`
	Settings     RoomSettings      `json:"settings" bson:"settings"`
	IsActive     bool              `json:"isActive" bson:"is_active"`
	CreatedAt    time.Time         `json:"createdAt" bson:"created_at"`
	EndedAt      *time.Time        `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
}

// RoomParticipant is the attendance log entry, not a presence record.
type RoomParticipant struct {
	UserID   UserID     `json:"userId" bson:"user_id"`
	Name     string     `json:"name" bson:"name"`
	JoinedAt time.Time  `json:"joinedAt" bson:"joined_at"`
	LeftAt   *time.Time `json:"leftAt,omitempty" bson:"left_at,omitempty"`
}

type RoomSettings struct {
	AllowChat        bool `json:"allowChat" bson:"allow_chat"`
	AllowFileSharing bool `json:"allowFileSharing" bson:"allow_file_sharing"`
	MaxParticipants  int  `json:"maxParticipants" bson:"max_participants"`
}

func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		AllowChat:        true,
		AllowFileSharing: true,
		MaxParticipants:  50,
	}
}
