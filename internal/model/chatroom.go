package model

import "time"

// Chatroom is the full room record. Members and Messages are filled only by
// the detail and message queries that need them.
type Chatroom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members  []RoomMember `json:"users,omitempty"`
	Messages []Message    `json:"chat_logs,omitempty"`
}

// RoomSummary is the list projection: no member list, no message log.
type RoomSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomMember struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// Message is an immutable entry in a room's append-only log. Username is the
// sender's display name captured at send time; it is never rewritten if the
// user later renames.
type Message struct {
	ID        int64     `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"date"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}
