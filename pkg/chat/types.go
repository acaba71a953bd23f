package chat

import (
	"encoding/json"
	"time"
)

// Inbound event names. These are the wire contract with the front end and
// must not change.
const (
	EventJoin              = "join"
	EventJoinTeam          = "join-team"
	EventLeaveTeam         = "leave-team"
	EventSendTeamMessage   = "send-team-message"
	EventSendDirectMessage = "send-direct-message"
	EventTypingTeam        = "typing-team"
	EventTypingDirect      = "typing-direct"
	EventMarkMessageRead   = "mark-message-read"
	EventDisconnect        = "disconnect"
)

// Outbound event names.
const (
	EventCurrentUserInfo  = "current-user-info"
	EventOnlineUsers      = "onlineUsers"
	EventUserOnline       = "userOnline"
	EventUserOffline      = "userOffline"
	EventJoinedTeam       = "joined-team"
	EventUserJoinedTeam   = "user-joined-team"
	EventNewTeamMessage   = "new-team-message"
	EventNewDirectMessage = "new-direct-message"
	EventMessageSent      = "message-sent"
	EventUserTypingTeam   = "user-typing-team"
	EventUserTypingDirect = "user-typing-direct"
	EventMessageRead      = "message-read"
	EventError            = "error"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinTeamPayload struct {
	TeamID string `json:"teamId"`
}

type TeamMessagePayload struct {
	TeamID  string `json:"teamId"`
	Content string `json:"content"`
}

type DirectMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type TypingTeamPayload struct {
	TeamID   string `json:"teamId"`
	IsTyping bool   `json:"isTyping"`
}

type TypingDirectPayload struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

type MarkReadPayload struct {
	MessageID string `json:"messageId"`
}

// UserInfo is the denormalized display object carried in broadcasts in
// place of bare foreign-key ids.
type UserInfo struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type ReadEntry struct {
	UserID string    `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
	User   *UserInfo `json:"user,omitempty"`
}

// MessageDTO mirrors the persisted message with sender/receiver display
// data pre-joined. The sender_id / receiver_id field names are historical:
// the front end expects populated objects under them.
type MessageDTO struct {
	ID        string      `json:"id"`
	Sender    UserInfo    `json:"sender_id"`
	Receiver  *UserInfo   `json:"receiver_id,omitempty"`
	TeamID    string      `json:"team_id,omitempty"`
	ProjectID string      `json:"project_id,omitempty"`
	Kind      string      `json:"kind"`
	Content   string      `json:"content"`
	IsRead    bool        `json:"is_read"`
	ReadBy    []ReadEntry `json:"read_by"`
	CreatedAt time.Time   `json:"created_at"`
}

type CurrentUserPayload struct {
	User UserInfo `json:"user"`
}

type JoinedTeamPayload struct {
	TeamID      string   `json:"teamId"`
	Success     bool     `json:"success"`
	CurrentUser UserInfo `json:"currentUser"`
}

type UserJoinedTeamPayload struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
}

type TeamMessageEvent struct {
	Message MessageDTO `json:"message"`
	TeamID  string     `json:"teamId"`
}

type DirectMessageEvent struct {
	Message MessageDTO `json:"message"`
}

type UserTypingTeamPayload struct {
	TeamID   string `json:"teamId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type UserTypingDirectPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type MessageReadEvent struct {
	MessageID    string      `json:"messageId"`
	UserID       string      `json:"userId"`
	Reader       *UserInfo   `json:"reader,omitempty"`
	ReadAt       time.Time   `json:"read_at"`
	TotalReaders int         `json:"total_readers"`
	ReadBy       []ReadEntry `json:"read_by"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Info returns the display object for a user.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
