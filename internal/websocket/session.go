package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/anhnphe171575/SepCapstone-sub005/internal/identity"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/message"
	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
)

// Session binds protocol events to the hub, the identity store and the
// message store. It is the only component that touches the profile cache
// and the connection registry.
type Session struct {
	hub      *Hub
	identity *identity.IdentityService
	messages *message.MessageService

	// Profile cache: populated lazily, never evicted, so a rapid
	// reconnect does not refetch. Display changes made elsewhere are not
	// seen until reconnect; known limitation.
	mu       sync.RWMutex
	profiles map[string]chat.UserInfo
}

func NewSession(hub *Hub, idSvc *identity.IdentityService, msgSvc *message.MessageService) *Session {
	return &Session{
		hub:      hub,
		identity: idSvc,
		messages: msgSvc,
		profiles: make(map[string]chat.UserInfo),
	}
}

// HandleEvent dispatches one inbound event. Every event except join
// requires a completed join handshake on this connection.
func (s *Session) HandleEvent(c *Client, env chat.Envelope) {
	switch env.Event {
	case chat.EventJoin:
		s.handleJoin(c, env.Data)
	case chat.EventJoinTeam:
		var p chat.JoinTeamPayload
		if !s.bind(c, env.Data, &p) {
			return
		}
		s.handleJoinTeam(c, p.TeamID)
	case chat.EventLeaveTeam:
		var p chat.JoinTeamPayload
		if !s.bind(c, env.Data, &p) {
			return
		}
		s.hub.LeaveRoom(c, TeamRoom(p.TeamID))
	case chat.EventSendTeamMessage:
		var p chat.TeamMessagePayload
		if !s.bind(c, env.Data, &p) {
			return
		}
		s.handleSendTeamMessage(c, p)
	case chat.EventSendDirectMessage:
		var p chat.DirectMessagePayload
		if !s.bind(c, env.Data, &p) {
			return
		}
		s.handleSendDirectMessage(c, p)
	case chat.EventTypingTeam:
		var p chat.TypingTeamPayload
		if json.Unmarshal(env.Data, &p) == nil {
			s.handleTypingTeam(c, p)
		}
	case chat.EventTypingDirect:
		var p chat.TypingDirectPayload
		if json.Unmarshal(env.Data, &p) == nil {
			s.handleTypingDirect(c, p)
		}
	case chat.EventMarkMessageRead:
		var p chat.MarkReadPayload
		if json.Unmarshal(env.Data, &p) == nil {
			s.handleMarkRead(c, p.MessageID)
		}
	default:
		// Unknown events are dropped; the protocol is append-only and an
		// older server may see newer client events.
	}
}

// HandleDisconnect removes the connection and announces the user offline
// when this was their live connection. The profile cache entry is kept.
func (s *Session) HandleDisconnect(c *Client) {
	wasCurrent := s.hub.Remove(c)
	if wasCurrent {
		s.broadcastAll(chat.EventUserOffline, c.userID)
	}
}

func (s *Session) handleJoin(c *Client, data json.RawMessage) {
	userID := parseJoinUserID(data)
	if userID == "" {
		s.sendError(c, "userId is required to join")
		return
	}

	c.userID = userID
	s.hub.Register(userID, c)

	// Cache miss is tolerated: presence and relays still work with a
	// bare id, display enrichment catches up on the next lookup.
	info, ok := s.profile(userID)

	for _, room := range PersonalRooms(userID) {
		s.hub.JoinRoom(c, room)
	}

	if ok {
		c.SendEvent(chat.EventCurrentUserInfo, chat.CurrentUserPayload{User: info})
	}

	s.broadcastAll(chat.EventUserOnline, userID)
	c.SendEvent(chat.EventOnlineUsers, s.hub.OnlineUserIDs())
}

func (s *Session) handleJoinTeam(c *Client, teamID string) {
	authorized, err := s.identity.IsTeamParticipant(c.userID, teamID)
	if err != nil {
		s.sendError(c, teamLookupError(err))
		return
	}
	if !authorized {
		s.sendError(c, "You are not authorized to access this team")
		return
	}

	s.hub.JoinRoom(c, TeamRoom(teamID))

	info, _ := s.profile(c.userID)
	c.SendEvent(chat.EventJoinedTeam, chat.JoinedTeamPayload{
		TeamID:      teamID,
		Success:     true,
		CurrentUser: info,
	})

	s.broadcastRooms([]string{TeamRoom(teamID)}, c, chat.EventUserJoinedTeam, chat.UserJoinedTeamPayload{
		TeamID: teamID,
		UserID: c.userID,
	})
}

func (s *Session) handleSendTeamMessage(c *Client, p chat.TeamMessagePayload) {
	authorized, err := s.identity.IsTeamParticipant(c.userID, p.TeamID)
	if err != nil {
		s.sendError(c, teamLookupError(err))
		return
	}
	if !authorized {
		s.sendError(c, "You are not authorized to send messages to this team")
		return
	}

	msg, err := s.messages.CreateTeamMessage(c.userID, p.TeamID, p.Content)
	if err != nil {
		s.sendError(c, err.Error())
		return
	}

	// The sender renders from the broadcast too, so they are not excluded.
	s.broadcastRooms([]string{TeamRoom(p.TeamID)}, nil, chat.EventNewTeamMessage, chat.TeamMessageEvent{
		Message: message.BuildDTO(msg),
		TeamID:  p.TeamID,
	})
}

func (s *Session) handleSendDirectMessage(c *Client, p chat.DirectMessagePayload) {
	msg, err := s.messages.CreateDirectMessage(c.userID, p.ReceiverID, p.Content)
	if err != nil {
		s.sendError(c, err.Error())
		return
	}

	dto := message.BuildDTO(msg)
	s.broadcastRooms(PersonalRooms(p.ReceiverID), nil, chat.EventNewDirectMessage, chat.DirectMessageEvent{Message: dto})
	c.SendEvent(chat.EventMessageSent, chat.DirectMessageEvent{Message: dto})
}

func (s *Session) handleTypingTeam(c *Client, p chat.TypingTeamPayload) {
	if c.userID == "" {
		return
	}
	s.broadcastRooms([]string{TeamRoom(p.TeamID)}, c, chat.EventUserTypingTeam, chat.UserTypingTeamPayload{
		TeamID:   p.TeamID,
		UserID:   c.userID,
		IsTyping: p.IsTyping,
	})
}

func (s *Session) handleTypingDirect(c *Client, p chat.TypingDirectPayload) {
	if c.userID == "" {
		return
	}
	s.broadcastRooms(PersonalRooms(p.ReceiverID), nil, chat.EventUserTypingDirect, chat.UserTypingDirectPayload{
		UserID:   c.userID,
		IsTyping: p.IsTyping,
	})
}

func (s *Session) handleMarkRead(c *Client, messageID string) {
	if c.userID == "" || messageID == "" {
		return
	}

	msg, err := s.messages.GetMessage(messageID)
	if err != nil {
		s.sendError(c, "Message not found")
		return
	}

	// A disallowed or duplicate read attempt is not a client mistake, so
	// both are silent no-ops rather than error events. Store failures
	// during the check are surfaced like the send path does.
	allowed, err := s.mayRead(c.userID, msg)
	if err != nil {
		s.sendError(c, teamLookupError(err))
		return
	}
	if !allowed {
		return
	}

	msg, appended, err := s.messages.AppendRead(messageID, c.userID)
	if err != nil {
		s.sendError(c, "Failed to update read state")
		return
	}
	if !appended {
		return
	}

	evt := chat.MessageReadEvent{
		MessageID:    msg.ID,
		UserID:       c.userID,
		TotalReaders: len(msg.Reads),
	}
	for _, r := range msg.Reads {
		info := r.User.Info()
		evt.ReadBy = append(evt.ReadBy, chat.ReadEntry{UserID: r.UserID, ReadAt: r.ReadAt, User: &info})
		if r.UserID == c.userID {
			evt.ReadAt = r.ReadAt
			evt.Reader = &info
		}
	}

	if msg.Kind == chat.MessageKindTeam && msg.TeamID != nil {
		s.broadcastRooms([]string{TeamRoom(*msg.TeamID)}, nil, chat.EventMessageRead, evt)
		return
	}
	if msg.ReceiverID != nil {
		// Both parties' mailboxes: sender's UI flips the tick, receiver's
		// clears the unread badge.
		rooms := append(PersonalRooms(msg.SenderID), PersonalRooms(*msg.ReceiverID)...)
		s.broadcastRooms(rooms, nil, chat.EventMessageRead, evt)
	}
}

// mayRead reports read-receipt authorization: team participants for team
// messages, the declared receiver for direct ones. The error is non-nil
// only when the team lookup itself failed.
func (s *Session) mayRead(userID string, msg *chat.Message) (bool, error) {
	if msg.Kind == chat.MessageKindTeam && msg.TeamID != nil {
		return s.identity.IsTeamParticipant(userID, *msg.TeamID)
	}
	return msg.ReceiverID != nil && *msg.ReceiverID == userID, nil
}

// profile returns the cached display profile, fetching and caching it on
// first use. The cache is never invalidated.
func (s *Session) profile(userID string) (chat.UserInfo, bool) {
	s.mu.RLock()
	info, ok := s.profiles[userID]
	s.mu.RUnlock()
	if ok {
		return info, true
	}

	user, err := s.identity.GetProfile(userID)
	if err != nil {
		return chat.UserInfo{ID: userID}, false
	}

	info = user.Info()
	s.mu.Lock()
	s.profiles[userID] = info
	s.mu.Unlock()
	return info, true
}

// bind rejects events sent before the join handshake and malformed
// payloads with a scoped error; it never drops the connection.
func (s *Session) bind(c *Client, data json.RawMessage, out any) bool {
	if c.userID == "" {
		s.sendError(c, "You must join before using chat")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.sendError(c, "Invalid payload")
		return false
	}
	return true
}

func (s *Session) sendError(c *Client, msg string) {
	c.SendEvent(chat.EventError, chat.ErrorPayload{Message: msg})
}

func (s *Session) broadcastAll(event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		log.Printf("ws marshal %s: %v", event, err)
		return
	}
	s.hub.BroadcastAll(payload)
}

func (s *Session) broadcastRooms(rooms []string, exclude *Client, event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		log.Printf("ws marshal %s: %v", event, err)
		return
	}
	s.hub.BroadcastRooms(rooms, payload, exclude)
}

func teamLookupError(err error) string {
	if errors.Is(err, identity.ErrTeamNotFound) {
		return "Team not found"
	}
	return "Failed to verify team membership"
}

// parseJoinUserID accepts the join payload either as a bare JSON string
// or as {"userId": ...}; older front-end builds send the former.
func parseJoinUserID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var obj struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.UserID
	}
	return ""
}
