package message

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var (
	ErrEmptyContent    = errors.New("message content cannot be empty")
	ErrContentTooLong  = errors.New("message content is too long")
	ErrSelfMessage     = errors.New("cannot send a direct message to yourself")
	ErrMessageNotFound = errors.New("message not found")
	ErrTeamNotFound    = errors.New("team not found")
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// CreateTeamMessage persists a team message and returns it with sender
// display data preloaded. Authorization is the caller's responsibility.
func (s *MessageService) CreateTeamMessage(senderID, teamID, content string) (*chat.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	var team chat.Team
	if err := s.db.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	msg := chat.Message{
		SenderID:  senderID,
		TeamID:    &team.ID,
		ProjectID: team.ProjectID,
		Kind:      chat.MessageKindTeam,
		Content:   content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	return s.GetMessage(msg.ID)
}

// CreateDirectMessage persists a direct message and returns it with both
// sender and receiver display data preloaded.
func (s *MessageService) CreateDirectMessage(senderID, receiverID, content string) (*chat.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if receiverID == senderID {
		return nil, ErrSelfMessage
	}

	msg := chat.Message{
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Kind:       chat.MessageKindDirect,
		Content:    content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	return s.GetMessage(msg.ID)
}

func (s *MessageService) GetMessage(id string) (*chat.Message, error) {
	var msg chat.Message
	err := s.db.
		Preload("Sender").
		Preload("Receiver").
		Preload("Reads", func(db *gorm.DB) *gorm.DB { return db.Order("read_at ASC") }).
		Preload("Reads.User").
		First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// AppendRead records that userID has read the message. A repeat read by
// the same user is a no-op; the second return reports whether an entry
// was appended. The returned message always carries the full reader list.
func (s *MessageService) AppendRead(messageID, userID string) (*chat.Message, bool, error) {
	msg, err := s.GetMessage(messageID)
	if err != nil {
		return nil, false, err
	}

	for _, r := range msg.Reads {
		if r.UserID == userID {
			return msg, false, nil
		}
	}

	read := chat.MessageRead{
		MessageID: messageID,
		UserID:    userID,
		ReadAt:    time.Now(),
	}
	if err := s.db.Create(&read).Error; err != nil {
		return nil, false, err
	}

	if err := s.db.Model(&chat.Message{}).Where("id = ?", messageID).Update("is_read", true).Error; err != nil {
		return nil, false, err
	}

	// Re-read so the broadcast carries the aggregate state, whatever the
	// interleaving with concurrent readers.
	msg, err = s.GetMessage(messageID)
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// BuildDTO converts a preloaded message into its broadcast shape, with
// display objects in place of bare ids.
func BuildDTO(msg *chat.Message) chat.MessageDTO {
	dto := chat.MessageDTO{
		ID:        msg.ID,
		Sender:    msg.Sender.Info(),
		Kind:      msg.Kind,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
		ReadBy: lo.Map(msg.Reads, func(r chat.MessageRead, _ int) chat.ReadEntry {
			info := r.User.Info()
			return chat.ReadEntry{UserID: r.UserID, ReadAt: r.ReadAt, User: &info}
		}),
	}
	if msg.Receiver != nil {
		info := msg.Receiver.Info()
		dto.Receiver = &info
	}
	if msg.TeamID != nil {
		dto.TeamID = *msg.TeamID
	}
	if msg.ProjectID != nil {
		dto.ProjectID = *msg.ProjectID
	}
	return dto
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > chat.MaxContentRunes {
		return "", ErrContentTooLong
	}
	return content, nil
}
