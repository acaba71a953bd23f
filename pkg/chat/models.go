package chat

import (
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	MessageKindDirect = "direct"
	MessageKindTeam   = "team"
)

// MaxContentRunes bounds message content length after trimming.
const MaxContentRunes = 2000

type User struct {
	ID        string `gorm:"primaryKey"`
	FullName  string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Project struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	SupervisorID *string

	Supervisor *User `gorm:"foreignKey:SupervisorID"`
}

type Team struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	ProjectID *string

	Project *Project     `gorm:"foreignKey:ProjectID"`
	Members []TeamMember `gorm:"foreignKey:TeamID"`
}

type TeamMember struct {
	ID     uint   `gorm:"primaryKey"`
	TeamID string `gorm:"uniqueIndex:idx_team_member;not null"`
	UserID string `gorm:"uniqueIndex:idx_team_member;not null"`

	User User `gorm:"foreignKey:UserID"`
}

type Message struct {
	ID         string `gorm:"primaryKey"`
	SenderID   string `gorm:"index;not null"`
	ReceiverID *string
	TeamID     *string `gorm:"index"`
	ProjectID  *string
	Kind       string `gorm:"not null"`
	Content    string `gorm:"not null"`
	IsRead     bool   `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender   User          `gorm:"foreignKey:SenderID"`
	Receiver *User         `gorm:"foreignKey:ReceiverID"`
	Reads    []MessageRead `gorm:"foreignKey:MessageID"`
}

// MessageRead is one read receipt. The unique index makes the append
// idempotent per (message, user).
type MessageRead struct {
	ID        uint   `gorm:"primaryKey"`
	MessageID string `gorm:"uniqueIndex:idx_message_reader;not null"`
	UserID    string `gorm:"uniqueIndex:idx_message_reader;not null"`
	ReadAt    time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID, err = nanoid.New(8)
	}
	return
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID, err = nanoid.New(8)
	}
	return
}

func (t *Team) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID, err = nanoid.New(8)
	}
	return
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID, err = nanoid.New(12)
	}
	return
}
