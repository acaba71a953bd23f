package auth

import (
	"errors"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(fullName, email, password string) (*chat.User, error) {
	if fullName == "" {
		return nil, errors.New("full name cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	var existing chat.User
	if err := s.db.First(&existing, "email = ?", email).Error; err == nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := chat.User{
		FullName: fullName,
		Email:    email,
		Password: hashedPassword,
	}

	return &user, s.db.Create(&user).Error
}

func (s *AuthService) Login(email, password string) (*chat.User, error) {
	var user chat.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}

	if !CheckPassword(password, user.Password) {
		return nil, errors.New("invalid password")
	}

	return &user, nil
}
