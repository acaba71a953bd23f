package api

import (
	a "github.com/anhnphe171575/SepCapstone-sub005/internal/auth"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandlers struct {
	authService *a.AuthService
	tokens      *a.AuthMiddleware
}

func NewAuthHandlers(db *gorm.DB, tokens *a.AuthMiddleware) *AuthHandlers {
	return &AuthHandlers{
		authService: a.NewAuthService(db),
		tokens:      tokens,
	}
}

type UserRegisterInput struct {
	FullName string `json:"full_name" binding:"required" example:"Nguyen Van A"`
	Email    string `json:"email" binding:"required,email" example:"a@fpt.edu.vn"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

type UserResponse struct {
	ID        string `json:"id" example:"a1b2c3d4"`
	FullName  string `json:"full_name" example:"Nguyen Van A"`
	Email     string `json:"email" example:"a@fpt.edu.vn"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"email cannot be empty"`
}

// RegisterHandler registers a new user
// @Summary Register a new user
// @Description Register a new user with full name, email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body UserRegisterInput true "Registration request"
// @Success 200 {object} UserResponse "User registered successfully"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /register [post]
func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	var input UserRegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	user, err := h.authService.Register(input.FullName, input.Email, input.Password)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(500, gin.H{"error": "User created but token generation failed"})
		return
	}

	c.SetCookie("token", token, 3600*24, "/", "", true, true)

	c.JSON(200, gin.H{
		"message": "Register successful",
		"user": UserResponse{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
		},
	})
}

type UserLoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"a@fpt.edu.vn"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

// LoginHandler authenticates a user
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body UserLoginInput true "Login request"
// @Success 200 {object} UserResponse "User logged in successfully"
// @Failure 400 {object} ErrorResponse "Invalid credentials"
// @Router /login [post]
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	var input UserLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	user, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(500, gin.H{"error": "Token generation failed"})
		return
	}

	c.SetCookie("token", token, 3600*24, "/", "", true, true)

	c.JSON(200, gin.H{
		"message": "Login successful",
		"user": UserResponse{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
		},
	})
}

// LogoutHandler clears the session cookie
// @Summary Logout user
// @Tags Authentication
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /api/logout [post]
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", true, true)
	c.JSON(200, gin.H{"message": "Logout successful"})
}
