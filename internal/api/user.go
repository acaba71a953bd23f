package api

import (
	"net/http"

	"github.com/anhnphe171575/SepCapstone-sub005/internal/identity"
	ws "github.com/anhnphe171575/SepCapstone-sub005/internal/websocket"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandlers struct {
	identity *identity.IdentityService
	hub      *ws.Hub
}

func NewUserHandlers(db *gorm.DB, hub *ws.Hub) *UserHandlers {
	return &UserHandlers{
		identity: identity.NewIdentityService(db),
		hub:      hub,
	}
}

// MeHandler returns the authenticated user's profile
// @Summary Get current user profile
// @Tags Users
// @Security CookieAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /api/me [get]
func (h *UserHandlers) MeHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.identity.GetProfile(userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	})
}

// OnlineUsersHandler answers the presence query over REST
// @Summary List currently online user ids
// @Tags Users
// @Security CookieAuth
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/online-users [get]
func (h *UserHandlers) OnlineUsersHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online_users": h.hub.OnlineUserIDs()})
}
