package handlers

import (
	"github.com/gin-gonic/gin"

	"mingle/middleware"
	"mingle/models"
	"mingle/service"
	"mingle/utils"
	"mingle/websocket"
)

type Handler struct {
	Users         *service.UserService
	Friends       *service.FriendService
	Conversations *service.ConversationService
	Hub           *websocket.Hub
	WebhookSecret string
}

func New(users *service.UserService, friends *service.FriendService, conversations *service.ConversationService, hub *websocket.Hub, webhookSecret string) *Handler {
	return &Handler{
		Users:         users,
		Friends:       friends,
		Conversations: conversations,
		Hub:           hub,
		WebhookSecret: webhookSecret,
	}
}

// currentUser resolves the verified external subject to the internal user and
// writes the failure response itself when that is not possible.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	user, err := h.Users.Resolve(c.Request.Context(), middleware.GetExternalID(c))
	if err != nil {
		utils.Error(c, err)
		return nil, false
	}
	return user, true
}
