package handlers

import (
	"github.com/gin-gonic/gin"

	"mingle/models"
	"mingle/utils"
	"mingle/websocket"
)

type CreateRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) GetFriends(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	friends, err := h.Friends.ListFriends(c.Request.Context(), caller.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	responses := []models.UserResponse{}
	for _, friend := range friends {
		responses = append(responses, *friend.ToResponse())
	}
	utils.Success(c, responses)
}

func (h *Handler) GetFriendRequests(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	requests, err := h.Friends.ListRequests(c.Request.Context(), caller.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if requests == nil {
		requests = []models.RequestWithSender{}
	}
	utils.Success(c, requests)
}

func (h *Handler) SendFriendRequest(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	request, err := h.Friends.CreateRequest(c.Request.Context(), caller, body.Email)
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.Hub.SendToUser(request.ReceiverID, &websocket.Event{
		Event: "request.received",
		Data:  gin.H{"request_id": request.ID, "sender": caller.ToResponse()},
	})

	utils.Success(c, gin.H{"id": request.ID})
}

func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	friendship, err := h.Friends.AcceptRequest(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.Hub.SendToUsers([]string{friendship.User1ID, friendship.User2ID}, &websocket.Event{
		Event: "request.accepted",
		Data:  gin.H{"conversation_id": friendship.ConversationID},
	})

	utils.Success(c, nil)
}

func (h *Handler) DenyFriendRequest(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Friends.DenyRequest(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}

// RemoveFriend tears down the direct conversation identified by the route
// parameter together with its friendship edge, memberships and messages.
func (h *Handler) RemoveFriend(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversation_id")
	memberIDs, err := h.Friends.RemoveFriend(c.Request.Context(), caller.ID, conversationID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.Hub.SendToUsers(memberIDs, &websocket.Event{
		Event: "conversation.deleted",
		Data:  gin.H{"conversation_id": conversationID},
	})

	utils.Success(c, nil)
}
