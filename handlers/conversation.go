package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mingle/models"
	"mingle/utils"
	"mingle/websocket"
)

type CreateGroupBody struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"member_ids" binding:"required"`
}

type MarkReadBody struct {
	MessageID string `json:"message_id" binding:"required"`
}

type SendMessageBody struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) GetConversations(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	conversations, err := h.Conversations.List(c.Request.Context(), caller.ID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if conversations == nil {
		conversations = []*models.Conversation{}
	}
	utils.Success(c, conversations)
}

func (h *Handler) GetConversation(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	detail, err := h.Conversations.Get(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, detail)
}

func (h *Handler) CreateGroup(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	var body CreateGroupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	conversation, memberIDs, err := h.Conversations.CreateGroup(c.Request.Context(), caller.ID, body.Name, body.MemberIDs)
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.Hub.SendToUsers(memberIDs, &websocket.Event{
		Event: "conversation.created",
		Data:  gin.H{"conversation_id": conversation.ID, "name": conversation.Name},
	})

	utils.Success(c, gin.H{"id": conversation.ID})
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	conversationID := c.Param("id")
	memberIDs, err := h.Conversations.DeleteGroup(c.Request.Context(), caller.ID, conversationID)
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

func (h *Handler) LeaveGroup(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Conversations.LeaveGroup(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	var body MarkReadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Conversations.MarkRead(c.Request.Context(), caller.ID, c.Param("id"), body.MessageID); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}

func (h *Handler) SendMessage(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	var body SendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	message, memberIDs, err := h.Conversations.SendMessage(c.Request.Context(), caller.ID, c.Param("id"), body.Content)
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.Hub.SendToUsers(memberIDs, &websocket.Event{
		Event: "message.new",
		Data:  message,
	})

	utils.Success(c, message)
}

func (h *Handler) GetMessages(c *gin.Context) {
	caller, ok := h.currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.Conversations.ListMessages(c.Request.Context(), caller.ID, c.Param("id"), limit)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	utils.Success(c, messages)
}
