package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler handles direct messaging between users
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/conversation", h.GetConversation)
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// SendMessage sends a message to another user and notifies them
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Message content exceeds 1000 characters")
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipient ID")
	}
	if recipientID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a message to yourself")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, recipientID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := &models.Message{
		Sender:    userID,
		Recipient: recipientID,
		Content:   content,
		MediaURL:  req.Media,
	}

	if err := h.messageRepository.CreateMessage(ctx, message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, aerr := h.userRepository.GetUserByID(ctx, userID)
	if aerr == nil {
		notify(ctx, h.notificationRepository, &models.Notification{
			Recipient: recipientID,
			Sender:    userID,
			Type:      models.NotificationNewMessage,
			Message:   actor.DisplayName() + " sent you a message",
			Data:      map[string]string{"message_id": message.ID.Hex()},
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": message})
}

// GetConversation returns the messages between the caller and ?userId=.
// As a side effect, every unread message from that counterpart to the
// caller is marked read.
func (h *MessageHandler) GetConversation(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	counterpartID, err := primitive.ObjectIDFromHex(c.QueryParam("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or missing userId")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, counterpartID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, limit := paginationParams(c)
	messages, total, err := h.messageRepository.GetConversation(ctx, userID, counterpartID, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.messageRepository.MarkConversationRead(ctx, userID, counterpartID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Reflect the read-marking in the returned page
	for i := range messages {
		if messages[i].Recipient == userID {
			messages[i].IsRead = true
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    messages,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetConversations lists the latest message per counterpart with unread counts
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	latest, err := h.messageRepository.GetLatestPerCounterpart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	counterpartIDs := make([]primitive.ObjectID, 0, len(latest))
	for _, m := range latest {
		if m.Sender == userID {
			counterpartIDs = append(counterpartIDs, m.Recipient)
		} else {
			counterpartIDs = append(counterpartIDs, m.Sender)
		}
	}

	users, err := h.userRepository.GetUsersByIDs(ctx, counterpartIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	byID := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for _, u := range users {
		byID[u.ID] = u.ToCompact()
	}

	conversations := make([]models.Conversation, 0, len(latest))
	for i, m := range latest {
		counterpartID := counterpartIDs[i]
		unread, uerr := h.messageRepository.CountUnreadFrom(ctx, userID, counterpartID)
		if uerr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, uerr.Error())
		}
		conversations = append(conversations, models.Conversation{
			User:        byID[counterpartID],
			LastMessage: m,
			UnreadCount: unread,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conversations})
}

// GetUnreadCount returns the live count of unread messages for the caller
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.messageRepository.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}
