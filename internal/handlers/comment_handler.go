package handlers

import (
	"net/http"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	bridgeRepository       repositories.BridgeRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, bridgeRepo repositories.BridgeRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		bridgeRepository:       bridgeRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/bridges/:id/comments", h.CreateComment)
	g.GET("/bridges/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment on a bridge and notifies its author
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bridgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	bridge, err := h.bridgeRepository.GetBridgeByID(ctx, bridgeID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		User:    userID,
		Bridge:  bridgeID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if bridge.Author != userID {
		actor, aerr := h.userRepository.GetUserByID(ctx, userID)
		if aerr == nil {
			notify(ctx, h.notificationRepository, &models.Notification{
				Recipient: bridge.Author,
				Sender:    userID,
				Type:      models.NotificationNewComment,
				Message:   actor.DisplayName() + " commented on your bridge",
				Data:      map[string]string{"bridge_id": bridgeID.Hex(), "comment_id": comment.ID.Hex()},
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists comments on a bridge, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bridgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
	}

	ctx := c.Request().Context()
	if _, err := h.bridgeRepository.GetBridgeByID(ctx, bridgeID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, limit := paginationParams(c)
	comments, total, err := h.commentRepository.GetByBridge(ctx, bridgeID, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    comments,
		"meta":    paginationMeta(page, limit, total),
	})
}

// DeleteComment deletes a comment. Allowed for the comment owner and for
// the author of the bridge it sits on.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.User != userID {
		bridge, berr := h.bridgeRepository.GetBridgeByID(ctx, comment.Bridge)
		if berr != nil || bridge.Author != userID {
			return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's comment")
		}
	}

	if err := h.commentRepository.DeleteComment(ctx, commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
