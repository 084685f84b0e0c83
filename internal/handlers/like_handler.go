package handlers

import (
	"net/http"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	bridgeRepository       repositories.BridgeRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, bridgeRepo repositories.BridgeRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		bridgeRepository:       bridgeRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/bridges/:id/like", h.LikeBridge)
	g.DELETE("/bridges/:id/like", h.UnlikeBridge)
	g.GET("/bridges/:id/like/status", h.GetLikeStatus)
}

// LikeBridge likes a bridge. A duplicate like returns 409, distinct from
// the 404 of an unknown bridge.
func (h *LikeHandler) LikeBridge(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bridgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
	}

	ctx := c.Request().Context()
	bridge, err := h.bridgeRepository.GetBridgeByID(ctx, bridgeID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	like := &models.Like{
		User:   userID,
		Bridge: bridgeID,
	}

	// The unique (user, bridge) index is the real idempotence guard; the
	// insert either succeeds once or surfaces ErrDuplicate.
	if err := h.likeRepository.CreateLike(ctx, like); err != nil {
		if err == repositories.ErrDuplicate {
			return echo.NewHTTPError(http.StatusConflict, "Bridge already liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if bridge.Author != userID {
		actor, aerr := h.userRepository.GetUserByID(ctx, userID)
		if aerr == nil {
			notify(ctx, h.notificationRepository, &models.Notification{
				Recipient: bridge.Author,
				Sender:    userID,
				Type:      models.NotificationNewLike,
				Message:   actor.DisplayName() + " liked your bridge",
				Data:      map[string]string{"bridge_id": bridgeID.Hex()},
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// UnlikeBridge removes the caller's like from a bridge
func (h *LikeHandler) UnlikeBridge(c echo.Context) error {
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

	if err := h.likeRepository.DeleteLike(ctx, userID, bridgeID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
}

// GetLikeStatus reports whether the caller has liked the bridge
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
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

	hasLiked, err := h.likeRepository.HasUserLiked(ctx, userID, bridgeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": hasLiked}})
}
