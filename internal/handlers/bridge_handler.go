package handlers

import (
	"net/http"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BridgeHandler handles HTTP requests related to bridges (posts)
type BridgeHandler struct {
	bridgeRepository       repositories.BridgeRepository
	userRepository         repositories.UserRepository
	followRepository       repositories.FollowRepository
	likeRepository         repositories.LikeRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
}

// NewBridgeHandler creates a new BridgeHandler
func NewBridgeHandler(
	bridgeRepo repositories.BridgeRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	notifRepo repositories.NotificationRepository,
) *BridgeHandler {
	return &BridgeHandler{
		bridgeRepository:       bridgeRepo,
		userRepository:         userRepo,
		followRepository:       followRepo,
		likeRepository:         likeRepo,
		commentRepository:      commentRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterBridgeRoutes registers bridge-related routes
func (h *BridgeHandler) RegisterBridgeRoutes(g *echo.Group) {
	g.POST("/bridges", h.CreateBridge)
	g.GET("/bridges/feed", h.GetFeed)
	g.GET("/bridges/:id", h.GetBridge)
	g.DELETE("/bridges/:id", h.DeleteBridge)
	g.GET("/users/:username/bridges", h.GetBridgesByUsername)
}

// BridgeResponse is a bridge enriched with live engagement counts
type BridgeResponse struct {
	models.Bridge
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
}

// CreateBridge creates a bridge and fans NEW_BRIDGE_SHARED out to every
// accepted follower of the author
func (h *BridgeHandler) CreateBridge(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBridgeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	bridge := &models.Bridge{
		Author:     userID,
		Content:    req.Content,
		ImageURLs:  req.ImageURLs,
		Visibility: req.Visibility,
	}

	if err := h.bridgeRepository.CreateBridge(ctx, bridge); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	author, err := h.userRepository.GetUserByID(ctx, userID)
	if err == nil {
		followerIDs, ferr := h.followRepository.GetFollowerIDs(ctx, userID)
		if ferr == nil {
			notifications := make([]models.Notification, 0, len(followerIDs))
			for _, fid := range followerIDs {
				notifications = append(notifications, models.Notification{
					Recipient: fid,
					Sender:    userID,
					Type:      models.NotificationNewBridgeShared,
					Message:   author.DisplayName() + " shared a new bridge",
					Data:      map[string]string{"bridge_id": bridge.ID.Hex()},
				})
			}
			notifyMany(ctx, h.notificationRepository, notifications)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": bridge})
}

// GetBridge retrieves a bridge with live engagement counts
func (h *BridgeHandler) GetBridge(c echo.Context) error {
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

	// Follower-only bridges are invisible to non-followers; 404 rather than
	// 403 so existence doesn't leak.
	if bridge.Visibility == models.VisibilityFollowers && bridge.Author != userID {
		follow, ferr := h.followRepository.GetFollow(ctx, userID, bridge.Author)
		if ferr != nil || follow.Status != models.FollowStatusAccepted {
			return echo.NewHTTPError(http.StatusNotFound, "Bridge not found")
		}
	}

	resp, err := h.enrich(c, *bridge)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": resp})
}

// DeleteBridge deletes a bridge and cascades its likes and comments.
// Only the author may delete.
func (h *BridgeHandler) DeleteBridge(c echo.Context) error {
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

	if bridge.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's bridge")
	}

	if err := h.bridgeRepository.DeleteBridge(ctx, bridgeID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteByBridge(ctx, bridgeID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteByBridge(ctx, bridgeID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetFeed returns bridges by the caller and everyone they follow, newest first
func (h *BridgeHandler) GetFeed(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	authors, err := h.followRepository.GetFollowingIDs(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authors = append(authors, userID)

	page, limit := paginationParams(c)
	bridges, total, err := h.bridgeRepository.GetFeed(ctx, authors, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]BridgeResponse, 0, len(bridges))
	for _, b := range bridges {
		resp, err := h.enrich(c, b)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results = append(results, resp)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    results,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetBridgesByUsername lists bridges authored by :username. Followers-only
// bridges appear only for the author and their accepted followers, matching
// the per-bridge visibility check in GetBridge.
func (h *BridgeHandler) GetBridgesByUsername(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publicOnly := author.ID != userID
	if publicOnly {
		if follow, ferr := h.followRepository.GetFollow(ctx, userID, author.ID); ferr == nil && follow.Status == models.FollowStatusAccepted {
			publicOnly = false
		}
	}

	page, limit := paginationParams(c)
	bridges, total, err := h.bridgeRepository.GetBridgesByAuthor(ctx, author.ID, publicOnly, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]BridgeResponse, 0, len(bridges))
	for _, b := range bridges {
		resp, err := h.enrich(c, b)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results = append(results, resp)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    results,
		"meta":    paginationMeta(page, limit, total),
	})
}

// enrich attaches live like and comment counts to a bridge
func (h *BridgeHandler) enrich(c echo.Context, bridge models.Bridge) (BridgeResponse, error) {
	ctx := c.Request().Context()
	likes, err := h.likeRepository.CountByBridge(ctx, bridge.ID)
	if err != nil {
		return BridgeResponse{}, err
	}
	comments, err := h.commentRepository.CountByBridge(ctx, bridge.ID)
	if err != nil {
		return BridgeResponse{}, err
	}
	return BridgeResponse{Bridge: bridge, LikesCount: likes, CommentsCount: comments}, nil
}
