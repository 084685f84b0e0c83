package handlers

import (
	"net/http"
	"time"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler handles the follow state machine: NONE -> PENDING ->
// ACCEPTED, with rejection and unfollow both deleting the edge.
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follows/:username", h.FollowUser)
	g.DELETE("/follows/:username", h.UnfollowUser)
	g.GET("/follows/requests", h.GetPendingRequests)
	g.PUT("/follows/requests/:username/approve", h.ApproveRequest)
	g.PUT("/follows/requests/:username/reject", h.RejectRequest)
}

// FollowUser creates a follow edge toward :username. A public target is
// followed immediately; a private target gets a pending request.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if target.ID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	status := models.FollowStatusAccepted
	if target.IsPrivate {
		status = models.FollowStatusPending
	}

	follow := &models.Follow{
		Follower:  userID,
		Following: target.ID,
		Status:    status,
	}

	if err := h.followRepository.CreateFollow(ctx, follow); err != nil {
		if err == repositories.ErrDuplicate {
			return echo.NewHTTPError(http.StatusConflict, "Follow relationship already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if status == models.FollowStatusPending {
		notify(ctx, h.notificationRepository, &models.Notification{
			Recipient: target.ID,
			Sender:    userID,
			Type:      models.NotificationNewFollowRequest,
			Message:   actor.DisplayName() + " wants to follow you",
			Data:      map[string]string{"username": actor.Username},
		})
	} else {
		// Instant approval on public accounts: the requester gets the same
		// side effect an explicit approval would have produced.
		notify(ctx, h.notificationRepository, &models.Notification{
			Recipient: userID,
			Sender:    target.ID,
			Type:      models.NotificationFollowApproved,
			Message:   "You are now following " + target.DisplayName(),
			Data:      map[string]string{"username": target.Username},
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"status": status}})
}

// UnfollowUser deletes the edge toward :username in any state.
// No notification is emitted for an unfollow.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.followRepository.DeleteFollow(ctx, userID, target.ID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Follow relationship not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetPendingRequests lists follow requests awaiting the caller's approval
func (h *FollowHandler) GetPendingRequests(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	requests, err := h.followRepository.GetPendingRequests(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, f := range requests {
		ids = append(ids, f.Follower)
	}
	users, err := h.userRepository.GetUsersByIDs(ctx, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	byID := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for _, u := range users {
		byID[u.ID] = u.ToCompact()
	}

	type pendingRequest struct {
		Follower  models.UserCompact `json:"follower"`
		CreatedAt time.Time          `json:"created_at"`
	}
	results := make([]pendingRequest, 0, len(requests))
	for _, f := range requests {
		results = append(results, pendingRequest{Follower: byID[f.Follower], CreatedAt: f.CreatedAt})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": results})
}

// ApproveRequest transitions a pending request from :username to accepted
// and notifies the requester
func (h *FollowHandler) ApproveRequest(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	requester, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.followRepository.ApproveRequest(ctx, requester.ID, userID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "No pending follow request from this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	approver, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notify(ctx, h.notificationRepository, &models.Notification{
		Recipient: requester.ID,
		Sender:    userID,
		Type:      models.NotificationFollowApproved,
		Message:   approver.DisplayName() + " approved your follow request",
		Data:      map[string]string{"username": approver.Username},
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": models.FollowStatusAccepted}})
}

// RejectRequest deletes a pending request from :username. The edge is
// removed outright; no rejected document remains and nothing is notified.
func (h *FollowHandler) RejectRequest(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ctx := c.Request().Context()
	requester, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.followRepository.DeletePendingRequest(ctx, requester.ID, userID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "No pending follow request from this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"rejected": true}})
}
