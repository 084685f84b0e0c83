package handlers

import (
	"net/http"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupHandler handles group membership HTTP requests
type GroupHandler struct {
	groupRepository        repositories.GroupRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *GroupHandler {
	return &GroupHandler{
		groupRepository:        groupRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterGroupRoutes registers group-related routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups/:id", h.GetGroup)
	g.POST("/groups/:id/join", h.JoinGroup)
	g.POST("/groups/:id/leave", h.LeaveGroup)
	g.POST("/groups/:id/invites", h.InviteToGroup)
}

// GroupResponse is a group with its derived member count
type GroupResponse struct {
	models.Group
	MembersCount int `json:"members_count"`
}

// CreateGroup creates a group with the caller as creator, admin and member
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Creator:     userID,
	}

	if err := h.groupRepository.CreateGroup(c.Request().Context(), group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    GroupResponse{Group: *group, MembersCount: group.MembersCount()},
	})
}

// GetGroup retrieves a group. The member count is always derived from the
// members array, never stored.
func (h *GroupHandler) GetGroup(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), groupID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    GroupResponse{Group: *group, MembersCount: group.MembersCount()},
	})
}

// JoinGroup adds the caller to the group's member set
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	if err := h.groupRepository.AddMember(c.Request().Context(), groupID, userID); err != nil {
		switch err {
		case repositories.ErrNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		case repositories.ErrDuplicate:
			return echo.NewHTTPError(http.StatusConflict, "Already a member of this group")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"joined": true}})
}

// LeaveGroup removes the caller from the group. The creator cannot leave.
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	ctx := c.Request().Context()
	group, err := h.groupRepository.GetGroupByID(ctx, groupID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if group.Creator == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "Group creator cannot leave the group")
	}

	if err := h.groupRepository.RemoveMember(ctx, groupID, userID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Not a member of this group")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"left": true}})
}

// InviteToGroup sends a GROUP_INVITE notification to another user.
// Only admins may invite; the invitee joins via the join endpoint.
func (h *GroupHandler) InviteToGroup(c echo.Context) error {
	userID := currentUserID(c)
	if userID.IsZero() {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	var req models.InviteToGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	group, err := h.groupRepository.GetGroupByID(ctx, groupID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !group.IsAdmin(userID) {
		return echo.NewHTTPError(http.StatusForbidden, "Only group admins can invite users")
	}

	invitee, err := h.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if group.IsMember(invitee.ID) {
		return echo.NewHTTPError(http.StatusConflict, "User is already a member of this group")
	}

	actor, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notify(ctx, h.notificationRepository, &models.Notification{
		Recipient: invitee.ID,
		Sender:    userID,
		Type:      models.NotificationGroupInvite,
		Message:   actor.DisplayName() + " invited you to join " + group.Name,
		Data:      map[string]string{"group_id": groupID.Hex()},
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"invited": true}})
}
