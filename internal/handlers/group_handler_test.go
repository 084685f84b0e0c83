package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/avdbp/bridgea-backend/internal/models"
)

func newGroupFixture() (*GroupHandler, *fakeUserRepo, *fakeGroupRepo, *fakeNotificationRepo) {
	userRepo := newFakeUserRepo()
	groupRepo := newFakeGroupRepo()
	notifRepo := newFakeNotificationRepo()
	return NewGroupHandler(groupRepo, userRepo, notifRepo), userRepo, groupRepo, notifRepo
}

func createGroup(t *testing.T, h *GroupHandler, creator *models.User, name string) *models.Group {
	t.Helper()
	c, rec := newTestContext(http.MethodPost, "/groups", fmt.Sprintf(`{"name":%q}`, name))
	authenticate(c, creator)
	expectOK(t, h.CreateGroup(c), rec, http.StatusCreated)

	id := dataField(t, rec, "id").(string)
	group, err := h.groupRepository.(*fakeGroupRepo).GetGroupByID(context.Background(), mustObjectID(t, id))
	if err != nil {
		t.Fatalf("created group not found: %v", err)
	}
	return group
}

func joinGroup(t *testing.T, h *GroupHandler, actor *models.User, groupID string) error {
	t.Helper()
	c, _ := newTestContext(http.MethodPost, "/", "")
	c.SetPath("/groups/:id/join")
	c.SetParamNames("id")
	c.SetParamValues(groupID)
	authenticate(c, actor)
	return h.JoinGroup(c)
}

func leaveGroup(t *testing.T, h *GroupHandler, actor *models.User, groupID string) error {
	t.Helper()
	c, _ := newTestContext(http.MethodPost, "/", "")
	c.SetPath("/groups/:id/leave")
	c.SetParamNames("id")
	c.SetParamValues(groupID)
	authenticate(c, actor)
	return h.LeaveGroup(c)
}

func TestCreateGroupSeedsCreator(t *testing.T) {
	h, userRepo, _, _ := newGroupFixture()
	alice := userRepo.mustAddUser("alice", false)

	group := createGroup(t, h, alice, "hikers")
	if group.Creator != alice.ID {
		t.Fatalf("expected alice as creator, got %s", group.Creator.Hex())
	}
	if !group.IsAdmin(alice.ID) || !group.IsMember(alice.ID) {
		t.Fatal("creator must start as admin and member")
	}
	if group.MembersCount() != 1 {
		t.Fatalf("expected 1 member, got %d", group.MembersCount())
	}
}

func TestJoinAndLeaveGroup(t *testing.T) {
	h, userRepo, groupRepo, _ := newGroupFixture()
	alice := userRepo.mustAddUser("alice", false)
	bob := userRepo.mustAddUser("bob", false)

	group := createGroup(t, h, alice, "hikers")

	if err := joinGroup(t, h, bob, group.ID.Hex()); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	stored, _ := groupRepo.GetGroupByID(context.Background(), group.ID)
	if stored.MembersCount() != 2 {
		t.Fatalf("expected 2 members after join, got %d", stored.MembersCount())
	}

	// Joining twice is a conflict, not a second membership
	expectStatus(t, joinGroup(t, h, bob, group.ID.Hex()), http.StatusConflict)
	stored, _ = groupRepo.GetGroupByID(context.Background(), group.ID)
	if stored.MembersCount() != 2 {
		t.Fatalf("duplicate join changed membership: %d members", stored.MembersCount())
	}

	if err := leaveGroup(t, h, bob, group.ID.Hex()); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	stored, _ = groupRepo.GetGroupByID(context.Background(), group.ID)
	if stored.MembersCount() != 1 || stored.IsMember(bob.ID) {
		t.Fatalf("expected bob removed, got %d members", stored.MembersCount())
	}

	// Leaving when not a member has nothing to remove
	expectStatus(t, leaveGroup(t, h, bob, group.ID.Hex()), http.StatusNotFound)
}

func TestCreatorCannotLeave(t *testing.T) {
	h, userRepo, _, _ := newGroupFixture()
	alice := userRepo.mustAddUser("alice", false)

	group := createGroup(t, h, alice, "hikers")
	expectStatus(t, leaveGroup(t, h, alice, group.ID.Hex()), http.StatusBadRequest)
}

func TestInviteToGroup(t *testing.T) {
	h, userRepo, _, notifRepo := newGroupFixture()
	alice := userRepo.mustAddUser("alice", false)
	bob := userRepo.mustAddUser("bob", false)
	carol := userRepo.mustAddUser("carol", false)

	group := createGroup(t, h, alice, "hikers")

	invite := func(actor *models.User, username string) error {
		c, _ := newTestContext(http.MethodPost, "/", fmt.Sprintf(`{"username":%q}`, username))
		c.SetPath("/groups/:id/invites")
		c.SetParamNames("id")
		c.SetParamValues(group.ID.Hex())
		authenticate(c, actor)
		return h.InviteToGroup(c)
	}

	// Non-admins cannot invite
	expectStatus(t, invite(bob, "carol"), http.StatusForbidden)

	// Admin invites carol; she gets exactly one GROUP_INVITE
	if err := invite(alice, "carol"); err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if got := len(notifRepo.byType(carol.ID, models.NotificationGroupInvite)); got != 1 {
		t.Fatalf("expected 1 group-invite notification, got %d", got)
	}

	// Inviting an existing member is a conflict
	if err := joinGroup(t, h, carol, group.ID.Hex()); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	expectStatus(t, invite(alice, "carol"), http.StatusConflict)

	// Unknown invitee
	expectStatus(t, invite(alice, "nobody"), http.StatusNotFound)
}

func TestGetGroupDerivedCount(t *testing.T) {
	h, userRepo, _, _ := newGroupFixture()
	alice := userRepo.mustAddUser("alice", false)
	bob := userRepo.mustAddUser("bob", false)

	group := createGroup(t, h, alice, "hikers")
	if err := joinGroup(t, h, bob, group.ID.Hex()); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	c, rec := newTestContext(http.MethodGet, "/", "")
	c.SetPath("/groups/:id")
	c.SetParamNames("id")
	c.SetParamValues(group.ID.Hex())
	authenticate(c, bob)
	expectOK(t, h.GetGroup(c), rec, http.StatusOK)

	if count := dataField(t, rec, "members_count"); count != float64(2) {
		t.Fatalf("expected members_count 2, got %v", count)
	}
}
