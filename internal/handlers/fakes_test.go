package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces. They mirror the
// Mongo implementations' contracts: sentinel errors, unique-index behavior,
// accepted-only graph queries.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmailOrUsername(ctx context.Context, emailOrUsername string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == emailOrUsername || u.Username == emailOrUsername {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	users := []models.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			users = append(users, *u)
		}
	}
	return users, nil
}

// mustAddUser seeds a user directly, bypassing registration
func (r *fakeUserRepo) mustAddUser(username string, isPrivate bool) *models.User {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Test",
		Location:  "Testville",
		IsPrivate: isPrivate,
	}
	r.users[user.ID] = user
	return user
}

type fakeFollowRepo struct {
	edges map[string]*models.Follow
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[string]*models.Follow)}
}

func followKey(follower, following primitive.ObjectID) string {
	return follower.Hex() + ":" + following.Hex()
}

func (r *fakeFollowRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeFollowRepo) CreateFollow(ctx context.Context, follow *models.Follow) error {
	key := followKey(follow.Follower, follow.Following)
	if _, ok := r.edges[key]; ok {
		return repositories.ErrDuplicate
	}
	follow.ID = primitive.NewObjectID()
	follow.CreatedAt = time.Now()
	r.edges[key] = follow
	return nil
}

func (r *fakeFollowRepo) GetFollow(ctx context.Context, follower, following primitive.ObjectID) (*models.Follow, error) {
	if f, ok := r.edges[followKey(follower, following)]; ok {
		return f, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeFollowRepo) ApproveRequest(ctx context.Context, follower, following primitive.ObjectID) error {
	f, ok := r.edges[followKey(follower, following)]
	if !ok || f.Status != models.FollowStatusPending {
		return repositories.ErrNotFound
	}
	f.Status = models.FollowStatusAccepted
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error {
	key := followKey(follower, following)
	if _, ok := r.edges[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeFollowRepo) DeletePendingRequest(ctx context.Context, follower, following primitive.ObjectID) error {
	key := followKey(follower, following)
	f, ok := r.edges[key]
	if !ok || f.Status != models.FollowStatusPending {
		return repositories.ErrNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeFollowRepo) GetPendingRequests(ctx context.Context, following primitive.ObjectID) ([]models.Follow, error) {
	follows := []models.Follow{}
	for _, f := range r.edges {
		if f.Following == following && f.Status == models.FollowStatusPending {
			follows = append(follows, *f)
		}
	}
	return follows, nil
}

func (r *fakeFollowRepo) GetFollowerIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for _, f := range r.edges {
		if f.Following == userID && f.Status == models.FollowStatusAccepted {
			ids = append(ids, f.Follower)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for _, f := range r.edges {
		if f.Follower == userID && f.Status == models.FollowStatusAccepted {
			ids = append(ids, f.Following)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) CountFollowers(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ids, _ := r.GetFollowerIDs(ctx, userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) CountFollowing(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ids, _ := r.GetFollowingIDs(ctx, userID)
	return int64(len(ids)), nil
}

type fakeBridgeRepo struct {
	bridges map[primitive.ObjectID]*models.Bridge
}

func newFakeBridgeRepo() *fakeBridgeRepo {
	return &fakeBridgeRepo{bridges: make(map[primitive.ObjectID]*models.Bridge)}
}

func (r *fakeBridgeRepo) CreateBridge(ctx context.Context, bridge *models.Bridge) error {
	bridge.ID = primitive.NewObjectID()
	bridge.CreatedAt = time.Now()
	bridge.UpdatedAt = bridge.CreatedAt
	if bridge.Visibility == "" {
		bridge.Visibility = models.VisibilityPublic
	}
	r.bridges[bridge.ID] = bridge
	return nil
}

func (r *fakeBridgeRepo) GetBridgeByID(ctx context.Context, id primitive.ObjectID) (*models.Bridge, error) {
	if b, ok := r.bridges[id]; ok {
		return b, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeBridgeRepo) GetBridgesByAuthor(ctx context.Context, author primitive.ObjectID, publicOnly bool, skip, limit int64) ([]models.Bridge, int64, error) {
	bridges := []models.Bridge{}
	for _, b := range r.bridges {
		if b.Author != author {
			continue
		}
		if publicOnly && b.Visibility != models.VisibilityPublic {
			continue
		}
		bridges = append(bridges, *b)
	}
	sort.Slice(bridges, func(i, j int) bool { return bridges[i].CreatedAt.After(bridges[j].CreatedAt) })
	return bridges, int64(len(bridges)), nil
}

func (r *fakeBridgeRepo) GetFeed(ctx context.Context, authors []primitive.ObjectID, skip, limit int64) ([]models.Bridge, int64, error) {
	set := make(map[primitive.ObjectID]bool, len(authors))
	for _, a := range authors {
		set[a] = true
	}
	bridges := []models.Bridge{}
	for _, b := range r.bridges {
		if set[b.Author] {
			bridges = append(bridges, *b)
		}
	}
	sort.Slice(bridges, func(i, j int) bool { return bridges[i].CreatedAt.After(bridges[j].CreatedAt) })
	return bridges, int64(len(bridges)), nil
}

func (r *fakeBridgeRepo) DeleteBridge(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.bridges[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.bridges, id)
	return nil
}

type fakeLikeRepo struct {
	likes map[string]*models.Like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*models.Like)}
}

func likeKey(user, bridge primitive.ObjectID) string {
	return user.Hex() + ":" + bridge.Hex()
}

func (r *fakeLikeRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeLikeRepo) CreateLike(ctx context.Context, like *models.Like) error {
	key := likeKey(like.User, like.Bridge)
	if _, ok := r.likes[key]; ok {
		return repositories.ErrDuplicate
	}
	like.ID = primitive.NewObjectID()
	like.CreatedAt = time.Now()
	r.likes[key] = like
	return nil
}

func (r *fakeLikeRepo) DeleteLike(ctx context.Context, user, bridge primitive.ObjectID) error {
	key := likeKey(user, bridge)
	if _, ok := r.likes[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.likes, key)
	return nil
}

func (r *fakeLikeRepo) HasUserLiked(ctx context.Context, user, bridge primitive.ObjectID) (bool, error) {
	_, ok := r.likes[likeKey(user, bridge)]
	return ok, nil
}

func (r *fakeLikeRepo) CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error) {
	var count int64
	for _, l := range r.likes {
		if l.Bridge == bridge {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error {
	for k, l := range r.likes {
		if l.Bridge == bridge {
			delete(r.likes, k)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCommentRepo) GetByBridge(ctx context.Context, bridge primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	comments := []models.Comment{}
	for _, c := range r.comments {
		if c.Bridge == bridge {
			comments = append(comments, *c)
		}
	}
	return comments, int64(len(comments)), nil
}

func (r *fakeCommentRepo) CountByBridge(ctx context.Context, bridge primitive.ObjectID) (int64, error) {
	var count int64
	for _, c := range r.comments {
		if c.Bridge == bridge {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByBridge(ctx context.Context, bridge primitive.ObjectID) error {
	for k, c := range r.comments {
		if c.Bridge == bridge {
			delete(r.comments, k)
		}
	}
	return nil
}

type fakeMessageRepo struct {
	messages []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (r *fakeMessageRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) GetConversation(ctx context.Context, a, b primitive.ObjectID, skip, limit int64) ([]models.Message, int64, error) {
	messages := []models.Message{}
	for _, m := range r.messages {
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			messages = append(messages, *m)
		}
	}
	return messages, int64(len(messages)), nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error) {
	var modified int64
	for _, m := range r.messages {
		if m.Recipient == recipient && m.Sender == sender && !m.IsRead {
			m.IsRead = true
			modified++
		}
	}
	return modified, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.Recipient == recipient && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) CountUnreadFrom(ctx context.Context, recipient, sender primitive.ObjectID) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.Recipient == recipient && m.Sender == sender && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) GetLatestPerCounterpart(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	latest := make(map[primitive.ObjectID]*models.Message)
	for _, m := range r.messages {
		var counterpart primitive.ObjectID
		switch userID {
		case m.Sender:
			counterpart = m.Recipient
		case m.Recipient:
			counterpart = m.Sender
		default:
			continue
		}
		if prev, ok := latest[counterpart]; !ok || m.CreatedAt.After(prev.CreatedAt) {
			latest[counterpart] = m
		}
	}
	messages := []models.Message{}
	for _, m := range latest {
		messages = append(messages, *m)
	}
	return messages, nil
}

type fakeNotificationRepo struct {
	notifications map[primitive.ObjectID]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (r *fakeNotificationRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	r.notifications[notification.ID] = notification
	return nil
}

func (r *fakeNotificationRepo) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	for i := range notifications {
		n := notifications[i]
		n.ID = primitive.NewObjectID()
		n.CreatedAt = time.Now()
		r.notifications[n.ID] = &n
	}
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		return n, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	notifications := []models.Notification{}
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			notifications = append(notifications, *n)
		}
	}
	return notifications, int64(len(notifications)), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	n, ok := r.notifications[id]
	if !ok {
		return repositories.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipient primitive.ObjectID) error {
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			n.IsRead = true
		}
	}
	return nil
}

// byType returns the recipient's notifications of one type
func (r *fakeNotificationRepo) byType(recipient primitive.ObjectID, notifType string) []*models.Notification {
	matched := []*models.Notification{}
	for _, n := range r.notifications {
		if n.Recipient == recipient && n.Type == notifType {
			matched = append(matched, n)
		}
	}
	return matched
}

type fakeGroupRepo struct {
	groups map[primitive.ObjectID]*models.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[primitive.ObjectID]*models.Group)}
}

func (r *fakeGroupRepo) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now()
	if len(group.Admins) == 0 {
		group.Admins = []primitive.ObjectID{group.Creator}
	}
	if len(group.Members) == 0 {
		group.Members = []primitive.ObjectID{group.Creator}
	}
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) GetGroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	if g, ok := r.groups[id]; ok {
		return g, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	g, ok := r.groups[groupID]
	if !ok {
		return repositories.ErrNotFound
	}
	if g.IsMember(userID) {
		return repositories.ErrDuplicate
	}
	g.Members = append(g.Members, userID)
	return nil
}

func (r *fakeGroupRepo) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	g, ok := r.groups[groupID]
	if !ok || !g.IsMember(userID) {
		return repositories.ErrNotFound
	}
	members := g.Members[:0]
	for _, id := range g.Members {
		if id != userID {
			members = append(members, id)
		}
	}
	g.Members = members
	admins := g.Admins[:0]
	for _, id := range g.Admins {
		if id != userID {
			admins = append(admins, id)
		}
	}
	g.Admins = admins
	return nil
}
